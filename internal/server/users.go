package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aijournal/aijournal/internal/services"
)

func (s *Server) createUser(c *gin.Context) {
	var params services.UserParams
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.users.Create(c.Request.Context(), params), http.StatusCreated)
}

func (s *Server) updateUser(c *gin.Context) {
	var params services.UserParams
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.users.Update(c.Request.Context(), currentUserID(c), params), http.StatusOK)
}

func (s *Server) userStatistics(c *gin.Context) {
	respond(c, s.users.Statistics(c.Request.Context(), currentUserID(c)), http.StatusOK)
}

func (s *Server) learningProgress(c *gin.Context) {
	respond(c, s.users.LearningProgress(c.Request.Context(), currentUserID(c)), http.StatusOK)
}

func (s *Server) motivation(c *gin.Context) {
	respond(c, s.users.MotivationMessage(c.Request.Context(), currentUserID(c)), http.StatusOK)
}
