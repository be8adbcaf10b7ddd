package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aijournal/aijournal/internal/services"
)

func (s *Server) createVocabulary(c *gin.Context) {
	var params services.VocabularyParams
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.vocabularies.Create(c.Request.Context(), currentUserID(c), params), http.StatusCreated)
}

func (s *Server) updateVocabulary(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var params services.VocabularyParams
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.vocabularies.Update(c.Request.Context(), currentUserID(c), id, params), http.StatusOK)
}

func (s *Server) deleteVocabulary(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.vocabularies.Destroy(c.Request.Context(), currentUserID(c), id), http.StatusOK)
}

func (s *Server) toggleMastered(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.vocabularies.ToggleMastered(c.Request.Context(), currentUserID(c), id), http.StatusOK)
}

func (s *Server) toggleFavorited(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.vocabularies.ToggleFavorited(c.Request.Context(), currentUserID(c), id), http.StatusOK)
}

func (s *Server) searchVocabularies(c *gin.Context) {
	respond(c, s.vocabularies.Search(c.Request.Context(), currentUserID(c), c.Query("q"), c.Query("filter")), http.StatusOK)
}

// flashcards always answers 200: an empty deck is a view state, not an error.
func (s *Server) flashcards(c *gin.Context) {
	result := s.vocabularies.Flashcards(c.Request.Context(), currentUserID(c), c.Query("filter"))
	if result.Kind == services.FailNone {
		c.JSON(http.StatusOK, result)
		return
	}
	respond(c, result, http.StatusOK)
}

func (s *Server) vocabularyStatistics(c *gin.Context) {
	respond(c, s.vocabularies.Statistics(c.Request.Context(), currentUserID(c)), http.StatusOK)
}
