package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aijournal/aijournal/internal/services"
)

// entryRequest is the wire form of an entry write. PostedOn arrives as an
// ISO date string.
type entryRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	ContentJA   string `json:"content_ja"`
	AiTranslate string `json:"ai_translate"`
	PostedOn    string `json:"posted_on"`
	ImageKey    string `json:"image_key"`
}

func (r entryRequest) toParams() (services.EntryParams, error) {
	params := services.EntryParams{
		Title:       r.Title,
		Content:     r.Content,
		ContentJA:   r.ContentJA,
		AiTranslate: r.AiTranslate,
		ImageKey:    r.ImageKey,
	}
	if r.PostedOn != "" {
		day, err := time.Parse("2006-01-02", r.PostedOn)
		if err != nil {
			return params, err
		}
		params.PostedOn = day
	}
	return params, nil
}

// entryUpdateRequest mirrors entryRequest with pointer fields so an absent
// field can be told apart from an explicitly cleared one.
type entryUpdateRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	ContentJA   *string `json:"content_ja"`
	AiTranslate *string `json:"ai_translate"`
	PostedOn    *string `json:"posted_on"`
	ImageKey    *string `json:"image_key"`
}

func (r entryUpdateRequest) toParams() (services.EntryUpdateParams, error) {
	params := services.EntryUpdateParams{
		Title:       r.Title,
		Content:     r.Content,
		ContentJA:   r.ContentJA,
		AiTranslate: r.AiTranslate,
		ImageKey:    r.ImageKey,
	}
	if r.PostedOn != nil {
		day, err := time.Parse("2006-01-02", *r.PostedOn)
		if err != nil {
			return params, err
		}
		params.PostedOn = &day
	}
	return params, nil
}

func (s *Server) createEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	params, err := req.toParams()
	if err != nil {
		badDate(c)
		return
	}

	respond(c, s.entries.Create(c.Request.Context(), currentUserID(c), params), http.StatusCreated)
}

func (s *Server) updateEntry(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var req entryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	params, err := req.toParams()
	if err != nil {
		badDate(c)
		return
	}

	respond(c, s.entries.Update(c.Request.Context(), currentUserID(c), id, params), http.StatusOK)
}

func (s *Server) deleteEntry(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.entries.Destroy(c.Request.Context(), currentUserID(c), id), http.StatusOK)
}

func (s *Server) listEntries(c *gin.Context) {
	respond(c, s.entries.List(c.Request.Context(), currentUserID(c)), http.StatusOK)
}

func (s *Server) showEntry(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.entries.Find(c.Request.Context(), currentUserID(c), id), http.StatusOK)
}

func (s *Server) searchEntries(c *gin.Context) {
	respond(c, s.entries.Search(c.Request.Context(), currentUserID(c), c.Query("q")), http.StatusOK)
}

func (s *Server) entryByDate(c *gin.Context) {
	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		badDate(c)
		return
	}
	respond(c, s.entries.FindByDate(c.Request.Context(), currentUserID(c), day), http.StatusOK)
}

func (s *Server) generateFeedback(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.entries.GenerateFeedback(c.Request.Context(), currentUserID(c), id), http.StatusOK)
}

func (s *Server) previewFeedback(c *gin.Context) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.entries.PreviewFeedback(c.Request.Context(), req.Title, req.Content), http.StatusOK)
}

func (s *Server) translate(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.entries.Translate(c.Request.Context(), req.Text), http.StatusOK)
}

func (s *Server) addEntryVocabulary(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var req struct {
		Word    string `json:"word"`
		Meaning string `json:"meaning"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.entries.AddVocabulary(c.Request.Context(), currentUserID(c), id, req.Word, req.Meaning), http.StatusCreated)
}

func (s *Server) entryStatistics(c *gin.Context) {
	respond(c, s.entries.Statistics(c.Request.Context(), currentUserID(c)), http.StatusOK)
}

func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
}

func badDate(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "日付の形式が正しくありません (YYYY-MM-DD)"})
}
