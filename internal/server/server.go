// Package server exposes the service layer over HTTP. Handlers stay thin:
// bind input, call one service operation, render its envelope.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aijournal/aijournal/internal/config"
	"github.com/aijournal/aijournal/internal/logger"
	"github.com/aijournal/aijournal/internal/services"
)

// Service interfaces narrowed to what the handlers call, so tests can stub
// them with canned envelopes.
type EntryService interface {
	Create(ctx context.Context, userID uint, params services.EntryParams) services.Result
	Update(ctx context.Context, userID, entryID uint, params services.EntryUpdateParams) services.Result
	Destroy(ctx context.Context, userID, entryID uint) services.Result
	List(ctx context.Context, userID uint) services.Result
	Find(ctx context.Context, userID, entryID uint) services.Result
	FindByDate(ctx context.Context, userID uint, date time.Time) services.Result
	Search(ctx context.Context, userID uint, term string) services.Result
	GenerateFeedback(ctx context.Context, userID, entryID uint) services.Result
	PreviewFeedback(ctx context.Context, title, content string) services.Result
	Translate(ctx context.Context, japaneseText string) services.Result
	AddVocabulary(ctx context.Context, userID, entryID uint, word, meaning string) services.Result
	Statistics(ctx context.Context, userID uint) services.Result
}

type VocabularyService interface {
	Create(ctx context.Context, userID uint, params services.VocabularyParams) services.Result
	Update(ctx context.Context, userID, vocabID uint, params services.VocabularyParams) services.Result
	Destroy(ctx context.Context, userID, vocabID uint) services.Result
	ToggleMastered(ctx context.Context, userID, vocabID uint) services.Result
	ToggleFavorited(ctx context.Context, userID, vocabID uint) services.Result
	Search(ctx context.Context, userID uint, term, filter string) services.Result
	Flashcards(ctx context.Context, userID uint, filter string) services.Result
	Statistics(ctx context.Context, userID uint) services.Result
}

type UserService interface {
	Create(ctx context.Context, params services.UserParams) services.Result
	Update(ctx context.Context, userID uint, params services.UserParams) services.Result
	Statistics(ctx context.Context, userID uint) services.Result
	LearningProgress(ctx context.Context, userID uint) services.Result
	MotivationMessage(ctx context.Context, userID uint) services.Result
}

// Server ties the gin engine to the services and owns the HTTP lifecycle.
type Server struct {
	engine       *gin.Engine
	logger       logger.Logger
	cfg          config.ServerConfig
	entries      EntryService
	vocabularies VocabularyService
	users        UserService
}

func New(
	cfg config.ServerConfig,
	log logger.Logger,
	entries EntryService,
	vocabularies VocabularyService,
	users UserService,
	debug bool,
) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:       gin.New(),
		logger:       log,
		cfg:          cfg,
		entries:      entries,
		vocabularies: vocabularies,
		users:        users,
	}
	s.engine.Use(gin.Recovery(), RequestID(), RequestLogger(log))
	s.routes()
	return s
}

// Engine exposes the router, for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	s.engine.POST("/users", s.createUser)

	api := s.engine.Group("/", ResolveUser())
	{
		entries := api.Group("/entries")
		{
			entries.POST("", s.createEntry)
			entries.GET("", s.listEntries)
			entries.GET("/search", s.searchEntries)
			entries.GET("/by-date", s.entryByDate)
			entries.POST("/preview-feedback", s.previewFeedback)
			entries.POST("/translate", s.translate)
			entries.GET("/:id", s.showEntry)
			entries.PUT("/:id", s.updateEntry)
			entries.DELETE("/:id", s.deleteEntry)
			entries.POST("/:id/feedback", s.generateFeedback)
			entries.POST("/:id/vocabularies", s.addEntryVocabulary)
			entries.GET("/statistics", s.entryStatistics)
		}

		vocabularies := api.Group("/vocabularies")
		{
			vocabularies.POST("", s.createVocabulary)
			vocabularies.GET("", s.searchVocabularies)
			vocabularies.GET("/flashcards", s.flashcards)
			vocabularies.GET("/statistics", s.vocabularyStatistics)
			vocabularies.PUT("/:id", s.updateVocabulary)
			vocabularies.DELETE("/:id", s.deleteVocabulary)
			vocabularies.PATCH("/:id/mastered", s.toggleMastered)
			vocabularies.PATCH("/:id/favorited", s.toggleFavorited)
		}

		me := api.Group("/me")
		{
			me.PUT("", s.updateUser)
			me.GET("/statistics", s.userStatistics)
			me.GET("/progress", s.learningProgress)
			me.GET("/motivation", s.motivation)
		}
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves until the context is cancelled, then drains in-flight requests
// within the configured shutdown window.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}
