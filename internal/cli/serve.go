package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aijournal/aijournal/internal/config"
	"github.com/aijournal/aijournal/internal/db"
	"github.com/aijournal/aijournal/internal/db/repositories/entry"
	"github.com/aijournal/aijournal/internal/db/repositories/user"
	"github.com/aijournal/aijournal/internal/db/repositories/vocabulary"
	"github.com/aijournal/aijournal/internal/logger"
	"github.com/aijournal/aijournal/internal/server"
	"github.com/aijournal/aijournal/internal/services"
	"github.com/aijournal/aijournal/pkg/ai"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if debugMode {
		cfg.Debug = true
	}
	if err := cfg.AI.Validate(); err != nil {
		return err
	}

	log := logger.NewZapLogger(cfg.Debug)
	defer func() { _ = log.Sync() }()

	database, err := db.Connect(cfg.DB, cfg.Debug)
	if err != nil {
		return err
	}
	if err := db.Migrate(database); err != nil {
		return err
	}

	users := user.NewUserRepository(database)
	entries := entry.NewEntryRepository(database)
	vocabularies := vocabulary.NewVocabularyRepository(database)

	// pkg/ai takes the zap logger directly; it has no dependency on the
	// application's logger wrapper.
	zlog := log.GetZapLogger()
	client := ai.NewClient(cfg.AI, zlog.Named("ai"))
	titleGen := ai.NewTitleGenerator(cfg.AI, client, zlog.Named("title"))
	feedbackGen := ai.NewFeedbackGenerator(cfg.AI, client, zlog.Named("feedback"))
	translator := ai.NewTranslator(cfg.AI, client, zlog.Named("translation"))

	entrySvc := services.NewEntryService(entries, vocabularies, titleGen, feedbackGen, translator, log.Named("entries"))
	vocabSvc := services.NewVocabularyService(vocabularies, log.Named("vocabularies"))
	userSvc := services.NewUserService(users, entries, vocabularies, log.Named("users"))

	srv := server.New(cfg.Server, log.Named("http"), entrySvc, vocabSvc, userSvc, cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting", zap.String("addr", cfg.Server.Addr()), zap.Bool("debug", cfg.Debug))
	return srv.Run(ctx)
}
