package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aijournal/aijournal/internal/config"
	"github.com/aijournal/aijournal/internal/db/repositories/entry"
	"github.com/aijournal/aijournal/internal/db/repositories/user"
	"github.com/aijournal/aijournal/internal/db/repositories/vocabulary"
)

// Connect opens the PostgreSQL connection. TranslateError is on so driver
// errors surface as gorm sentinel errors (gorm.ErrDuplicatedKey in
// particular); the repositories rely on that to turn uniqueness races into
// validation failures instead of crashes.
func Connect(cfg config.DBConfig, debug bool) (*gorm.DB, error) {
	level := gormlogger.Error
	if debug {
		level = gormlogger.Info
	}

	database, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return database, nil
}

// Migrate applies the schema. Uniqueness invariants (one entry per user per
// day, one word per user, one link per entry/word pair) live here as
// composite unique indexes, enforced by the database, not the application.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&user.User{},
		&entry.Entry{},
		&vocabulary.Vocabulary{},
		&vocabulary.EntryVocabulary{},
	)
}
