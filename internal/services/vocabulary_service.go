package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/aijournal/aijournal/internal/db/repositories/vocabulary"
	"github.com/aijournal/aijournal/internal/logger"
	"github.com/aijournal/aijournal/pkg/progress"
)

const (
	maxWordLength    = 255
	maxMeaningLength = 1000
)

// VocabularyParams is the user input for registering or editing a word.
type VocabularyParams struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
}

// VocabularyService manages the per-user word list and its entry links.
type VocabularyService struct {
	vocabularies vocabulary.VocabularyRepository
	logger       logger.Logger
	now          func() time.Time
}

func NewVocabularyService(vocabularies vocabulary.VocabularyRepository, log logger.Logger) *VocabularyService {
	if log == nil {
		log = logger.NewNop()
	}
	return &VocabularyService{
		vocabularies: vocabularies,
		logger:       log,
		now:          time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (s *VocabularyService) WithClock(now func() time.Time) *VocabularyService {
	s.now = now
	return s
}

// Create registers a standalone word. Registering an existing word updates
// its meaning instead of failing, and the message says which happened.
func (s *VocabularyService) Create(ctx context.Context, userID uint, params VocabularyParams) Result {
	if errs := validateVocabulary(params); len(errs) > 0 {
		return fail("単語の登録に失敗しました", errs...)
	}

	v, isNew, err := s.vocabularies.Upsert(ctx, userID, params.Word, params.Meaning)
	if err != nil {
		s.logger.Error("failed to upsert vocabulary", zap.String("word", params.Word), zap.Error(err))
		return failInternal("単語の登録に失敗しました")
	}

	if isNew {
		return ok(v, "単語を登録しました")
	}
	return ok(v, "単語を更新しました")
}

// AddFromEntry registers a word and links it to the entry it came from.
func (s *VocabularyService) AddFromEntry(ctx context.Context, userID, entryID uint, word, meaning string) Result {
	result := s.Create(ctx, userID, VocabularyParams{Word: word, Meaning: meaning})
	if !result.Success {
		return result
	}

	v, okType := result.Data.(*vocabulary.Vocabulary)
	if !okType {
		return result
	}
	if err := s.vocabularies.LinkEntry(ctx, entryID, v.ID); err != nil {
		s.logger.Error("failed to link vocabulary to entry",
			zap.Uint("entry_id", entryID), zap.Uint("vocabulary_id", v.ID), zap.Error(err))
		return failInternal("単語の登録に失敗しました")
	}
	return result
}

// Update edits an existing word.
func (s *VocabularyService) Update(ctx context.Context, userID, vocabID uint, params VocabularyParams) Result {
	v, err := s.vocabularies.FindByID(ctx, userID, vocabID)
	if err != nil {
		s.logger.Error("failed to load vocabulary", zap.Uint("vocabulary_id", vocabID), zap.Error(err))
		return failInternal("単語の更新に失敗しました")
	}
	if v == nil {
		return failNotFound("単語が見つかりません。")
	}

	if errs := validateVocabulary(params); len(errs) > 0 {
		return fail("単語の更新に失敗しました", errs...)
	}

	v.Word = params.Word
	v.Meaning = params.Meaning
	if err := s.vocabularies.Update(ctx, v); err != nil {
		s.logger.Error("failed to update vocabulary", zap.Uint("vocabulary_id", vocabID), zap.Error(err))
		return failInternal("単語の更新に失敗しました")
	}

	return ok(v, "単語を更新しました")
}

// Destroy removes a word from the list.
func (s *VocabularyService) Destroy(ctx context.Context, userID, vocabID uint) Result {
	v, err := s.vocabularies.FindByID(ctx, userID, vocabID)
	if err != nil {
		s.logger.Error("failed to load vocabulary", zap.Uint("vocabulary_id", vocabID), zap.Error(err))
		return failInternal("単語の削除に失敗しました")
	}
	if v == nil {
		return failNotFound("単語が見つかりません。")
	}

	if err := s.vocabularies.Delete(ctx, userID, vocabID); err != nil {
		s.logger.Error("failed to delete vocabulary", zap.Uint("vocabulary_id", vocabID), zap.Error(err))
		return failInternal("単語の削除に失敗しました")
	}

	return Result{Success: true, Message: fmt.Sprintf("単語「%s」を削除しました。", v.Word)}
}

// ToggleMastered flips the mastered flag and reports the new state.
func (s *VocabularyService) ToggleMastered(ctx context.Context, userID, vocabID uint) Result {
	return s.toggle(ctx, userID, vocabID,
		func(v *vocabulary.Vocabulary) { v.Mastered = !v.Mastered },
		func(v *vocabulary.Vocabulary) string {
			if v.Mastered {
				return "習得済みにしました"
			}
			return "未習得にしました"
		})
}

// ToggleFavorited flips the favorited flag and reports the new state.
func (s *VocabularyService) ToggleFavorited(ctx context.Context, userID, vocabID uint) Result {
	return s.toggle(ctx, userID, vocabID,
		func(v *vocabulary.Vocabulary) { v.Favorited = !v.Favorited },
		func(v *vocabulary.Vocabulary) string {
			if v.Favorited {
				return "お気に入りにしました"
			}
			return "お気に入りを解除しました"
		})
}

func (s *VocabularyService) toggle(
	ctx context.Context,
	userID, vocabID uint,
	flip func(*vocabulary.Vocabulary),
	message func(*vocabulary.Vocabulary) string,
) Result {
	v, err := s.vocabularies.FindByID(ctx, userID, vocabID)
	if err != nil {
		s.logger.Error("failed to load vocabulary", zap.Uint("vocabulary_id", vocabID), zap.Error(err))
		return failInternal("単語の更新に失敗しました")
	}
	if v == nil {
		return failNotFound("単語が見つかりません。")
	}

	flip(v)
	if err := s.vocabularies.Update(ctx, v); err != nil {
		s.logger.Error("failed to toggle vocabulary flag", zap.Uint("vocabulary_id", vocabID), zap.Error(err))
		return failInternal("単語の更新に失敗しました")
	}

	return ok(v, message(v))
}

// Search lists the user's words, optionally narrowed by a term and a status
// filter (mastered, unmastered, favorited).
func (s *VocabularyService) Search(ctx context.Context, userID uint, term, filter string) Result {
	vocabularies, err := s.vocabularies.List(ctx, userID, term, filter)
	if err != nil {
		s.logger.Error("vocabulary search failed", zap.String("term", term), zap.Error(err))
		return failInternal("単語の検索に失敗しました")
	}

	return okCount(vocabularies, len(vocabularies),
		fmt.Sprintf("%d件の単語が見つかりました。", len(vocabularies)))
}

// Flashcards returns the review deck: the user's words under the given
// filter, or a distinct message when there is nothing to review.
func (s *VocabularyService) Flashcards(ctx context.Context, userID uint, filter string) Result {
	vocabularies, err := s.vocabularies.List(ctx, userID, "", filter)
	if err != nil {
		s.logger.Error("failed to build flashcards", zap.Error(err))
		return failInternal("復習用の単語の取得に失敗しました")
	}

	if len(vocabularies) == 0 {
		return Result{Success: false, Data: vocabularies, Message: "復習する単語がありません"}
	}
	return okCount(vocabularies, len(vocabularies),
		fmt.Sprintf("%d件の単語で復習できます。", len(vocabularies)))
}

// VocabularyStatistics is the summary shown on the vocabulary screen.
type VocabularyStatistics struct {
	TotalCount     int                         `json:"total_count"`
	MasteredCount  int                         `json:"mastered_count"`
	FavoritedCount int                         `json:"favorited_count"`
	MasteryRate    float64                     `json:"mastery_rate"`
	MostUsedWords  []vocabulary.WordUsage      `json:"most_used_words"`
	RecentCount    int                         `json:"recent_count"`
	WordsByEntry   []vocabulary.EntryWordCount `json:"words_by_entry"`
}

// Statistics aggregates the word counts, mastery rate and usage breakdowns.
// RecentCount covers the last 7 days; MostUsedWords is the top 5 by entry
// links and WordsByEntry the 10 most recent entries carrying words.
func (s *VocabularyService) Statistics(ctx context.Context, userID uint) Result {
	total, err := s.vocabularies.CountByUser(ctx, userID)
	if err != nil {
		return s.statsFailure(err)
	}
	mastered, err := s.vocabularies.CountMastered(ctx, userID)
	if err != nil {
		return s.statsFailure(err)
	}
	favorited, err := s.vocabularies.CountFavorited(ctx, userID)
	if err != nil {
		return s.statsFailure(err)
	}
	recent, err := s.vocabularies.CountCreatedSince(ctx, userID, s.now().AddDate(0, 0, -7))
	if err != nil {
		return s.statsFailure(err)
	}
	mostUsed, err := s.vocabularies.MostUsedWords(ctx, userID, 5)
	if err != nil {
		return s.statsFailure(err)
	}
	byEntry, err := s.vocabularies.WordsByEntry(ctx, userID, 10)
	if err != nil {
		return s.statsFailure(err)
	}

	stats := VocabularyStatistics{
		TotalCount:     int(total),
		MasteredCount:  int(mastered),
		FavoritedCount: int(favorited),
		MasteryRate:    progress.MasteryRate(int(total), int(mastered)),
		MostUsedWords:  mostUsed,
		RecentCount:    int(recent),
		WordsByEntry:   byEntry,
	}
	return ok(stats, "統計情報を取得しました。")
}

func (s *VocabularyService) statsFailure(err error) Result {
	s.logger.Error("failed to aggregate vocabulary statistics", zap.Error(err))
	return failInternal("統計情報の取得に失敗しました。")
}

func validateVocabulary(params VocabularyParams) []string {
	var errs []string
	if strings.TrimSpace(params.Word) == "" {
		errs = append(errs, "単語を入力してください")
	} else if utf8.RuneCountInString(params.Word) > maxWordLength {
		errs = append(errs, fmt.Sprintf("単語は%d文字以内で入力してください", maxWordLength))
	}
	if strings.TrimSpace(params.Meaning) == "" {
		errs = append(errs, "意味を入力してください")
	} else if utf8.RuneCountInString(params.Meaning) > maxMeaningLength {
		errs = append(errs, fmt.Sprintf("意味は%d文字以内で入力してください", maxMeaningLength))
	}
	return errs
}
