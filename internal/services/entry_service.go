package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aijournal/aijournal/internal/db/repositories/entry"
	"github.com/aijournal/aijournal/internal/db/repositories/vocabulary"
	"github.com/aijournal/aijournal/internal/logger"
	"github.com/aijournal/aijournal/pkg/progress"
)

// AI collaborators, narrowed to what this package calls. The concrete
// implementations live in pkg/ai.
type (
	TitleGenerator interface {
		Generate(ctx context.Context, content string) (string, error)
	}
	FeedbackGenerator interface {
		Generate(ctx context.Context, title, content string) (string, error)
	}
	Translator interface {
		Translate(ctx context.Context, japaneseText string) (string, error)
	}
)

const (
	maxTitleLength    = 100
	maxContentLength  = 10000
	maxResponseLength = 10000
)

// EntryParams is the user input for creating or updating an entry.
type EntryParams struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentJA   string    `json:"content_ja"`
	AiTranslate string    `json:"ai_translate"`
	PostedOn    time.Time `json:"posted_on"`
	ImageKey    string    `json:"image_key"`
}

// EntryUpdateParams carries the fields of a partial entry update. A nil field
// was absent from the request and leaves the stored value alone; a pointer to
// the zero value clears it.
type EntryUpdateParams struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	ContentJA   *string    `json:"content_ja"`
	AiTranslate *string    `json:"ai_translate"`
	PostedOn    *time.Time `json:"posted_on"`
	ImageKey    *string    `json:"image_key"`
}

// EntryService coordinates entry persistence with the AI orchestrators and
// folds every outcome into the uniform Result envelope.
type EntryService struct {
	entries      entry.EntryRepository
	vocabularies vocabulary.VocabularyRepository
	titleGen     TitleGenerator
	feedbackGen  FeedbackGenerator
	translator   Translator
	logger       logger.Logger
	now          func() time.Time
}

// NewEntryService wires the entry service. A nil logger falls back to a nop
// one so tests stay quiet.
func NewEntryService(
	entries entry.EntryRepository,
	vocabularies vocabulary.VocabularyRepository,
	titleGen TitleGenerator,
	feedbackGen FeedbackGenerator,
	translator Translator,
	log logger.Logger,
) *EntryService {
	if log == nil {
		log = logger.NewNop()
	}
	return &EntryService{
		entries:      entries,
		vocabularies: vocabularies,
		titleGen:     titleGen,
		feedbackGen:  feedbackGen,
		translator:   translator,
		logger:       log,
		now:          time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (s *EntryService) WithClock(now func() time.Time) *EntryService {
	s.now = now
	return s
}

// Create persists a new entry. A blank title with non-blank content gets an
// AI-generated title; if that fails the entry still goes in under a
// deterministic placeholder. Title generation must never block creation.
func (s *EntryService) Create(ctx context.Context, userID uint, params EntryParams) Result {
	params.Title = s.resolveTitle(ctx, params.Title, params.Content)

	e := &entry.Entry{
		UserID:      userID,
		Title:       params.Title,
		Content:     params.Content,
		ContentJA:   params.ContentJA,
		AiTranslate: params.AiTranslate,
		PostedOn:    params.PostedOn,
		ImageKey:    params.ImageKey,
	}

	if errs := validateEntry(e); len(errs) > 0 {
		return fail("日記の投稿に失敗しました。", errs...)
	}

	if err := s.entries.Create(ctx, e); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fail("日記の投稿に失敗しました。", "この日付の日記は既に存在します")
		}
		s.logger.Error("failed to create entry", zap.Uint("user_id", userID), zap.Error(err))
		return failInternal("日記の投稿に失敗しました。")
	}

	return ok(e, "日記を投稿しました。")
}

// Update modifies an existing entry, applying the same blank-title rule as
// Create against the incoming or already-stored content. Only fields present
// in the request are touched; a present-but-empty field clears the stored
// value.
func (s *EntryService) Update(ctx context.Context, userID, entryID uint, params EntryUpdateParams) Result {
	e, err := s.entries.FindByID(ctx, userID, entryID)
	if err != nil {
		s.logger.Error("failed to load entry", zap.Uint("entry_id", entryID), zap.Error(err))
		return failInternal("日記の更新に失敗しました。")
	}
	if e == nil {
		return failNotFound("エントリーが見つかりません。")
	}

	title := ""
	if params.Title != nil {
		title = *params.Title
	}
	contentForTitle := e.Content
	if params.Content != nil && strings.TrimSpace(*params.Content) != "" {
		contentForTitle = *params.Content
	}
	// A blank or absent title regenerates from the content, mirroring the
	// blank-title rule on Create. An absent title with no content to work
	// from keeps the stored one.
	if strings.TrimSpace(title) == "" && strings.TrimSpace(contentForTitle) != "" {
		e.Title = s.resolveTitle(ctx, "", contentForTitle)
	} else if params.Title != nil {
		e.Title = *params.Title
	}

	if params.Content != nil {
		e.Content = *params.Content
	}
	if params.ContentJA != nil {
		e.ContentJA = *params.ContentJA
	}
	if params.AiTranslate != nil {
		e.AiTranslate = *params.AiTranslate
	}
	if params.PostedOn != nil {
		e.PostedOn = *params.PostedOn
	}
	if params.ImageKey != nil {
		e.ImageKey = *params.ImageKey
	}

	if errs := validateEntry(e); len(errs) > 0 {
		return fail("日記の更新に失敗しました。", errs...)
	}

	if err := s.entries.Update(ctx, e); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fail("日記の更新に失敗しました。", "この日付の日記は既に存在します")
		}
		s.logger.Error("failed to update entry", zap.Uint("entry_id", entryID), zap.Error(err))
		return failInternal("日記の更新に失敗しました。")
	}

	return ok(e, "日記を更新しました。")
}

// Destroy deletes an entry; the join rows go with it.
func (s *EntryService) Destroy(ctx context.Context, userID, entryID uint) Result {
	e, err := s.entries.FindByID(ctx, userID, entryID)
	if err != nil {
		s.logger.Error("failed to load entry", zap.Uint("entry_id", entryID), zap.Error(err))
		return failInternal("日記の削除に失敗しました。")
	}
	if e == nil {
		return failNotFound("エントリーが見つかりません。")
	}

	if err := s.entries.Delete(ctx, userID, entryID); err != nil {
		s.logger.Error("failed to delete entry", zap.Uint("entry_id", entryID), zap.Error(err))
		return failInternal("日記の削除に失敗しました。")
	}

	return Result{Success: true, Message: "日記を削除しました。"}
}

// List returns all of the user's entries, newest first.
func (s *EntryService) List(ctx context.Context, userID uint) Result {
	entries, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list entries", zap.Uint("user_id", userID), zap.Error(err))
		return failInternal("日記の取得に失敗しました。")
	}
	return okCount(entries, len(entries), "日記を取得しました。")
}

// Find returns one of the user's entries by ID.
func (s *EntryService) Find(ctx context.Context, userID, entryID uint) Result {
	e, err := s.entries.FindByID(ctx, userID, entryID)
	if err != nil {
		s.logger.Error("failed to load entry", zap.Uint("entry_id", entryID), zap.Error(err))
		return failInternal("日記の取得に失敗しました。")
	}
	if e == nil {
		return failNotFound("エントリーが見つかりません。")
	}
	return ok(e, "日記を取得しました。")
}

// FindByDate looks up the single entry for the given day, if any.
func (s *EntryService) FindByDate(ctx context.Context, userID uint, date time.Time) Result {
	e, err := s.entries.FindByDate(ctx, userID, date)
	if err != nil {
		s.logger.Error("failed to find entry by date", zap.Time("date", date), zap.Error(err))
		return failInternal("指定日の日記は見つかりませんでした。")
	}
	if e == nil {
		return failNotFound("指定日の日記は見つかりませんでした。")
	}
	return ok(e, "指定日の日記が見つかりました。")
}

// Search returns the user's entries whose title or content matches the term.
func (s *EntryService) Search(ctx context.Context, userID uint, term string) Result {
	if strings.TrimSpace(term) == "" {
		return fail("検索語が指定されていません。")
	}

	entries, err := s.entries.Search(ctx, userID, term)
	if err != nil {
		s.logger.Error("entry search failed", zap.String("term", term), zap.Error(err))
		return failInternal("日記の検索に失敗しました。")
	}

	return okCount(entries, len(entries), fmt.Sprintf("%d件の日記が見つかりました。", len(entries)))
}

// GenerateFeedback runs the AI feedback flow for one entry. The response is
// a read-through cache written at most once: if it is already present the
// call is refused rather than regenerated.
func (s *EntryService) GenerateFeedback(ctx context.Context, userID, entryID uint) Result {
	e, err := s.entries.FindByID(ctx, userID, entryID)
	if err != nil {
		s.logger.Error("failed to load entry", zap.Uint("entry_id", entryID), zap.Error(err))
		return failInternal("AIからのコメント生成に失敗しました。")
	}
	if e == nil {
		return failNotFound("エントリーが見つかりません。")
	}
	if e.Response != "" {
		return failConflict("AIからのコメントは既に生成済みです。")
	}

	feedback, err := s.feedbackGen.Generate(ctx, e.Title, e.Content)
	if err != nil {
		s.logger.Error("feedback generation failed", zap.Uint("entry_id", entryID), zap.Error(err))
		return failProvider("AIからのコメント生成に失敗しました。")
	}

	e.Response = feedback
	if err := s.entries.Update(ctx, e); err != nil {
		s.logger.Error("failed to store feedback", zap.Uint("entry_id", entryID), zap.Error(err))
		return failInternal("AIからのコメント保存に失敗しました。")
	}

	return ok(e, "AIからのコメントを追加しました。")
}

// PreviewFeedback generates feedback for unsaved input, without touching any
// entry. Nothing is cached.
func (s *EntryService) PreviewFeedback(ctx context.Context, title, content string) Result {
	if strings.TrimSpace(content) == "" {
		return fail("本文（英語）を入力してください。")
	}
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}

	feedback, err := s.feedbackGen.Generate(ctx, title, content)
	if err != nil {
		s.logger.Error("feedback preview failed", zap.Error(err))
		return failProvider("フィードバック生成に失敗しました。")
	}

	return ok(feedback, "フィードバックを生成しました。")
}

// Translate translates free Japanese text for the entry form. The result is
// not persisted here; the form submits it back with the entry.
func (s *EntryService) Translate(ctx context.Context, japaneseText string) Result {
	if strings.TrimSpace(japaneseText) == "" {
		return fail("翻訳するテキストが入力されていません。")
	}

	translation, err := s.translator.Translate(ctx, japaneseText)
	if err != nil {
		s.logger.Error("translation failed", zap.Error(err))
		return failProvider("翻訳処理中にエラーが発生しました。")
	}

	return ok(translation, "翻訳しました。")
}

// AddVocabulary registers a word from inside an entry and links the two.
func (s *EntryService) AddVocabulary(ctx context.Context, userID, entryID uint, word, meaning string) Result {
	e, err := s.entries.FindByID(ctx, userID, entryID)
	if err != nil {
		s.logger.Error("failed to load entry", zap.Uint("entry_id", entryID), zap.Error(err))
		return failInternal("単語の登録に失敗しました")
	}
	if e == nil {
		return failNotFound("エントリーが見つかりません。")
	}

	vocabService := NewVocabularyService(s.vocabularies, s.logger)
	return vocabService.AddFromEntry(ctx, userID, entryID, word, meaning)
}

// EntryStatistics is the per-user summary shown on the entries screen.
type EntryStatistics struct {
	TotalEntries         int                    `json:"total_entries"`
	TotalVocabularies    int                    `json:"total_vocabularies"`
	MasteredVocabularies int                    `json:"mastered_vocabularies"`
	RecentEntriesCount   int                    `json:"recent_entries_count"`
	LearningStreak       int                    `json:"learning_streak"`
	MostUsedWords        []vocabulary.WordUsage `json:"most_used_words"`
}

// Statistics aggregates entry and vocabulary counts plus the current streak.
func (s *EntryService) Statistics(ctx context.Context, userID uint) Result {
	today := s.now()

	totalEntries, err := s.entries.CountByUser(ctx, userID)
	if err != nil {
		return s.statsFailure(err)
	}
	totalVocab, err := s.vocabularies.CountByUser(ctx, userID)
	if err != nil {
		return s.statsFailure(err)
	}
	mastered, err := s.vocabularies.CountMastered(ctx, userID)
	if err != nil {
		return s.statsFailure(err)
	}
	recent, err := s.entries.CountSince(ctx, userID, today.AddDate(0, 0, -7))
	if err != nil {
		return s.statsFailure(err)
	}
	dates, err := s.entries.PostedDates(ctx, userID)
	if err != nil {
		return s.statsFailure(err)
	}
	mostUsed, err := s.vocabularies.MostUsedWords(ctx, userID, 5)
	if err != nil {
		return s.statsFailure(err)
	}

	stats := EntryStatistics{
		TotalEntries:         int(totalEntries),
		TotalVocabularies:    int(totalVocab),
		MasteredVocabularies: int(mastered),
		RecentEntriesCount:   int(recent),
		LearningStreak:       progress.CurrentStreak(dates, today),
		MostUsedWords:        mostUsed,
	}
	return ok(stats, "統計情報を取得しました。")
}

func (s *EntryService) statsFailure(err error) Result {
	s.logger.Error("failed to aggregate entry statistics", zap.Error(err))
	return failInternal("統計情報の取得に失敗しました。")
}

// resolveTitle applies the blank-title rule: keep a user-supplied title,
// otherwise ask the title generator, otherwise fall back to a dated
// placeholder. An AI failure is logged and absorbed.
func (s *EntryService) resolveTitle(ctx context.Context, title, content string) string {
	if strings.TrimSpace(title) != "" || strings.TrimSpace(content) == "" {
		return title
	}

	generated, err := s.titleGen.Generate(ctx, content)
	if err != nil || strings.TrimSpace(generated) == "" {
		s.logger.Error("title generation failed, using fallback", zap.Error(err))
		return fmt.Sprintf("日記 %s", s.now().Format("2006-01-02"))
	}
	return generated
}

// validateEntry checks the domain constraints and returns field-level
// messages. The per-day uniqueness is left to the database.
func validateEntry(e *entry.Entry) []string {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "タイトルを入力してください")
	} else if utf8.RuneCountInString(e.Title) > maxTitleLength {
		errs = append(errs, fmt.Sprintf("タイトルは%d文字以内で入力してください", maxTitleLength))
	}
	if strings.TrimSpace(e.Content) == "" {
		errs = append(errs, "本文を入力してください")
	} else if utf8.RuneCountInString(e.Content) > maxContentLength {
		errs = append(errs, fmt.Sprintf("本文は%d文字以内で入力してください", maxContentLength))
	}
	if e.PostedOn.IsZero() {
		errs = append(errs, "投稿日を入力してください")
	}
	if utf8.RuneCountInString(e.Response) > maxResponseLength {
		errs = append(errs, fmt.Sprintf("AIコメントは%d文字以内です", maxResponseLength))
	}
	return errs
}
