package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aijournal/aijournal/internal/db/repositories/entry"
	"github.com/aijournal/aijournal/internal/db/repositories/user"
	"github.com/aijournal/aijournal/internal/db/repositories/vocabulary"
	"github.com/aijournal/aijournal/internal/logger"
	"github.com/aijournal/aijournal/pkg/progress"
)

const maxNicknameLength = 50

// UserParams is the input for creating or updating a profile.
type UserParams struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// UserService handles profiles and the aggregated progress views.
type UserService struct {
	users        user.UserRepository
	entries      entry.EntryRepository
	vocabularies vocabulary.VocabularyRepository
	logger       logger.Logger
	now          func() time.Time
	pick         func(n int) int
}

func NewUserService(
	users user.UserRepository,
	entries entry.EntryRepository,
	vocabularies vocabulary.VocabularyRepository,
	log logger.Logger,
) *UserService {
	if log == nil {
		log = logger.NewNop()
	}
	return &UserService{
		users:        users,
		entries:      entries,
		vocabularies: vocabularies,
		logger:       log,
		now:          time.Now,
		pick:         rand.Intn,
	}
}

// WithClock overrides the clock, for tests.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	return s
}

// WithPicker overrides the random index picker, for tests.
func (s *UserService) WithPicker(pick func(n int) int) *UserService {
	s.pick = pick
	return s
}

// Create registers a new account.
func (s *UserService) Create(ctx context.Context, params UserParams) Result {
	if errs := validateUser(params); len(errs) > 0 {
		return fail("アカウントの作成に失敗しました。", errs...)
	}

	u := &user.User{Nickname: params.Nickname, Email: params.Email}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fail("アカウントの作成に失敗しました。", "このメールアドレスは既に登録されています")
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return failInternal("アカウントの作成に失敗しました。")
	}

	return ok(u, "アカウントを作成しました。")
}

// Update edits the profile fields.
func (s *UserService) Update(ctx context.Context, userID uint, params UserParams) Result {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user", zap.Uint("user_id", userID), zap.Error(err))
		return failInternal("プロフィールの更新に失敗しました。")
	}
	if u == nil {
		return failNotFound("ユーザーが見つかりません。")
	}

	if errs := validateUser(params); len(errs) > 0 {
		return fail("プロフィールの更新に失敗しました。", errs...)
	}

	u.Nickname = params.Nickname
	u.Email = params.Email
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fail("プロフィールの更新に失敗しました。", "このメールアドレスは既に登録されています")
		}
		s.logger.Error("failed to update user", zap.Uint("user_id", userID), zap.Error(err))
		return failInternal("プロフィールの更新に失敗しました。")
	}

	return ok(u, "プロフィールを更新しました。")
}

// ----- Aggregated views -----

// UserStatistics is the full account summary.
type UserStatistics struct {
	User         UserSummary  `json:"user"`
	Entries      EntrySummary `json:"entries"`
	Vocabularies VocabSummary `json:"vocabularies"`
	Achievements []string     `json:"achievements"`
}

type UserSummary struct {
	Nickname      string    `json:"nickname"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
	LearningLevel string    `json:"learning_level"`
}

type EntrySummary struct {
	TotalCount     int `json:"total_count"`
	ThisMonthCount int `json:"this_month_count"`
	RecentCount    int `json:"recent_count"`
	LongestStreak  int `json:"longest_streak"`
	CurrentStreak  int `json:"current_streak"`
}

type VocabSummary struct {
	TotalCount      int     `json:"total_count"`
	MasteredCount   int     `json:"mastered_count"`
	FavoritedCount  int     `json:"favorited_count"`
	MasteryRate     float64 `json:"mastery_rate"`
	RecentAdditions int     `json:"recent_additions"`
}

// Statistics assembles the account summary: profile, entry counts, streaks,
// vocabulary counts, mastery rate, and the achievement checklist.
func (s *UserService) Statistics(ctx context.Context, userID uint) Result {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user", zap.Uint("user_id", userID), zap.Error(err))
		return failInternal("統計情報の取得に失敗しました。")
	}
	if u == nil {
		return failNotFound("ユーザーが見つかりません。")
	}

	today := s.now()

	entryCount, err := s.entries.CountByUser(ctx, userID)
	if err != nil {
		return s.aggFailure(err)
	}
	monthCount, err := s.entries.CountInMonth(ctx, userID, today)
	if err != nil {
		return s.aggFailure(err)
	}
	recentCount, err := s.entries.CountSince(ctx, userID, today.AddDate(0, 0, -7))
	if err != nil {
		return s.aggFailure(err)
	}
	dates, err := s.entries.PostedDates(ctx, userID)
	if err != nil {
		return s.aggFailure(err)
	}
	vocabCount, err := s.vocabularies.CountByUser(ctx, userID)
	if err != nil {
		return s.aggFailure(err)
	}
	mastered, err := s.vocabularies.CountMastered(ctx, userID)
	if err != nil {
		return s.aggFailure(err)
	}
	favorited, err := s.vocabularies.CountFavorited(ctx, userID)
	if err != nil {
		return s.aggFailure(err)
	}
	recentVocab, err := s.vocabularies.CountCreatedSince(ctx, userID, today.AddDate(0, 0, -7))
	if err != nil {
		return s.aggFailure(err)
	}

	currentStreak := progress.CurrentStreak(dates, today)

	stats := UserStatistics{
		User: UserSummary{
			Nickname:      u.Nickname,
			Email:         u.Email,
			CreatedAt:     u.CreatedAt,
			LearningLevel: progress.LearningLevel(int(entryCount)),
		},
		Entries: EntrySummary{
			TotalCount:     int(entryCount),
			ThisMonthCount: int(monthCount),
			RecentCount:    int(recentCount),
			LongestStreak:  progress.LongestStreak(dates),
			CurrentStreak:  currentStreak,
		},
		Vocabularies: VocabSummary{
			TotalCount:      int(vocabCount),
			MasteredCount:   int(mastered),
			FavoritedCount:  int(favorited),
			MasteryRate:     progress.MasteryRate(int(vocabCount), int(mastered)),
			RecentAdditions: int(recentVocab),
		},
		Achievements: progress.Achievements(int(entryCount), int(vocabCount), int(mastered), currentStreak),
	}
	return ok(stats, "統計情報を取得しました。")
}

// LearningProgress is the goal-oriented progress view.
type LearningProgress struct {
	LearningLevel      string             `json:"learning_level"`
	StreakInfo         StreakInfo         `json:"streak_info"`
	VocabularyProgress VocabularyProgress `json:"vocabulary_progress"`
	WritingProgress    WritingProgress    `json:"writing_progress"`
}

type StreakInfo struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	StreakGoal    int `json:"streak_goal"`
}

type VocabularyProgress struct {
	TotalWords        int     `json:"total_words"`
	MasteredWords     int     `json:"mastered_words"`
	MasteryPercentage float64 `json:"mastery_percentage"`
	NextMilestone     string  `json:"next_milestone"`
}

type WritingProgress struct {
	TotalEntries         int     `json:"total_entries"`
	EntriesThisMonth     int     `json:"entries_this_month"`
	AverageWordsPerEntry float64 `json:"average_words_per_entry"`
	NextMilestone        string  `json:"next_milestone"`
}

// LearningProgress assembles streak goals, milestones, and writing volume.
func (s *UserService) LearningProgress(ctx context.Context, userID uint) Result {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user", zap.Uint("user_id", userID), zap.Error(err))
		return failInternal("学習進捗の取得に失敗しました。")
	}
	if u == nil {
		return failNotFound("ユーザーが見つかりません。")
	}

	today := s.now()

	entries, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return s.aggFailure(err)
	}
	monthCount, err := s.entries.CountInMonth(ctx, userID, today)
	if err != nil {
		return s.aggFailure(err)
	}
	vocabCount, err := s.vocabularies.CountByUser(ctx, userID)
	if err != nil {
		return s.aggFailure(err)
	}
	mastered, err := s.vocabularies.CountMastered(ctx, userID)
	if err != nil {
		return s.aggFailure(err)
	}

	dates := make([]time.Time, 0, len(entries))
	contents := make([]string, 0, len(entries))
	for _, e := range entries {
		dates = append(dates, e.PostedOn)
		contents = append(contents, e.Content)
	}

	prog := LearningProgress{
		LearningLevel: progress.LearningLevel(len(entries)),
		StreakInfo: StreakInfo{
			CurrentStreak: progress.CurrentStreak(dates, today),
			LongestStreak: progress.LongestStreak(dates),
			StreakGoal:    progress.StreakGoal,
		},
		VocabularyProgress: VocabularyProgress{
			TotalWords:        int(vocabCount),
			MasteredWords:     int(mastered),
			MasteryPercentage: progress.MasteryRate(int(vocabCount), int(mastered)),
			NextMilestone:     milestoneLabel(int(vocabCount), progress.VocabularyMilestones),
		},
		WritingProgress: WritingProgress{
			TotalEntries:         len(entries),
			EntriesThisMonth:     int(monthCount),
			AverageWordsPerEntry: progress.AverageWordsPerEntry(contents),
			NextMilestone:        milestoneLabel(len(entries), progress.WritingMilestones),
		},
	}
	return ok(prog, "学習進捗を取得しました。")
}

// Motivation is the daily cheer shown on the dashboard.
type Motivation struct {
	Message       string `json:"message"`
	LearningLevel string `json:"learning_level"`
}

// MotivationMessage picks an encouragement line keyed on how recently the
// user posted, looking at the five most recent entries.
func (s *UserService) MotivationMessage(ctx context.Context, userID uint) Result {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user", zap.Uint("user_id", userID), zap.Error(err))
		return failInternal("メッセージの取得に失敗しました。")
	}
	if u == nil {
		return failNotFound("ユーザーが見つかりません。")
	}

	recent, err := s.entries.ListRecent(ctx, userID, 5)
	if err != nil {
		return s.aggFailure(err)
	}

	var message string
	if len(recent) == 0 {
		message = fmt.Sprintf("Welcome, %s! Start your English learning journey today! 🚀", u.Nickname)
	} else {
		message = s.cheerFor(recent, u.Nickname)
	}

	m := Motivation{
		Message:       message,
		LearningLevel: progress.LearningLevel(len(recent)),
	}
	return ok(m, "メッセージを取得しました。")
}

// cheerFor bands the recent posting pattern and picks one line from the
// matching pool.
func (s *UserService) cheerFor(recent []*entry.Entry, nickname string) string {
	today := dateOf(s.now())

	lastPosted := dateOf(recent[0].PostedOn)
	distinct := map[time.Time]struct{}{}
	for _, e := range recent {
		d := dateOf(e.PostedOn)
		if d.After(lastPosted) {
			lastPosted = d
		}
		distinct[d] = struct{}{}
	}
	daysSinceLast := int(today.Sub(lastPosted).Hours() / 24)

	var pool []string
	switch {
	case lastPosted.Equal(today):
		pool = []string{
			"You finished today's entry! Great job, %s! 💪",
			"Nice work, %s! You've kept the streak going! ✨",
			"Well done, %s! Another day, another step forward! 🚀",
			"Fantastic consistency, %s! Keep that energy up! 🌟",
			"Awesome job, %s! Don't forget to review your words in My Dictionary! 📖",
		}
	case lastPosted.Equal(today.AddDate(0, 0, -1)):
		pool = []string{
			"Let's keep the streak alive, %s! 🔥",
			"You're on a roll, %s! A little progress each day adds up to big results. 🌱",
			"Yesterday's effort was great, %s! Let's make today count too! 🌞",
			"Keep that momentum going, %s! Every day brings you closer to fluency. 📘",
		}
	case len(distinct) >= 5:
		pool = []string{
			"You've built a fantastic habit, %s! 👏 Consistency is the key to success.",
			"Five days strong, %s! Your discipline is showing real progress! 💪",
			"That's an amazing routine you've built, %s! 🌿 Keep nurturing it!",
			"Writing regularly like this will take your English to the next level, %s! 🚀",
		}
	case daysSinceLast >= 2 && daysSinceLast <= 6:
		pool = []string{
			"Even small things are worth writing about, %s! Keep journaling and boost your English skills. ✍️",
			"A few days off is no big deal, %s! Let's jump back in. Practice makes perfect! 💫",
			"Every comeback starts with one new entry, %s! Let's write something small! 📝",
			"Time to pick up the pen again, %s! You've got this! 💪",
		}
	default:
		pool = []string{
			"It's been a while since your last entry, %s. Let's start fresh today! 💪",
			"No worries if you took a break, %s. It's never too late to restart! 🔄",
			"Your journal's waiting for you, %s. Why not write something short today? 🌞",
			"Welcome back, %s! Every new start counts. ✨",
		}
	}

	return fmt.Sprintf(pool[s.pick(len(pool))], nickname)
}

func (s *UserService) aggFailure(err error) Result {
	s.logger.Error("failed to aggregate user statistics", zap.Error(err))
	return failInternal("統計情報の取得に失敗しました。")
}

// milestoneLabel renders the next milestone, or the achieved sentinel when
// every milestone has been passed.
func milestoneLabel(count int, milestones []int) string {
	if next, found := progress.NextMilestone(count, milestones); found {
		return fmt.Sprintf("%d", next)
	}
	return progress.MilestoneAchieved
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateUser(params UserParams) []string {
	var errs []string
	if strings.TrimSpace(params.Nickname) == "" {
		errs = append(errs, "ニックネームを入力してください")
	} else if utf8.RuneCountInString(params.Nickname) > maxNicknameLength {
		errs = append(errs, fmt.Sprintf("ニックネームは%d文字以内で入力してください", maxNicknameLength))
	}
	if strings.TrimSpace(params.Email) == "" {
		errs = append(errs, "メールアドレスを入力してください")
	} else if !strings.Contains(params.Email, "@") {
		errs = append(errs, "メールアドレスの形式が正しくありません")
	}
	return errs
}
