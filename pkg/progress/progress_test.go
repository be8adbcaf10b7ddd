package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aijournal/aijournal/pkg/progress"
)

var today = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return today.AddDate(0, 0, offset)
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{
			name:  "three consecutive days up to today",
			dates: []time.Time{day(0), day(-1), day(-2)},
			want:  3,
		},
		{
			name:  "no entries",
			dates: nil,
			want:  0,
		},
		{
			name:  "gap after today breaks the chain",
			dates: []time.Time{day(0), day(-5)},
			want:  1,
		},
		{
			name:  "most recent entry is not today",
			dates: []time.Time{day(-3)},
			want:  0,
		},
		{
			name:  "chain ending yesterday does not count",
			dates: []time.Time{day(-1), day(-2), day(-3)},
			want:  0,
		},
		{
			name:  "unsorted input with duplicate days",
			dates: []time.Time{day(-2), day(0), day(-1), day(0)},
			want:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progress.CurrentStreak(tt.dates, today))
		})
	}
}

func TestCurrentStreakIgnoresClockPart(t *testing.T) {
	dates := []time.Time{
		time.Date(2026, 8, 31, 23, 15, 0, 0, time.UTC),
		time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC),
	}
	noon := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, progress.CurrentStreak(dates, noon))
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{
			name:  "empty history",
			dates: nil,
			want:  0,
		},
		{
			name:  "single entry",
			dates: []time.Time{day(-10)},
			want:  1,
		},
		{
			name: "five day run beats three day run",
			dates: []time.Time{
				// recent 3-day run
				day(0), day(-1), day(-2),
				// older 5-day run
				day(-10), day(-11), day(-12), day(-13), day(-14),
			},
			want: 5,
		},
		{
			name: "older run order does not matter",
			dates: []time.Time{
				day(-10), day(-11), day(-12), day(-13), day(-14),
				day(0), day(-1), day(-2),
			},
			want: 5,
		},
		{
			name:  "all gaps",
			dates: []time.Time{day(0), day(-2), day(-4)},
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progress.LongestStreak(tt.dates))
		})
	}
}

func TestMasteryRate(t *testing.T) {
	assert.Equal(t, 0.0, progress.MasteryRate(0, 0))
	assert.Equal(t, 62.5, progress.MasteryRate(8, 5))
	assert.Equal(t, 100.0, progress.MasteryRate(4, 4))
	assert.Equal(t, 33.3, progress.MasteryRate(3, 1))
}

func TestNextMilestone(t *testing.T) {
	next, ok := progress.NextMilestone(0, progress.VocabularyMilestones)
	assert.True(t, ok)
	assert.Equal(t, 10, next)

	next, ok = progress.NextMilestone(10, progress.VocabularyMilestones)
	assert.True(t, ok)
	assert.Equal(t, 25, next)

	next, ok = progress.NextMilestone(364, progress.WritingMilestones)
	assert.True(t, ok)
	assert.Equal(t, 365, next)

	_, ok = progress.NextMilestone(500, progress.VocabularyMilestones)
	assert.False(t, ok)
}

func TestLearningLevel(t *testing.T) {
	assert.Equal(t, progress.LevelBeginner, progress.LearningLevel(0))
	assert.Equal(t, progress.LevelBeginner, progress.LearningLevel(4))
	assert.Equal(t, progress.LevelLearning, progress.LearningLevel(5))
	assert.Equal(t, progress.LevelLearning, progress.LearningLevel(19))
	assert.Equal(t, progress.LevelIntermediate, progress.LearningLevel(20))
	assert.Equal(t, progress.LevelIntermediate, progress.LearningLevel(49))
	assert.Equal(t, progress.LevelAdvanced, progress.LearningLevel(50))
	assert.Equal(t, progress.LevelAdvanced, progress.LearningLevel(99))
	assert.Equal(t, progress.LevelExpert, progress.LearningLevel(100))
}

func TestAchievements(t *testing.T) {
	t.Run("fresh user has none", func(t *testing.T) {
		assert.Empty(t, progress.Achievements(0, 0, 0, 0))
	})

	t.Run("first post and first word", func(t *testing.T) {
		got := progress.Achievements(1, 1, 0, 1)
		assert.Equal(t, []string{"初回投稿", "初回単語登録"}, got)
	})

	t.Run("insertion order is checklist order", func(t *testing.T) {
		got := progress.Achievements(30, 5, 10, 7)
		assert.Equal(t, []string{
			"初回投稿",
			"10日間継続",
			"30日間継続",
			"初回単語登録",
			"10単語マスター",
			"3日連続",
			"7日連続",
		}, got)
	})
}

func TestAverageWordsPerEntry(t *testing.T) {
	assert.Equal(t, 0.0, progress.AverageWordsPerEntry(nil))
	assert.Equal(t, 2.5, progress.AverageWordsPerEntry([]string{"one two", "one two three"}))
	assert.Equal(t, 3.0, progress.AverageWordsPerEntry([]string{"went for a\nwalk", "it was fun", "so tired"}))
}
