// Package progress computes learning-progress statistics from a user's diary
// and vocabulary collections. Every function is pure: no I/O, no clock reads
// (the reference day is always passed in), no external calls.
package progress

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Learning level labels, banded on total entry count.
const (
	LevelBeginner     = "初心者"
	LevelLearning     = "学習中"
	LevelIntermediate = "中級者"
	LevelAdvanced     = "上級者"
	LevelExpert       = "エキスパート"
)

// MilestoneAchieved is the sentinel rendered when every milestone is met.
const MilestoneAchieved = "目標達成！"

// StreakGoal is the consecutive-day target shown on the progress screen.
const StreakGoal = 30

var (
	// VocabularyMilestones are the registered-word count targets, ascending.
	VocabularyMilestones = []int{10, 25, 50, 100, 200, 500}

	// WritingMilestones are the entry count targets, ascending.
	WritingMilestones = []int{10, 25, 50, 100, 200, 365}
)

// CurrentStreak counts consecutive posting days walking backward from today.
// The cursor starts at today and moves back one day for each date consumed;
// the first date that does not match the cursor breaks the chain. A user
// whose most recent entry is older than today therefore scores 0.
func CurrentStreak(postedDates []time.Time, today time.Time) int {
	dates := distinctDatesDescending(postedDates)
	if len(dates) == 0 {
		return 0
	}

	streak := 0
	cursor := dateOnly(today)
	for _, date := range dates {
		if !date.Equal(cursor) {
			break
		}
		streak++
		cursor = date.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak returns the length of the longest run of consecutive posting
// days anywhere in the history, independent of how recent the run is.
func LongestStreak(postedDates []time.Time) int {
	dates := distinctDatesDescending(postedDates)
	if len(dates) == 0 {
		return 0
	}

	longest := 0
	current := 0
	var previous time.Time
	for i, date := range dates {
		if i == 0 || date.Equal(previous.AddDate(0, 0, -1)) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
		previous = date
	}
	return longest
}

// MasteryRate returns mastered/total as a percentage rounded to one decimal
// place, and 0 when there are no words at all.
func MasteryRate(totalWords, masteredWords int) float64 {
	if totalWords <= 0 {
		return 0
	}
	return round1(float64(masteredWords) / float64(totalWords) * 100)
}

// NextMilestone returns the first milestone strictly greater than
// currentCount. ok is false when every milestone is already met; callers
// render MilestoneAchieved in that case.
func NextMilestone(currentCount int, milestones []int) (next int, ok bool) {
	for _, m := range milestones {
		if m > currentCount {
			return m, true
		}
	}
	return 0, false
}

// LearningLevel maps a total entry count onto a level label.
func LearningLevel(entryCount int) string {
	switch {
	case entryCount <= 4:
		return LevelBeginner
	case entryCount <= 19:
		return LevelLearning
	case entryCount <= 49:
		return LevelIntermediate
	case entryCount <= 99:
		return LevelAdvanced
	default:
		return LevelExpert
	}
}

// Achievements evaluates the fixed achievement checklist. The result keeps
// the checklist's insertion order, not any significance order.
func Achievements(entryCount, vocabularyCount, masteredCount, currentStreak int) []string {
	achievements := []string{}

	if entryCount >= 1 {
		achievements = append(achievements, "初回投稿")
	}
	if entryCount >= 10 {
		achievements = append(achievements, "10日間継続")
	}
	if entryCount >= 30 {
		achievements = append(achievements, "30日間継続")
	}
	if entryCount >= 100 {
		achievements = append(achievements, "100日間継続")
	}

	if vocabularyCount >= 1 {
		achievements = append(achievements, "初回単語登録")
	}
	if masteredCount >= 10 {
		achievements = append(achievements, "10単語マスター")
	}
	if masteredCount >= 50 {
		achievements = append(achievements, "50単語マスター")
	}
	if masteredCount >= 100 {
		achievements = append(achievements, "100単語マスター")
	}

	if currentStreak >= 3 {
		achievements = append(achievements, "3日連続")
	}
	if currentStreak >= 7 {
		achievements = append(achievements, "7日連続")
	}
	if currentStreak >= 30 {
		achievements = append(achievements, "30日連続")
	}

	return achievements
}

// AverageWordsPerEntry returns the mean whitespace-separated word count of
// the given entry contents, rounded to one decimal place.
func AverageWordsPerEntry(contents []string) float64 {
	if len(contents) == 0 {
		return 0
	}
	total := 0
	for _, content := range contents {
		total += len(strings.Fields(content))
	}
	return round1(float64(total) / float64(len(contents)))
}

// distinctDatesDescending truncates timestamps to calendar dates, removes
// duplicates, and sorts newest first.
func distinctDatesDescending(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	result := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := dateOnly(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		result = append(result, day)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].After(result[j]) })
	return result
}

// dateOnly drops the clock part, keeping year/month/day in UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
