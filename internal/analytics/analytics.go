// Package analytics derives statistics from mood records. Every function is
// pure: the current day is always passed in.
package analytics

import (
	"math"
	"slices"
	"strings"
	"time"

	"moodjournal/internal/models"
)

// Range selects how far back a window reaches from today.
type Range string

const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
	RangeAll   Range = "all"
)

// ParseRange maps an empty string to RangeAll and reports unknown values.
func ParseRange(s string) (Range, bool) {
	switch r := Range(s); r {
	case RangeWeek, RangeMonth, RangeYear, RangeAll:
		return r, true
	case "":
		return RangeAll, true
	}
	return "", false
}

// Since returns the first date included in the window, or "" for RangeAll.
func (r Range) Since(today time.Time) string {
	switch r {
	case RangeWeek:
		return today.AddDate(0, 0, -7).Format(models.DateLayout)
	case RangeMonth:
		return today.AddDate(0, -1, 0).Format(models.DateLayout)
	case RangeYear:
		return today.AddDate(-1, 0, 0).Format(models.DateLayout)
	}
	return ""
}

// Filter returns the records dated inside the window, in input order.
func Filter(records []models.MoodRecord, r Range, today time.Time) []models.MoodRecord {
	since := r.Since(today)
	if since == "" {
		return records
	}
	out := make([]models.MoodRecord, 0, len(records))
	for _, rec := range records {
		if rec.Date >= since {
			out = append(out, rec)
		}
	}
	return out
}

// Compute builds the summary statistics for records.
func Compute(records []models.MoodRecord, today time.Time) models.Stats {
	counts := MoodCounts(records)
	return models.Stats{
		TotalRecords:     len(records),
		MoodCounts:       counts,
		Distribution:     Distribution(records),
		AverageIntensity: AverageIntensity(records),
		CurrentStreak:    CurrentStreak(records, today),
		LongestStreak:    LongestStreak(records, today),
	}
}

// AverageIntensity is the mean intensity rounded to one decimal, 0 when empty.
func AverageIntensity(records []models.MoodRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0
	for _, r := range records {
		sum += r.Intensity
	}
	return math.Round(float64(sum)/float64(len(records))*10) / 10
}

// MoodCounts counts records per mood. Every predefined mood is present.
func MoodCounts(records []models.MoodRecord) map[string]int {
	counts := make(map[string]int, len(models.PredefinedMoodNames()))
	for _, name := range models.PredefinedMoodNames() {
		counts[name] = 0
	}
	for _, r := range records {
		counts[r.Mood]++
	}
	return counts
}

// Distribution lists the predefined moods in catalog order, then custom moods
// by name, each with its rounded percentage of the total.
func Distribution(records []models.MoodRecord) []models.MoodShare {
	counts := MoodCounts(records)
	names := models.PredefinedMoodNames()
	var custom []string
	for name := range counts {
		if !models.IsPredefinedMood(name) {
			custom = append(custom, name)
		}
	}
	slices.Sort(custom)
	names = append(names, custom...)

	total := len(records)
	out := make([]models.MoodShare, 0, len(names))
	for _, name := range names {
		share := models.MoodShare{Mood: name, Count: counts[name]}
		if total > 0 {
			share.Percentage = int(math.Round(float64(share.Count) * 100 / float64(total)))
		}
		out = append(out, share)
	}
	return out
}

// distinctDatesDesc returns the unique record dates, newest first.
func distinctDatesDesc(records []models.MoodRecord) []time.Time {
	seen := make(map[string]struct{}, len(records))
	dates := make([]time.Time, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.Date]; ok {
			continue
		}
		d, err := time.Parse(models.DateLayout, r.Date)
		if err != nil {
			continue
		}
		seen[r.Date] = struct{}{}
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return b.Compare(a) })
	return dates
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CurrentStreak counts consecutive days ending at the latest record. The
// streak is 0 unless the latest record is from today or yesterday.
func CurrentStreak(records []models.MoodRecord, today time.Time) int {
	dates := distinctDatesDesc(records)
	if len(dates) == 0 {
		return 0
	}
	t := day(today)
	if !dates[0].Equal(t) && !dates[0].Equal(t.AddDate(0, 0, -1)) {
		return 0
	}
	streak := 1
	expected := dates[0].AddDate(0, 0, -1)
	for _, d := range dates[1:] {
		if !d.Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak is the longest run of consecutive days, never shorter than
// the current streak.
func LongestStreak(records []models.MoodRecord, today time.Time) int {
	dates := distinctDatesDesc(records)
	if len(dates) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i-1].AddDate(0, 0, -1).Equal(dates[i]) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return max(longest, CurrentStreak(records, today))
}

// moodValues places the predefined moods on a 1..8 scale for trend lines.
var moodValues = map[string]int{
	"angry":    1,
	"sad":      2,
	"anxious":  3,
	"tired":    4,
	"calm":     5,
	"peaceful": 6,
	"happy":    7,
	"excited":  8,
}

const neutralMoodValue = 5

// MoodValue returns the scale value of mood. Unknown moods sit in the middle.
func MoodValue(mood string) int {
	if v, ok := moodValues[mood]; ok {
		return v
	}
	return neutralMoodValue
}

// Trend returns the windowed records as chronological chart points.
func Trend(records []models.MoodRecord, r Range, today time.Time) []models.TrendPoint {
	windowed := slices.Clone(Filter(records, r, today))
	slices.SortFunc(windowed, func(a, b models.MoodRecord) int { return strings.Compare(a.Date, b.Date) })

	points := make([]models.TrendPoint, 0, len(windowed))
	for _, rec := range windowed {
		v := MoodValue(rec.Mood)
		points = append(points, models.TrendPoint{
			Date:          rec.Date,
			Mood:          rec.Mood,
			Intensity:     rec.Intensity,
			MoodValue:     v,
			CombinedValue: float64(v) + float64(rec.Intensity-3)*0.5,
		})
	}
	return points
}
