package habits

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/habitflow/habitflow/internal/models"
)

const (
	// HeatmapWindow is the number of days rendered in the year heatmap.
	HeatmapWindow = 365
	// TrendWindow is the number of days in the momentum line chart.
	TrendWindow = 30
	// RollingDays is the trailing span of the rolling success rate.
	RollingDays = 7
)

// DailyRate returns the completion rate for a date as a fraction in [0,1]:
// raw true entries over the habit count, 0 when there are no habits.
// Orphaned entries from deleted habits still count, matching the stored
// log rather than the live registry.
func DailyRate(log models.CompletionLog, date string, totalHabits int) float64 {
	if totalHabits == 0 {
		return 0
	}
	return float64(log.CompletedCount(date)) / float64(totalHabits)
}

// HeatmapLevel buckets a daily rate into a 0-4 intensity. Thresholds are
// evaluated highest first with inclusive lower bounds: 0.8 and above is 4,
// 0.5 is 3, 0.2 is 2, anything above zero is 1.
func HeatmapLevel(rate float64) int {
	switch {
	case rate >= 0.8:
		return 4
	case rate >= 0.5:
		return 3
	case rate >= 0.2:
		return 2
	case rate > 0:
		return 1
	default:
		return 0
	}
}

// Heatmap returns one DayData per day of the heatmap window, oldest first.
func Heatmap(log models.CompletionLog, totalHabits int) []models.DayData {
	return heatmapAt(log, time.Now(), totalHabits)
}

func heatmapAt(log models.CompletionLog, now time.Time, totalHabits int) []models.DayData {
	days := make([]models.DayData, 0, HeatmapWindow)
	for _, date := range PastDatesFrom(now, HeatmapWindow) {
		count := log.CompletedCount(date)
		days = append(days, models.DayData{
			Date:  date,
			Count: count,
			Level: HeatmapLevel(DailyRate(log, date, totalHabits)),
		})
	}
	return days
}

// HabitMomentum returns the 7-day rolling success percentage for one habit
// over the trend window, oldest first. Early days average over however many
// samples exist, so the series starts at 0 or 100 rather than being padded.
func HabitMomentum(log models.CompletionLog, habitID uuid.UUID) []float64 {
	return habitMomentumAt(log, time.Now(), habitID)
}

func habitMomentumAt(log models.CompletionLog, now time.Time, habitID uuid.UUID) []float64 {
	dates := PastDatesFrom(now, TrendWindow)
	flags := make([]int, len(dates))
	for i, date := range dates {
		if log.Done(date, habitID) {
			flags[i] = 1
		}
	}

	series := make([]float64, len(flags))
	for i := range flags {
		start := i - (RollingDays - 1)
		if start < 0 {
			start = 0
		}
		sum := 0
		for _, f := range flags[start : i+1] {
			sum += f
		}
		series[i] = float64(sum) / float64(i+1-start) * 100
	}
	return series
}

// DailyPerformance is one day of the global performance series.
type DailyPerformance struct {
	Date        string  `json:"date"`
	RatePercent float64 `json:"rate_percent"`
	Completed   int     `json:"completed"`
	Total       int     `json:"total"`
}

// Performance returns the daily completion percentage for every day of the
// trend window, oldest first.
func Performance(log models.CompletionLog, totalHabits int) []DailyPerformance {
	return performanceAt(log, time.Now(), totalHabits)
}

func performanceAt(log models.CompletionLog, now time.Time, totalHabits int) []DailyPerformance {
	days := make([]DailyPerformance, 0, TrendWindow)
	for _, date := range PastDatesFrom(now, TrendWindow) {
		days = append(days, DailyPerformance{
			Date:        date,
			RatePercent: DailyRate(log, date, totalHabits) * 100,
			Completed:   log.CompletedCount(date),
			Total:       totalHabits,
		})
	}
	return days
}

// GlobalAverageRate is the all-time completion density as an integer
// percentage: total true entries over (logged days x habit count). Only
// dates actually present in the log count, so sparse early usage does not
// drag the average down.
func GlobalAverageRate(log models.CompletionLog, totalHabits int) int {
	possible := LoggedDays(log) * totalHabits
	if possible == 0 {
		return 0
	}
	return int(math.Round(float64(TotalCompletions(log)) / float64(possible) * 100))
}

// BestDayRate returns the highest daily completion percentage within the
// trend window.
func BestDayRate(log models.CompletionLog, totalHabits int) float64 {
	best := 0.0
	for _, day := range Performance(log, totalHabits) {
		if day.RatePercent > best {
			best = day.RatePercent
		}
	}
	return best
}

// AverageDifficulty is the mean difficulty across the registry, 0 when
// there are no habits.
func AverageDifficulty(habitList []models.Habit) float64 {
	if len(habitList) == 0 {
		return 0
	}
	sum := 0
	for _, h := range habitList {
		sum += h.Difficulty
	}
	return float64(sum) / float64(len(habitList))
}
