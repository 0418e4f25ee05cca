// Package analytics computes the read-only analytics views: time series,
// Pearson correlations, day-of-week patterns and score distributions over a
// stored log window.
package analytics

import (
	"math"

	"peaktrack/internal/models"
	"peaktrack/internal/stats"
)

type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type Data struct {
	ProductivityTrend []TrendPoint `json:"productivity_trend"`
	EnergyTrend       []TrendPoint `json:"energy_trend"`
	FocusTrend        []TrendPoint `json:"focus_trend"`
	StressTrend       []TrendPoint `json:"stress_trend"`
	SleepTrend        []TrendPoint `json:"sleep_trend"`

	SleepProductivityCorrelation    float64 `json:"sleep_productivity_correlation"`
	ExerciseProductivityCorrelation float64 `json:"exercise_productivity_correlation"`
	EnergyFocusCorrelation          float64 `json:"energy_focus_correlation"`

	BestDayOfWeek         *string `json:"best_day_of_week"`
	PeakProductivityTime  *string `json:"peak_productivity_time"`
	PerformanceVolatility float64 `json:"performance_volatility"`

	MoodDistribution         map[string]int `json:"mood_distribution"`
	ProductivityDistribution map[string]int `json:"productivity_distribution"`
}

const dateLayout = "2006-01-02"

// Compute builds the analytics view from logs ordered oldest first. An empty
// window yields empty trends and zeroed correlations, never an error.
func Compute(logs []models.DailyLog) Data {
	data := Data{
		ProductivityTrend:        []TrendPoint{},
		EnergyTrend:              []TrendPoint{},
		FocusTrend:               []TrendPoint{},
		StressTrend:              []TrendPoint{},
		SleepTrend:               []TrendPoint{},
		MoodDistribution:         map[string]int{},
		ProductivityDistribution: map[string]int{"0-20": 0, "21-40": 0, "41-60": 0, "61-80": 0, "81-100": 0},
	}
	if len(logs) == 0 {
		return data
	}

	var sleep, exercise, energy, focus, prod []float64
	for _, l := range logs {
		date := l.LogDate.Format(dateLayout)
		data.ProductivityTrend = append(data.ProductivityTrend, TrendPoint{date, valueOr0(l.ProductivityScore)})
		data.EnergyTrend = append(data.EnergyTrend, TrendPoint{date, valueOr0(l.EnergyIndex)})
		data.FocusTrend = append(data.FocusTrend, TrendPoint{date, float64(l.FocusScore)})
		data.StressTrend = append(data.StressTrend, TrendPoint{date, float64(l.StressLevel)})
		data.SleepTrend = append(data.SleepTrend, TrendPoint{date, l.SleepHours})

		sleep = append(sleep, l.SleepHours)
		exercise = append(exercise, float64(l.ExerciseMinutes))
		energy = append(energy, float64(l.EnergyScore))
		focus = append(focus, float64(l.FocusScore))
		prod = append(prod, valueOr50(l.ProductivityScore))

		data.MoodDistribution[l.Mood]++
	}

	data.SleepProductivityCorrelation = round2(stats.Pearson(sleep, prod))
	data.ExerciseProductivityCorrelation = round2(stats.Pearson(exercise, prod))
	data.EnergyFocusCorrelation = round2(stats.Pearson(energy, focus))

	data.BestDayOfWeek = bestDayOfWeek(logs)

	// TODO: needs time-of-day data on check-ins before this can be computed.
	morning := "Morning"
	data.PeakProductivityTime = &morning

	data.PerformanceVolatility = stats.Round1(stats.Stdev(prod))

	for _, score := range prod {
		switch {
		case score <= 20:
			data.ProductivityDistribution["0-20"]++
		case score <= 40:
			data.ProductivityDistribution["21-40"]++
		case score <= 60:
			data.ProductivityDistribution["41-60"]++
		case score <= 80:
			data.ProductivityDistribution["61-80"]++
		default:
			data.ProductivityDistribution["81-100"]++
		}
	}

	return data
}

func bestDayOfWeek(logs []models.DailyLog) *string {
	dayScores := map[string][]float64{}
	for _, l := range logs {
		day := l.LogDate.Weekday().String()
		dayScores[day] = append(dayScores[day], valueOr50(l.ProductivityScore))
	}

	var best string
	var bestAvg float64
	for day, scores := range dayScores {
		if avg := stats.Mean(scores); best == "" || avg > bestAvg {
			best = day
			bestAvg = avg
		}
	}
	if best == "" {
		return nil
	}
	return &best
}

func valueOr0(v *float64) float64 {
	if v != nil {
		return *v
	}
	return 0
}

func valueOr50(v *float64) float64 {
	if v != nil {
		return *v
	}
	return 50
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
