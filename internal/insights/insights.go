// Package insights generates natural-language observations from the trailing
// 30-day log window. Each detector is independent and fires at most once when
// its effect-size threshold is exceeded.
package insights

import (
	"fmt"

	"peaktrack/internal/models"
	"peaktrack/internal/stats"
)

// Candidate is a generated insight before persistence and deduplication.
type Candidate struct {
	Category    string
	Title       string
	Message     string
	InsightType string // observation, recommendation, alert, achievement
	Severity    string // info, warning, success, critical
	ImpactScore *float64
	Confidence  float64
}

// Generate runs the detectors over logs ordered oldest first. Fewer than
// seven logs is too thin to say anything, so it returns an empty list.
func Generate(logs []models.DailyLog) []Candidate {
	if len(logs) < 7 {
		return nil
	}

	var out []Candidate
	detectors := []func([]models.DailyLog) *Candidate{
		analyzeSleepProductivity,
		analyzeExerciseImpact,
		analyzeBestDay,
		analyzeEnergyPattern,
		analyzeStressImpact,
		analyzeProductivityTrend,
		analyzeDeepWork,
		analyzeConsistency,
	}
	for _, detect := range detectors {
		if c := detect(logs); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

func analyzeSleepProductivity(logs []models.DailyLog) *Candidate {
	var goodSleep, poorSleep []float64
	for _, l := range logs {
		if l.SleepHours >= 7 {
			goodSleep = append(goodSleep, prodOr50(l))
		} else if l.SleepHours < 6 {
			poorSleep = append(poorSleep, prodOr50(l))
		}
	}
	if len(goodSleep) < 3 || len(poorSleep) < 2 {
		return nil
	}

	goodProd := stats.Mean(goodSleep)
	poorProd := stats.Mean(poorSleep)
	diffPct := (goodProd - poorProd) / max(poorProd, 1) * 100
	if diffPct <= 10 {
		return nil
	}

	return &Candidate{
		Category: "sleep",
		Title:    "Sleep boosts your productivity",
		Message: fmt.Sprintf("You perform %.0f%% better after 7+ hours of sleep. "+
			"On well-rested days, your avg productivity is %.0f vs %.0f on sleep-deprived days.",
			diffPct, goodProd, poorProd),
		InsightType: "observation",
		Severity:    "info",
		ImpactScore: ptr(diffPct),
		Confidence:  min(0.5+float64(len(logs))/60.0, 0.95),
	}
}

func analyzeExerciseImpact(logs []models.DailyLog) *Candidate {
	var exercise, noExercise []float64
	for _, l := range logs {
		if l.ExerciseMinutes >= 20 {
			exercise = append(exercise, prodOr50(l))
		} else if l.ExerciseMinutes == 0 {
			noExercise = append(noExercise, prodOr50(l))
		}
	}
	if len(exercise) < 3 || len(noExercise) < 3 {
		return nil
	}

	diff := stats.Mean(exercise) - stats.Mean(noExercise)
	if diff <= 5 {
		return nil
	}

	return &Candidate{
		Category: "productivity",
		Title:    "Exercise improves your output",
		Message: fmt.Sprintf("Days with exercise show %.0f points higher productivity. "+
			"Exercise also improves your consistency and energy levels.", diff),
		InsightType: "recommendation",
		Severity:    "success",
		ImpactScore: ptr(diff),
		Confidence:  0.75,
	}
}

func analyzeBestDay(logs []models.DailyLog) *Candidate {
	dayScores := map[string][]float64{}
	for _, l := range logs {
		if l.ProductivityScore != nil {
			day := l.LogDate.Weekday().String()
			dayScores[day] = append(dayScores[day], *l.ProductivityScore)
		}
	}
	if len(dayScores) < 3 {
		return nil
	}

	dayAverages := map[string]float64{}
	for day, scores := range dayScores {
		if len(scores) >= 2 {
			dayAverages[day] = stats.Mean(scores)
		}
	}
	if len(dayAverages) == 0 {
		return nil
	}

	var bestDay, worstDay string
	for day, avg := range dayAverages {
		if bestDay == "" || avg > dayAverages[bestDay] {
			bestDay = day
		}
		if worstDay == "" || avg < dayAverages[worstDay] {
			worstDay = day
		}
	}
	spread := dayAverages[bestDay] - dayAverages[worstDay]
	if spread <= 8 {
		return nil
	}

	return &Candidate{
		Category: "productivity",
		Title:    fmt.Sprintf("%s is your peak day", bestDay),
		Message: fmt.Sprintf("Your highest productivity occurs on %ss (avg: %.0f). "+
			"Consider scheduling important work on %ss. %ss tend to be lower (%.0f).",
			bestDay, dayAverages[bestDay], bestDay, worstDay, dayAverages[worstDay]),
		InsightType: "observation",
		Severity:    "info",
		ImpactScore: ptr(spread),
		Confidence:  0.7,
	}
}

func analyzeEnergyPattern(logs []models.DailyLog) *Candidate {
	recent := logs
	if len(recent) > 7 {
		recent = recent[len(recent)-7:]
	}
	if len(recent) < 5 {
		return nil
	}

	energies := make([]float64, len(recent))
	for i, l := range recent {
		energies[i] = float64(l.EnergyScore)
	}
	firstHalf := stats.Mean(energies[:len(energies)/2])
	secondHalf := stats.Mean(energies[len(energies)/2:])
	if secondHalf >= firstHalf-1 {
		return nil
	}

	return &Candidate{
		Category: "energy",
		Title:    "Energy levels declining",
		Message: fmt.Sprintf("Your energy has been dropping this week (avg: %.1f/10). "+
			"Consider: better sleep, more breaks, or lighter workload.", stats.Mean(energies)),
		InsightType: "alert",
		Severity:    "warning",
		ImpactScore: ptr(firstHalf - secondHalf),
		Confidence:  0.7,
	}
}

func analyzeStressImpact(logs []models.DailyLog) *Candidate {
	var highStress, lowStress []float64
	for _, l := range logs {
		if l.StressLevel >= 7 {
			highStress = append(highStress, prodOr50(l))
		} else if l.StressLevel <= 4 {
			lowStress = append(lowStress, prodOr50(l))
		}
	}
	if len(highStress) < 3 || len(lowStress) < 3 {
		return nil
	}

	highProd := stats.Mean(highStress)
	lowProd := stats.Mean(lowStress)
	if lowProd <= highProd+8 {
		return nil
	}

	return &Candidate{
		Category: "productivity",
		Title:    "Stress is hurting your output",
		Message: fmt.Sprintf("High-stress days show %.0f points lower productivity. "+
			"Managing stress could significantly boost your performance.", lowProd-highProd),
		InsightType: "recommendation",
		Severity:    "warning",
		ImpactScore: ptr(lowProd - highProd),
		Confidence:  0.75,
	}
}

func analyzeProductivityTrend(logs []models.DailyLog) *Candidate {
	if len(logs) < 14 {
		return nil
	}

	recentAvg := stats.Mean(prodValues(logs[len(logs)-7:]))
	prevAvg := stats.Mean(prodValues(logs[len(logs)-14 : len(logs)-7]))
	change := recentAvg - prevAvg

	// Improvement and decline thresholds are deliberately asymmetric.
	switch {
	case change > 5:
		return &Candidate{
			Category: "productivity",
			Title:    "Productivity improving",
			Message: fmt.Sprintf("Your productivity increased by %.0f points this week compared to last week. "+
				"Keep up the great work!", change),
			InsightType: "achievement",
			Severity:    "success",
			ImpactScore: ptr(change),
			Confidence:  0.8,
		}
	case change < -8:
		return &Candidate{
			Category: "productivity",
			Title:    "Productivity dip detected",
			Message: fmt.Sprintf("Your productivity dropped by %.0f points compared to last week. "+
				"Review your recent habits and energy levels for clues.", -change),
			InsightType: "alert",
			Severity:    "warning",
			ImpactScore: ptr(-change),
			Confidence:  0.8,
		}
	}
	return nil
}

func analyzeDeepWork(logs []models.DailyLog) *Candidate {
	var highDW, lowDW []float64
	for _, l := range logs {
		if l.DeepWorkHours >= 3 {
			highDW = append(highDW, prodOr50(l))
		} else if l.DeepWorkHours < 1.5 {
			lowDW = append(lowDW, prodOr50(l))
		}
	}
	if len(highDW) < 3 || len(lowDW) < 3 {
		return nil
	}

	highProd := stats.Mean(highDW)
	lowProd := stats.Mean(lowDW)
	if highProd <= lowProd+10 {
		return nil
	}

	return &Candidate{
		Category: "productivity",
		Title:    "Deep work drives results",
		Message: fmt.Sprintf("Days with 3+ hours of deep work show %.0f points higher productivity. "+
			"Protect your deep work time blocks.", highProd-lowProd),
		InsightType: "observation",
		Severity:    "info",
		ImpactScore: ptr(highProd - lowProd),
		Confidence:  0.8,
	}
}

func analyzeConsistency(logs []models.DailyLog) *Candidate {
	if len(logs) < 14 {
		return nil
	}

	scores := prodValues(logs[len(logs)-14:])
	recentStdev := stats.Stdev(scores[7:])
	prevStdev := stats.Stdev(scores[:7])
	if prevStdev <= 0 || recentStdev >= prevStdev*0.7 {
		return nil
	}

	return &Candidate{
		Category: "productivity",
		Title:    "Your consistency is improving",
		Message: "Your daily performance variance has decreased. " +
			"A consistent routine is one of the strongest predictors of long-term success.",
		InsightType: "achievement",
		Severity:    "success",
		Confidence:  0.7,
	}
}

func prodOr50(l models.DailyLog) float64 {
	if l.ProductivityScore != nil {
		return *l.ProductivityScore
	}
	return 50
}

func prodValues(logs []models.DailyLog) []float64 {
	out := make([]float64, len(logs))
	for i, l := range logs {
		out[i] = prodOr50(l)
	}
	return out
}

func ptr(v float64) *float64 { return &v }
