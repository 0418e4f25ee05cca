// Package burnout implements the rule-based burnout risk model: a weighted
// composite over a 14-day log window, comparing the older half against the
// newer half.
package burnout

import (
	"fmt"

	"peaktrack/internal/models"
	"peaktrack/internal/stats"
)

// Component weights.
const (
	weightWorkload     = 0.25
	weightEnergy       = 0.25
	weightSleep        = 0.15
	weightStress       = 0.15
	weightProductivity = 0.20
)

const sleepTargetHours = 7.5

type RiskFactor struct {
	Factor   string  `json:"factor"`
	Severity string  `json:"severity"`
	Score    float64 `json:"score"`
}

type Assessment struct {
	RiskScore    float64 `json:"risk_score"`
	RiskCategory string  `json:"risk_category"`

	WorkloadTrend    float64 `json:"workload_trend"`
	EnergyDecline    float64 `json:"energy_decline"`
	SleepDeficit     float64 `json:"sleep_deficit"`
	StressScore      float64 `json:"stress_score"`
	ProductivityDrop float64 `json:"productivity_drop"`

	TrendDirection string  `json:"trend_direction"`
	TrendChange    float64 `json:"trend_change"`

	RiskFactors     []RiskFactor `json:"risk_factors"`
	Recommendations []string     `json:"recommendations"`
}

// Assess computes burnout risk from the trailing 14-day window of logs
// (ordered oldest first) and the previous stored score, if any. Fewer than
// five logs is not an error: the assessment degrades to a zero/"low" default.
func Assess(logs []models.DailyLog, prev *models.BurnoutScore) Assessment {
	if len(logs) < 5 {
		return Assessment{
			RiskCategory:    "low",
			TrendDirection:  "stable",
			RiskFactors:     []RiskFactor{},
			Recommendations: []string{},
		}
	}

	mid := len(logs) / 2
	firstHalf := logs[:mid]
	secondHalf := logs[mid:]

	// 1. Workload trend: rising hours combined with falling productivity.
	firstWork := stats.Mean(workHours(firstHalf))
	secondWork := stats.Mean(workHours(secondHalf))
	workIncrease := max(0, (secondWork-firstWork)/max(firstWork, 1))

	firstProd := stats.Mean(productivityOr50(firstHalf))
	secondProd := stats.Mean(productivityOr50(secondHalf))
	workloadTrend := min(workIncrease*50+max(0, firstProd-secondProd)*0.5, 100)

	// 2. Energy decline between halves.
	firstEnergy := stats.Mean(energyScores(firstHalf))
	secondEnergy := stats.Mean(energyScores(secondHalf))
	energyDecline := min(max(0, (firstEnergy-secondEnergy)/10.0)*100, 100)

	// 3. Sleep deficit against the 7.5h target, scaled to a 3h ceiling.
	recentSleep := stats.Mean(sleepHours(secondHalf))
	sleepDeficit := min(max(0, sleepTargetHours-recentSleep)/3.0*100, 100)

	// 4. Recent stress level.
	recentStress := stats.Mean(stressLevels(secondHalf))
	stressScore := recentStress / 10.0 * 100

	// 5. Relative productivity drop.
	var prodDrop float64
	if firstProd > 0 {
		prodDrop = max(0, (firstProd-secondProd)/firstProd) * 100
	}
	productivityDrop := min(prodDrop, 100)

	riskScore := stats.Round1(stats.Clamp(
		workloadTrend*weightWorkload+
			energyDecline*weightEnergy+
			sleepDeficit*weightSleep+
			stressScore*weightStress+
			productivityDrop*weightProductivity,
		0, 100))

	category := riskCategory(riskScore)

	trendDirection := "stable"
	trendChange := 0.0
	if prev != nil {
		trendChange = riskScore - prev.RiskScore
		if trendChange > 5 {
			trendDirection = "worsening"
		} else if trendChange < -5 {
			trendDirection = "improving"
		}
	}

	factors := []RiskFactor{}
	if workloadTrend > 40 {
		factors = append(factors, RiskFactor{Factor: "High Workload", Severity: "high", Score: workloadTrend})
	}
	if energyDecline > 30 {
		factors = append(factors, RiskFactor{Factor: "Energy Declining", Severity: "high", Score: energyDecline})
	}
	if sleepDeficit > 40 {
		factors = append(factors, RiskFactor{Factor: "Sleep Deficit", Severity: "medium", Score: sleepDeficit})
	}
	if stressScore > 60 {
		factors = append(factors, RiskFactor{Factor: "High Stress", Severity: "high", Score: stressScore})
	}
	if productivityDrop > 30 {
		factors = append(factors, RiskFactor{Factor: "Productivity Declining", Severity: "medium", Score: productivityDrop})
	}

	return Assessment{
		RiskScore:        riskScore,
		RiskCategory:     category,
		WorkloadTrend:    stats.Round1(workloadTrend),
		EnergyDecline:    stats.Round1(energyDecline),
		SleepDeficit:     stats.Round1(sleepDeficit),
		StressScore:      stats.Round1(stressScore),
		ProductivityDrop: stats.Round1(productivityDrop),
		TrendDirection:   trendDirection,
		TrendChange:      stats.Round1(trendChange),
		RiskFactors:      factors,
		Recommendations: recommendations(
			workloadTrend, energyDecline, sleepDeficit, stressScore,
			productivityDrop, category, recentSleep),
	}
}

// riskCategory maps a composite score to its band. Bands are closed on the
// lower bound: exactly 75 is critical, exactly 50 is high, exactly 30 is
// medium.
func riskCategory(score float64) string {
	switch {
	case score >= 75:
		return "critical"
	case score >= 50:
		return "high"
	case score >= 30:
		return "medium"
	default:
		return "low"
	}
}

func recommendations(workloadTrend, energyDecline, sleepDeficit, stressScore, productivityDrop float64, category string, recentSleep float64) []string {
	var recs []string

	if category == "critical" || category == "high" {
		recs = append(recs, "Consider taking a recovery day soon — your signals indicate significant fatigue.")
	}
	if workloadTrend > 40 {
		recs = append(recs, "Your work hours are increasing while output is declining. Prioritize deep work over long hours.")
	}
	if energyDecline > 30 {
		recs = append(recs, "Your energy levels are dropping. Incorporate more breaks and energy-restoring activities.")
	}
	if sleepDeficit > 40 {
		recs = append(recs, fmt.Sprintf("You're averaging %.1fh sleep. Aim for 7-8 hours for optimal recovery.", recentSleep))
	}
	if stressScore > 60 {
		recs = append(recs, "Stress levels are elevated. Try stress-reduction techniques: breathing exercises, walks, or meditation.")
	}
	if productivityDrop > 30 {
		recs = append(recs, "Productivity is declining. Consider reducing meeting load and protecting deep work blocks.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Your metrics look healthy. Keep up your current routine!")
	}
	return recs
}

func workHours(logs []models.DailyLog) []float64 {
	out := make([]float64, len(logs))
	for i, l := range logs {
		out[i] = l.WorkHours
	}
	return out
}

func sleepHours(logs []models.DailyLog) []float64 {
	out := make([]float64, len(logs))
	for i, l := range logs {
		out[i] = l.SleepHours
	}
	return out
}

func energyScores(logs []models.DailyLog) []float64 {
	out := make([]float64, len(logs))
	for i, l := range logs {
		out[i] = float64(l.EnergyScore)
	}
	return out
}

func stressLevels(logs []models.DailyLog) []float64 {
	out := make([]float64, len(logs))
	for i, l := range logs {
		out[i] = float64(l.StressLevel)
	}
	return out
}

func productivityOr50(logs []models.DailyLog) []float64 {
	out := make([]float64, len(logs))
	for i, l := range logs {
		if l.ProductivityScore != nil {
			out[i] = *l.ProductivityScore
		} else {
			out[i] = 50
		}
	}
	return out
}
