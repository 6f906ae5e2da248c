package scheduler

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary describes how study load is spread over a week.
type Summary struct {
	TotalMinutes       int       `json:"total_minutes"`
	MeanDailyMinutes   float64   `json:"mean_daily_minutes"`
	StdDevDailyMinutes float64   `json:"stddev_daily_minutes"`
	PeakDay            time.Time `json:"peak_day"`
	PeakMinutes        int       `json:"peak_minutes"`
	Utilization        float64   `json:"utilization"` // share of the weekly budget in use
}

// Summarize computes load statistics for week under the daily budget.
func Summarize(week *WeeklySchedule, budget int) Summary {
	var s Summary
	if len(week.Days) == 0 {
		return s
	}
	loads := make([]float64, len(week.Days))
	s.PeakDay = week.Days[0].Date
	for i, d := range week.Days {
		loads[i] = float64(d.TotalMinutes)
		s.TotalMinutes += d.TotalMinutes
		if d.TotalMinutes > s.PeakMinutes {
			s.PeakMinutes = d.TotalMinutes
			s.PeakDay = d.Date
		}
	}
	s.MeanDailyMinutes, s.StdDevDailyMinutes = stat.PopMeanStdDev(loads, nil)
	if budget > 0 {
		s.Utilization = float64(s.TotalMinutes) / float64(budget*len(week.Days))
	}
	return s
}
