package models

import "time"

// Statistics holds the per-user aggregate counters. One row per user,
// created lazily on the first write. All durations are minutes.
type Statistics struct {
	UserID             int64      `json:"userId"`
	TotalCommon        int64      `json:"totalCommon"`
	TotalWork          int64      `json:"totalWork"`
	TotalStudy         int64      `json:"totalStudy"`
	TotalFitness       int64      `json:"totalFitness"`
	WeekTime           int64      `json:"weekTime"`
	TodayPlanned       int64      `json:"todayPlanned"`
	TodayCompleted     int64      `json:"todayCompleted"`
	StreakRecord       int        `json:"continuesRecord"`
	StreakNow          int        `json:"continuesNow"`
	AverageWorkMinutes int64      `json:"averageWorkMinutes"`
	AverageTotalDays   int        `json:"averageTotalDays"`
	FirstDay           *time.Time `json:"firstDay"`
}
