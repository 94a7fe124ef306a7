package repository

import (
	"context"

	"github.com/smartcalendar/backend/internal/database"
	"github.com/smartcalendar/backend/internal/models"
)

type StatisticsRepository struct {
	db *database.DB
}

func NewStatisticsRepository(db *database.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

func (r *StatisticsRepository) GetByUserID(ctx context.Context, userID int64) (*models.Statistics, error) {
	stats := &models.Statistics{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT user_id, total_common, total_work, total_study, total_fitness,
		 week_time, today_planned, today_completed, streak_record, streak_now,
		 average_work_minutes, average_total_days, first_day
		 FROM statistics WHERE user_id = $1`,
		userID,
	).Scan(&stats.UserID, &stats.TotalCommon, &stats.TotalWork, &stats.TotalStudy,
		&stats.TotalFitness, &stats.WeekTime, &stats.TodayPlanned,
		&stats.TodayCompleted, &stats.StreakRecord, &stats.StreakNow,
		&stats.AverageWorkMinutes, &stats.AverageTotalDays, &stats.FirstDay)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return stats, nil
}

// Upsert creates the user's row on first write and overwrites it after.
func (r *StatisticsRepository) Upsert(ctx context.Context, stats *models.Statistics) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO statistics (user_id, total_common, total_work, total_study,
		 total_fitness, week_time, today_planned, today_completed, streak_record,
		 streak_now, average_work_minutes, average_total_days, first_day)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (user_id) DO UPDATE SET
		 total_common = EXCLUDED.total_common,
		 total_work = EXCLUDED.total_work,
		 total_study = EXCLUDED.total_study,
		 total_fitness = EXCLUDED.total_fitness,
		 week_time = EXCLUDED.week_time,
		 today_planned = EXCLUDED.today_planned,
		 today_completed = EXCLUDED.today_completed,
		 streak_record = EXCLUDED.streak_record,
		 streak_now = EXCLUDED.streak_now,
		 average_work_minutes = EXCLUDED.average_work_minutes,
		 average_total_days = EXCLUDED.average_total_days,
		 first_day = EXCLUDED.first_day`,
		stats.UserID, stats.TotalCommon, stats.TotalWork, stats.TotalStudy,
		stats.TotalFitness, stats.WeekTime, stats.TodayPlanned,
		stats.TodayCompleted, stats.StreakRecord, stats.StreakNow,
		stats.AverageWorkMinutes, stats.AverageTotalDays, stats.FirstDay,
	)
	return err
}
