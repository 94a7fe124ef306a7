package service

import (
	"context"
	"errors"

	"github.com/smartcalendar/backend/internal/models"
)

type StatisticsStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Statistics, error)
	Upsert(ctx context.Context, stats *models.Statistics) error
}

type StatisticsService struct {
	stats StatisticsStore
}

func NewStatisticsService(stats StatisticsStore) *StatisticsService {
	return &StatisticsService{stats: stats}
}

// Get returns zeroed aggregates when the user has no statistics row yet;
// the row itself is only created on the first write.
func (s *StatisticsService) Get(ctx context.Context, actor *models.User, userID int64) (*models.Statistics, error) {
	if actor.ID != userID {
		return nil, ErrForbidden
	}
	stats, err := s.stats.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &models.Statistics{UserID: userID, AverageTotalDays: 1}, nil
		}
		return nil, err
	}
	return stats, nil
}

// Update overwrites the user's counters, creating the row lazily.
func (s *StatisticsService) Update(ctx context.Context, actor *models.User, userID int64, stats *models.Statistics) error {
	if actor.ID != userID {
		return ErrForbidden
	}
	stats.UserID = userID
	return s.stats.Upsert(ctx, stats)
}
