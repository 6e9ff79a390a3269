package service

import (
	"context"
	"fmt"

	"faxfhir/internal/domain"
	"faxfhir/internal/port"
)

// StatsService serves aggregate processing statistics.
type StatsService interface {
	GetStats(ctx context.Context) (*domain.Stats, error)
}

type statsService struct {
	results port.ResultRepository
}

// NewStatsService creates a StatsService backed by the result repository.
func NewStatsService(results port.ResultRepository) StatsService {
	return &statsService{results: results}
}

func (s *statsService) GetStats(ctx context.Context) (*domain.Stats, error) {
	// Without a repository there is nothing to aggregate.
	if s.results == nil {
		return nil, domain.ErrNotFound
	}
	stats, err := s.results.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats.GetStats: %w", err)
	}

	if stats.TotalProcessed > 0 {
		stats.SuccessRate = float64(stats.Succeeded) / float64(stats.TotalProcessed) * 100
		stats.ErrorRate = float64(stats.TotalProcessed-stats.Succeeded) / float64(stats.TotalProcessed) * 100
	}
	return stats, nil
}
