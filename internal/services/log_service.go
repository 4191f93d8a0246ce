package services

import (
	"fmt"

	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/repository"
)

// LogService reads a user's activity feed.
type LogService struct {
	logRepo repository.LogRepository
}

// NewLogService creates a new LogService.
func NewLogService(logRepo repository.LogRepository) *LogService {
	return &LogService{logRepo: logRepo}
}

// ListLogs returns the actor's activity entries, newest first.
func (s *LogService) ListLogs(actorID uint64) ([]models.ActivityLog, error) {
	logs, err := s.logRepo.ListByUser(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	return logs, nil
}
