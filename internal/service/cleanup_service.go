package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"report-bot-be/internal/pkg/logger"
)

const cleanupHour = 9

type ICleanupService interface {
	Start(ctx context.Context)
	PurgeOnce()
}

// cleanupService removes staged files left behind by abandoned uploads.
// It fires every day at 09:00 local time.
type cleanupService struct {
	dirs   []string
	logger logger.ILogger
	now    func() time.Time
}

func NewCleanupService(dirs []string, log logger.ILogger) ICleanupService {
	return &cleanupService{
		dirs:   dirs,
		logger: log,
		now:    time.Now,
	}
}

func (s *cleanupService) Start(ctx context.Context) {
	go func() {
		for {
			timer := time.NewTimer(s.untilNextRun())
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				s.PurgeOnce()
			}
		}
	}()
}

func (s *cleanupService) untilNextRun() time.Duration {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), cleanupHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}

func (s *cleanupService) PurgeOnce() {
	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Warn("CleanupService", "Reading directory failed", map[string]interface{}{
				"dir":   dir,
				"error": err.Error(),
			})
			continue
		}
		removed := 0
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				s.logger.Warn("CleanupService", "Removing file failed", map[string]interface{}{
					"file":  entry.Name(),
					"error": err.Error(),
				})
				continue
			}
			removed++
		}
		s.logger.Info("CleanupService", "Directory purged", map[string]interface{}{
			"dir":     dir,
			"removed": removed,
		})
	}
}
