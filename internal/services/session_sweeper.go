package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/repository/boltdb"
)

// SessionSweeper periodically removes expired sessions from the bbolt
// store. The Redis backend expires keys on its own and does not need one.
type SessionSweeper struct {
	store    *boltdb.Store
	schedule *cron.Cron
	logger   *zap.Logger
}

func NewSessionSweeper(store *boltdb.Store, interval time.Duration, logger *zap.Logger) (*SessionSweeper, error) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sweeper := &SessionSweeper{
		store:    store,
		schedule: cron.New(),
		logger:   logger,
	}

	spec := fmt.Sprintf("@every %s", interval)
	if _, err := sweeper.schedule.AddFunc(spec, sweeper.sweep); err != nil {
		return nil, err
	}
	return sweeper, nil
}

func (s *SessionSweeper) Start() {
	s.schedule.Start()
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *SessionSweeper) Stop() {
	<-s.schedule.Stop().Done()
}

func (s *SessionSweeper) sweep() {
	removed, err := s.store.Sweep(time.Now())
	if err != nil {
		s.logger.Warn("session sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("expired sessions removed", zap.Int("count", removed))
	}
}
