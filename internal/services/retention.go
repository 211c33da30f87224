package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hubsync/backend/internal/infrastructure/buffer"
	syncmgr "github.com/hubsync/backend/internal/sync"
)

// Retention periodically re-trims the activity feeds and drops stale queued
// reconciles.
type Retention struct {
	manager   *syncmgr.Manager
	buffer    *buffer.Store
	keepHours int
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewRetention(manager *syncmgr.Manager, buf *buffer.Store, keepHours int, logger *zap.Logger) *Retention {
	if keepHours <= 0 {
		keepHours = 24
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Retention{
		manager:   manager,
		buffer:    buf,
		keepHours: keepHours,
		cron:      cron.New(),
		logger:    logger,
	}

	_, _ = r.cron.AddFunc("@hourly", r.sweep)
	return r
}

func (r *Retention) Start() {
	r.cron.Start()
}

func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Retention) sweep() {
	r.manager.TrimActivities()
	if r.buffer != nil {
		cutoff := time.Now().Add(-time.Duration(r.keepHours) * time.Hour)
		if err := r.buffer.Cleanup(cutoff); err != nil {
			r.logger.Warn("buffer cleanup failed", zap.Error(err))
		}
	}
}
