// Package scheduler provides background maintenance tasks for the viewer.
package scheduler

import (
	"context"
	"time"

	"github.com/oszuidwest/zwfm-directviewer/internal/credentials"
	"github.com/oszuidwest/zwfm-directviewer/pkg/logger"
)

// pruneTimeout bounds a single pruning run.
const pruneTimeout = time.Minute

// CredentialPruneService removes credentials that have not been renewed within
// the retention period.
type CredentialPruneService struct {
	pruner    credentials.Pruner
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	ticker    *time.Ticker
	done      chan struct{}
}

// NewCredentialPruneService creates a pruning service that runs every interval.
func NewCredentialPruneService(pruner credentials.Pruner, retention, interval time.Duration) *CredentialPruneService {
	return &CredentialPruneService{
		pruner:    pruner,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Start runs one pruning pass immediately and then one every interval.
func (s *CredentialPruneService) Start() {
	logger.Info("Starting credential prune service (retention %s, every %s)", s.retention, s.interval)

	s.pruneCredentials()

	s.ticker = time.NewTicker(s.interval)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.pruneCredentials()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop halts the service. It must be called at most once, after Start.
func (s *CredentialPruneService) Stop() {
	logger.Info("Stopping credential prune service")
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)
}

func (s *CredentialPruneService) pruneCredentials() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	cutoff := s.now().Add(-s.retention)
	removed, err := s.pruner.Prune(ctx, cutoff)
	if err != nil {
		logger.Error("Failed to prune credentials: %v", err)
		return
	}

	if removed > 0 {
		logger.Info("Pruned %d credentials not renewed since %s", removed, cutoff.Format(time.RFC3339))
	}
}
