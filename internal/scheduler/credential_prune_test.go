package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (p *recordingPruner) Prune(_ context.Context, before time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, before)
	return 1, p.err
}

func (p *recordingPruner) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cutoffs)
}

func TestPruneUsesRetentionCutoff(t *testing.T) {
	p := &recordingPruner{}
	s := NewCredentialPruneService(p, 48*time.Hour, time.Hour)
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.pruneCredentials()

	require.Len(t, p.cutoffs, 1)
	assert.Equal(t, now.Add(-48*time.Hour), p.cutoffs[0])
}

func TestPruneFailureIsNotFatal(t *testing.T) {
	p := &recordingPruner{err: errors.New("database is locked")}
	s := NewCredentialPruneService(p, time.Hour, time.Hour)

	assert.NotPanics(t, s.pruneCredentials)
	assert.Equal(t, 1, p.calls())
}

func TestStartRunsImmediatelyAndOnInterval(t *testing.T) {
	p := &recordingPruner{}
	s := NewCredentialPruneService(p, time.Hour, 10*time.Millisecond)

	s.Start()
	assert.GreaterOrEqual(t, p.calls(), 1)

	assert.Eventually(t, func() bool { return p.calls() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()
}
