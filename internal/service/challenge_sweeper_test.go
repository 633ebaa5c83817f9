package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mentorhub/mentorhub-api/internal/service"
)

func TestChallengeSweeperRunsAndStops(t *testing.T) {
	repo := newMockChallengeRepo()
	repo.sweeps = make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.RunChallengeSweeper(ctx, repo, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-repo.sweeps:
	case <-time.After(time.Second):
		t.Fatal("sweep never ran")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on cancel")
	}
}
