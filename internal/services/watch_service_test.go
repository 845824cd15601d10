package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ravesdeleste/PluginPitch/domain"
	"github.com/ravesdeleste/PluginPitch/internal/infrastructure/repositories"
	"github.com/ravesdeleste/PluginPitch/internal/mocks"
)

func TestWatchService_InitialLoad(t *testing.T) {
	ctx := context.Background()
	flow := createFlowForTest(t, 0).flow

	projects := &mocks.MockProjectRepository{
		ListFunc: func(ctx context.Context) ([]domain.Project, error) {
			return []domain.Project{{ID: "p1", Name: "Synth One"}}, nil
		},
	}
	winners := &mocks.MockWinnerRepository{}

	watch := NewWatchService(nil, projects, winners, flow)
	if err := watch.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if got := flow.Projects(); len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("initial project load missing: %+v", got)
	}
	if flow.Winner() != nil {
		t.Error("no winner expected on initial load")
	}
}

func TestWatchService_ReloadsOnNotification(t *testing.T) {
	ctx := context.Background()
	client := setupTestRedis(t)
	flow := createFlowForTest(t, 0).flow

	var mu sync.Mutex
	current := []domain.Project{{ID: "p1", Name: "Synth One"}}
	projects := &mocks.MockProjectRepository{
		ListFunc: func(ctx context.Context) ([]domain.Project, error) {
			mu.Lock()
			defer mu.Unlock()
			snapshot := make([]domain.Project, len(current))
			copy(snapshot, current)
			return snapshot, nil
		},
	}
	var currentWinner *domain.WinnerAnnouncement
	winners := &mocks.MockWinnerRepository{
		GetFunc: func(ctx context.Context) (*domain.WinnerAnnouncement, error) {
			mu.Lock()
			defer mu.Unlock()
			if currentWinner == nil {
				return nil, domain.ErrWinnerNotSet
			}
			return currentWinner, nil
		},
	}

	watch := NewWatchService(client, projects, winners, flow)
	if err := watch.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	t.Cleanup(watch.Stop)

	mu.Lock()
	current = append(current, domain.Project{ID: "p2", Name: "Drum Lab"})
	mu.Unlock()

	if err := client.Publish(ctx, repositories.ProjectsChangedChannel, "p2").Err(); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		if got := flow.Projects(); len(got) == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("projects never reloaded after notification")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// Winner channel drives the winner snapshot the same way
	mu.Lock()
	currentWinner = &domain.WinnerAnnouncement{WinnerID: "p2"}
	mu.Unlock()
	if err := client.Publish(ctx, repositories.WinnerChangedChannel, "p2").Err(); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	deadline = time.After(2 * time.Second)
	for {
		if w := flow.Winner(); w != nil && w.WinnerID == "p2" {
			break
		}
		select {
		case <-deadline:
			t.Fatal("winner never reloaded after notification")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
