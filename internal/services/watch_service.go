package services

import (
	"context"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/ravesdeleste/PluginPitch/domain"
	"github.com/ravesdeleste/PluginPitch/internal/infrastructure/repositories"
)

// WatchService subscribes to the change channels the repositories publish
// on and pushes fresh project and winner snapshots into the flow. It also
// performs the initial load so the flow never starts with stale data.
type WatchService struct {
	client   *redis.Client
	projects domain.ProjectRepository
	winners  domain.WinnerRepository
	flow     *FlowService

	pubsub *redis.PubSub
	done   chan struct{}
}

func NewWatchService(client *redis.Client, projects domain.ProjectRepository, winners domain.WinnerRepository, flow *FlowService) *WatchService {
	return &WatchService{
		client:   client,
		projects: projects,
		winners:  winners,
		flow:     flow,
		done:     make(chan struct{}),
	}
}

// Start loads the current snapshots and then listens for change
// notifications until Stop is called. Without a Redis client it degrades
// to the initial load only.
func (w *WatchService) Start(ctx context.Context) error {
	if err := w.reloadProjects(ctx); err != nil {
		return err
	}
	if err := w.reloadWinner(ctx); err != nil {
		return err
	}

	if w.client == nil {
		return nil
	}

	w.pubsub = w.client.Subscribe(ctx,
		repositories.ProjectsChangedChannel,
		repositories.WinnerChangedChannel,
	)
	go w.listen(ctx)
	return nil
}

// Stop closes the subscription and waits for the listener to exit
func (w *WatchService) Stop() {
	if w.pubsub == nil {
		return
	}
	_ = w.pubsub.Close()
	<-w.done
}

func (w *WatchService) listen(ctx context.Context) {
	defer close(w.done)
	ch := w.pubsub.Channel()
	for msg := range ch {
		switch msg.Channel {
		case repositories.ProjectsChangedChannel:
			if err := w.reloadProjects(ctx); err != nil {
				log.Printf("watch: reload projects: %v", err)
			}
		case repositories.WinnerChangedChannel:
			if err := w.reloadWinner(ctx); err != nil {
				log.Printf("watch: reload winner: %v", err)
			}
		}
	}
}

func (w *WatchService) reloadProjects(ctx context.Context) error {
	projects, err := w.projects.List(ctx)
	if err != nil {
		return err
	}
	w.flow.ApplyProjects(projects)
	return nil
}

func (w *WatchService) reloadWinner(ctx context.Context) error {
	winner, err := w.winners.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrWinnerNotSet) {
			w.flow.ApplyWinner(nil)
			return nil
		}
		return err
	}
	w.flow.ApplyWinner(winner)
	return nil
}
