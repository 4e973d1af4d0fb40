// Package startup brings service dependencies up in declaration order,
// honoring their requirements, with fibonacci-backoff retry across attempts.
package startup

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
)

// Task is one startable dependency. Requires names tasks that must be
// started first. Stop may be nil for tasks with nothing to tear down.
type Task struct {
	Name     string
	Requires []string
	Start    func(ctx context.Context) error
	Stop     func(ctx context.Context) error
}

type Status int

const (
	StatusPending Status = iota
	StatusStarted
	StatusStopped
	StatusFailed
)

type Startup struct {
	order       []string
	tasks       map[string]Task
	statuses    map[string]Status
	logger      ectologger.Logger
	maxAttempts int
}

func New(logger ectologger.Logger, maxAttempts int) *Startup {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Startup{
		tasks:       make(map[string]Task),
		statuses:    make(map[string]Status),
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

func (s *Startup) Add(task Task) {
	if _, ok := s.tasks[task.Name]; !ok {
		s.order = append(s.order, task.Name)
	}
	s.tasks[task.Name] = task
}

// Start runs every task in declaration order, starting requirements first.
// Tasks that already started are not rerun on a retry attempt.
func (s *Startup) Start(ctx context.Context) error {
	var lastErr error

	a, b := 1, 1
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		s.logger.WithField("attempt", attempt).Infof("Beginning startup attempt %d", attempt)

		lastErr = nil
		for _, name := range s.order {
			if err := s.startTask(ctx, name); err != nil {
				s.logger.WithError(err).Errorf("Startup task '%s' attempt %d failed", name, attempt)
				lastErr = err
				break
			}
		}

		if lastErr == nil {
			return nil
		}

		if attempt >= s.maxAttempts {
			return fmt.Errorf("startup failed after %d attempts: %w", attempt, lastErr)
		}

		s.logger.Infof("Retrying in %d seconds (attempt %d/%d)", a, attempt, s.maxAttempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(a) * time.Second):
		}
		a, b = b, a+b
	}

	return lastErr
}

func (s *Startup) startTask(ctx context.Context, name string) error {
	if s.statuses[name] == StatusStarted {
		return nil
	}

	task, ok := s.tasks[name]
	if !ok {
		return fmt.Errorf("startup task '%s' is not registered", name)
	}

	for _, required := range task.Requires {
		if s.statuses[required] != StatusStarted {
			if err := s.startTask(ctx, required); err != nil {
				return err
			}
		}
	}

	s.logger.WithField("task", name).Infof("Starting '%s'", name)
	s.statuses[name] = StatusPending
	if task.Start != nil {
		if err := task.Start(ctx); err != nil {
			s.statuses[name] = StatusFailed
			return err
		}
	}
	s.statuses[name] = StatusStarted
	return nil
}

// Stop tears started tasks down in reverse declaration order.
func (s *Startup) Stop(ctx context.Context) error {
	for i := len(s.order) - 1; i >= 0; i-- {
		name := s.order[i]
		if s.statuses[name] != StatusStarted {
			continue
		}

		task := s.tasks[name]
		s.logger.WithField("task", name).Infof("Stopping '%s'", name)
		if task.Stop != nil {
			if err := task.Stop(ctx); err != nil {
				s.logger.WithError(err).Errorf("Failed to stop task '%s'", name)
				return err
			}
		}
		s.statuses[name] = StatusStopped
	}
	return nil
}
