// Package events handles event emission for catalog record changes
package events

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/dahlia/pkg/kafka"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

// Emitter publishes film lifecycle events. Emission is best-effort: a failed
// publish is logged and never surfaced to the write caller.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitFilmCreated emits a film.created event
func (e *Emitter) EmitFilmCreated(ctx context.Context, film *models.Film) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitFilmCreated")
	defer span.End()

	e.publish(ctx, &kafka.FilmEvent{
		EventType:   "film.created",
		FilmID:      film.ID,
		Title:       film.Title,
		ReleaseYear: film.ReleaseYear,
		Version:     film.Version,
	})
}

// EmitFilmUpdated emits a film.updated event
func (e *Emitter) EmitFilmUpdated(ctx context.Context, filmID int64, version int) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitFilmUpdated")
	defer span.End()

	e.publish(ctx, &kafka.FilmEvent{
		EventType: "film.updated",
		FilmID:    filmID,
		Version:   version,
	})
}

// EmitFilmDeleted emits a film.deleted event
func (e *Emitter) EmitFilmDeleted(ctx context.Context, filmID int64) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitFilmDeleted")
	defer span.End()

	e.publish(ctx, &kafka.FilmEvent{
		EventType: "film.deleted",
		FilmID:    filmID,
	})
}

func (e *Emitter) publish(ctx context.Context, event *kafka.FilmEvent) {
	if e == nil || e.producer == nil {
		return
	}
	if err := e.producer.PublishFilmEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": event.EventType,
			"film_id":    event.FilmID,
		}).Error("Failed to emit film event")
	}
}
