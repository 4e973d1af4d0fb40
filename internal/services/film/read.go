package film

import (
	"context"

	"github.com/Ramsey-B/dahlia/pkg/criteria"
	"github.com/Ramsey-B/dahlia/pkg/errors"
	"github.com/Ramsey-B/dahlia/pkg/metrics"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

// Find retrieves every film matching the caller-supplied criteria map. An
// empty map matches all films. A map with an unknown key or an unparsable
// value matches nothing: the result is an empty list, never an error and
// never an unfiltered query.
func (s *Service) Find(ctx context.Context, values map[string]string) ([]models.Film, error) {
	ctx, span := tracing.StartSpan(ctx, "film.Service.Find")
	defer span.End()

	c, err := criteria.FromMap(values)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"criteria": values,
		}).Warn("Rejected search criteria")
		metrics.SearchesTotal.WithLabelValues("rejected").Inc()
		return []models.Film{}, nil
	}

	films, err := s.repo.Search(ctx, c)
	if err != nil {
		return nil, err
	}
	if films == nil {
		films = []models.Film{}
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	return films, nil
}

// FindByID retrieves a single film, optionally with its actor list and
// director. Returns a FilmNotFoundError when no film has the identifier.
func (s *Service) FindByID(ctx context.Context, id int64, withActors, withDirector bool) (*models.Film, error) {
	ctx, span := tracing.StartSpan(ctx, "film.Service.FindByID")
	defer span.End()

	film, err := s.repo.FindByID(ctx, id, withActors, withDirector)
	if err != nil {
		return nil, err
	}
	if film == nil {
		return nil, &errors.FilmNotFoundError{ID: id}
	}

	return film, nil
}
