package film

import (
	"context"
	"net/http"
	"regexp"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"

	"github.com/Ramsey-B/dahlia/pkg/criteria"
	"github.com/Ramsey-B/dahlia/pkg/errors"
	"github.com/Ramsey-B/dahlia/pkg/metrics"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

// versionToken is the quoted-integer concurrency token writers echo back,
// e.g. `"3"`. Anything else is rejected before the film is even looked up.
var versionToken = regexp.MustCompile(`^"(-?\d+)"$`)

// Create stores a new film together with its nested director and actors.
// A stored film matching the incoming identity fields (title substring,
// genre, rating, duration, release year) makes the create fail with a
// FilmExistsError. Returns the assigned film ID.
func (s *Service) Create(ctx context.Context, film *models.Film) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "film.Service.Create")
	defer span.End()

	if err := s.validate.Struct(film); err != nil {
		return 0, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid film: %s", err)
	}
	if !film.Genre.IsValid() {
		return 0, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid genre '%s'", film.Genre)
	}
	if film.Director != nil {
		if err := s.validate.Struct(film.Director); err != nil {
			return 0, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid director: %s", err)
		}
	}

	matches, err := s.repo.Search(ctx, identityCriteria(film))
	if err != nil {
		return 0, err
	}
	if len(matches) > 0 {
		s.logger.WithContext(ctx).WithFields(map[string]any{
			"title":        film.Title,
			"release_year": film.ReleaseYear,
		}).Info("Rejected duplicate film")
		metrics.WriteConflictsTotal.WithLabelValues(metrics.ReasonDuplicate).Inc()
		return 0, &errors.FilmExistsError{
			Title:       film.Title,
			ReleaseYear: film.ReleaseYear,
			Duration:    film.Duration,
		}
	}

	id, err := s.repo.Insert(ctx, film)
	if err != nil {
		return 0, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"id":    id,
		"title": film.Title,
	}).Info("Created film")
	metrics.FilmsCreatedTotal.Inc()
	s.emitter.EmitFilmCreated(ctx, film)

	return id, nil
}

// Update applies a patch to the stored record under optimistic concurrency.
// version must be the quoted-integer token of the record the caller read; a
// malformed token fails with VersionInvalidError, a token older than the
// stored version with VersionOutdatedError. Non-nil patch fields overwrite,
// nil fields keep the stored values, and incoming actors are appended after
// attribute-wise dedupe. Returns the new stored version.
func (s *Service) Update(ctx context.Context, id int64, patch *models.FilmPatch, version string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "film.Service.Update")
	defer span.End()

	match := versionToken.FindStringSubmatch(version)
	if match == nil {
		metrics.WriteConflictsTotal.WithLabelValues(metrics.ReasonVersionInvalid).Inc()
		return 0, &errors.VersionInvalidError{Version: version}
	}
	callerVersion, err := strconv.Atoi(match[1])
	if err != nil {
		metrics.WriteConflictsTotal.WithLabelValues(metrics.ReasonVersionInvalid).Inc()
		return 0, &errors.VersionInvalidError{Version: version}
	}

	stored, err := s.repo.FindByID(ctx, id, true, true)
	if err != nil {
		return 0, err
	}
	if stored == nil {
		metrics.WriteConflictsTotal.WithLabelValues(metrics.ReasonNotFound).Inc()
		return 0, &errors.FilmNotFoundError{ID: id}
	}

	if callerVersion < stored.Version {
		s.logger.WithContext(ctx).WithFields(map[string]any{
			"id":             id,
			"caller_version": callerVersion,
			"stored_version": stored.Version,
		}).Info("Rejected outdated update")
		metrics.WriteConflictsTotal.WithLabelValues(metrics.ReasonVersionOutdated).Inc()
		return 0, &errors.VersionOutdatedError{ID: id, Version: callerVersion}
	}

	if patch == nil {
		patch = &models.FilmPatch{}
	}
	merged := mergeFilm(stored, patch)
	newActors := dedupeActors(stored.Actors, patch.Actors)

	if err := s.validate.Struct(merged); err != nil {
		return 0, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid film: %s", err)
	}
	if !merged.Genre.IsValid() {
		return 0, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid genre '%s'", merged.Genre)
	}

	newVersion, err := s.repo.Update(ctx, merged, newActors)
	if err != nil {
		return 0, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"id":      id,
		"version": newVersion,
	}).Info("Updated film")
	metrics.FilmsUpdatedTotal.Inc()
	s.emitter.EmitFilmUpdated(ctx, id, newVersion)

	return newVersion, nil
}

// Delete removes the film and everything it owns: the film_actors links, the
// actors, the film row and its director, in one transaction. Deleting an
// absent film is not an error; it reports false.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "film.Service.Delete")
	defer span.End()

	stored, err := s.repo.FindByID(ctx, id, true, true)
	if err != nil {
		return false, err
	}
	if stored == nil {
		return false, nil
	}

	deleted, err := s.repo.Delete(ctx, stored)
	if err != nil {
		return false, err
	}

	if deleted {
		s.logger.WithContext(ctx).WithFields(map[string]any{"id": id}).Info("Deleted film")
		metrics.FilmsDeletedTotal.Inc()
		s.emitter.EmitFilmDeleted(ctx, id)
	}

	return deleted, nil
}

// identityCriteria builds the duplicate check filter from the five identity
// fields of the incoming film. The title goes through the same substring
// match the search path uses.
func identityCriteria(film *models.Film) *criteria.Criteria {
	title := film.Title
	genre := film.Genre
	rating := film.Rating
	duration := film.Duration
	releaseYear := film.ReleaseYear

	return &criteria.Criteria{
		Title:       &title,
		Genre:       &genre,
		Rating:      &rating,
		Duration:    &duration,
		ReleaseYear: &releaseYear,
	}
}
