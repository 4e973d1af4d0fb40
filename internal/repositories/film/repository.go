// Package film implements film persistence on Postgres.
package film

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/dahlia/pkg/criteria"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

// Repository handles film, director and actor persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new film repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// FindByID retrieves a film by ID. Returns nil when no film matches.
func (r *Repository) FindByID(ctx context.Context, id int64, withActors, withDirector bool) (*models.Film, error) {
	ctx, span := tracing.StartSpan(ctx, "film.Repository.FindByID")
	defer span.End()

	query, args := BuildIDQuery(id, withDirector).Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":            id,
		"with_actors":   withActors,
		"with_director": withDirector,
	}).Debug("Getting film by ID")

	var row FilmRow
	err := r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to get film")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get film")
	}

	film := ToFilm(&row)
	if withActors {
		actors, err := r.loadActors(ctx, []int64{film.ID})
		if err != nil {
			return nil, err
		}
		film.Actors = actors[film.ID]
	}

	return film, nil
}

// Search retrieves every film matching the criteria. A nil criteria value
// matches all films.
func (r *Repository) Search(ctx context.Context, c *criteria.Criteria) ([]models.Film, error) {
	ctx, span := tracing.StartSpan(ctx, "film.Repository.Search")
	defer span.End()

	query, args := BuildSearchQuery(c).Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{"query": query}).Debug("Searching films")

	var rows []FilmRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to search films")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search films")
	}

	films := ToFilms(rows)

	if c != nil && c.WithActors && len(films) > 0 {
		ids := make([]int64, len(films))
		for i := range films {
			ids[i] = films[i].ID
		}
		actors, err := r.loadActors(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range films {
			films[i].Actors = actors[films[i].ID]
		}
	}

	return films, nil
}

// Insert persists a new film together with its nested director and actor
// rows as one transaction. The assigned identifiers are written back onto the
// model and the film ID is returned.
func (r *Repository) Insert(ctx context.Context, film *models.Film) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "film.Repository.Insert")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	if film.Director != nil {
		ib := database.NewInsertBuilder()
		ib = ib.InsertInto(directorsTable).
			Cols("version", "first_name", "last_name", "birth_date").
			Values(0, film.Director.FirstName, film.Director.LastName, film.Director.BirthDate).
			Returning("id")
		query, args := ib.Build()
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&film.Director.ID); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error("Failed to insert director")
			return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create film")
		}
		film.Director.Version = 0
	}

	ib := database.NewInsertBuilder()
	ib = ib.InsertInto(filmsTable).
		Cols("version", "title", "genre", "rating", "duration", "release_year", "director_id", "created_at", "updated_at").
		Values(0, film.Title, string(film.Genre), film.Rating, film.Duration, film.ReleaseYear, directorID(film), now, now).
		Returning("id")
	query, args := ib.Build()
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&film.ID); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"title": film.Title}).Error("Failed to insert film")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create film")
	}

	if err := r.insertActors(ctx, tx, film.ID, film.Actors); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	film.Version = 0
	film.CreatedAt = now
	film.UpdatedAt = now

	return film.ID, nil
}

// Update persists the merged film. The version column is incremented by the
// same statement that applies the new values, and the new version is
// returned. newActors are the deduplicated additions to the actor list.
func (r *Repository) Update(ctx context.Context, film *models.Film, newActors []models.Actor) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "film.Repository.Update")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	// A director merged onto a film that had none is inserted first so the
	// film row can point at it.
	newDirector := film.Director != nil && film.Director.ID == 0
	if newDirector {
		ib := database.NewInsertBuilder()
		ib = ib.InsertInto(directorsTable).
			Cols("version", "first_name", "last_name", "birth_date").
			Values(0, film.Director.FirstName, film.Director.LastName, film.Director.BirthDate).
			Returning("id")
		query, args := ib.Build()
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&film.Director.ID); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": film.ID}).Error("Failed to insert director")
			return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update film")
		}
		film.Director.Version = 0
	}

	ub := database.NewUpdateBuilder()
	ub.Update(filmsTable)
	assignments := []string{
		ub.Assign("title", film.Title),
		ub.Assign("genre", string(film.Genre)),
		ub.Assign("rating", film.Rating),
		ub.Assign("duration", film.Duration),
		ub.Assign("release_year", film.ReleaseYear),
		ub.Assign("updated_at", now),
		"version = version + 1",
	}
	if newDirector {
		assignments = append(assignments, ub.Assign("director_id", film.Director.ID))
	}
	ub.Set(assignments...)
	ub.Where(ub.Equal("id", film.ID))
	ub.SQL("RETURNING version")

	query, args := ub.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": film.ID}).Debug("Updating film")

	var newVersion int
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&newVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, httperror.NewHTTPError(http.StatusNotFound, "film not found")
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": film.ID}).Error("Failed to update film")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update film")
	}

	if film.Director != nil && !newDirector {
		ub := database.NewUpdateBuilder()
		ub.Update(directorsTable)
		ub.Set(
			ub.Assign("first_name", film.Director.FirstName),
			ub.Assign("last_name", film.Director.LastName),
			ub.Assign("birth_date", film.Director.BirthDate),
			"version = version + 1",
		)
		ub.Where(ub.Equal("id", film.Director.ID))
		query, args := ub.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"director_id": film.Director.ID}).Error("Failed to update director")
			return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update film")
		}
	}

	if err := r.insertActors(ctx, tx, film.ID, newActors); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	return newVersion, nil
}

// Delete removes the film together with its owned director and actor rows in
// one transaction. The film must carry its director and actors. Returns true
// when a film row was actually removed.
func (r *Repository) Delete(ctx context.Context, film *models.Film) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "film.Repository.Delete")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	db := database.NewDeleteBuilder()
	db.DeleteFrom(filmActorsTable)
	db.Where(db.Equal("film_id", film.ID))
	query, args := db.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": film.ID}).Error("Failed to delete film actor links")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete film")
	}

	if len(film.Actors) > 0 {
		ids := make([]interface{}, len(film.Actors))
		for i, actor := range film.Actors {
			ids[i] = actor.ID
		}
		db := database.NewDeleteBuilder()
		db.DeleteFrom(actorsTable)
		db.Where(db.In("id", ids...))
		query, args := db.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": film.ID}).Error("Failed to delete actors")
			return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete film")
		}
	}

	db = database.NewDeleteBuilder()
	db.DeleteFrom(filmsTable)
	db.Where(db.Equal("id", film.ID))
	query, args = db.Build()
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": film.ID}).Error("Failed to delete film")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete film")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": film.ID}).Error("Failed to read deleted row count")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete film")
	}

	if film.Director != nil && film.Director.ID != 0 {
		db := database.NewDeleteBuilder()
		db.DeleteFrom(directorsTable)
		db.Where(db.Equal("id", film.Director.ID))
		query, args := db.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"director_id": film.Director.ID}).Error("Failed to delete director")
			return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete film")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	return rowsAffected > 0, nil
}

func (r *Repository) loadActors(ctx context.Context, filmIDs []int64) (map[int64][]models.Actor, error) {
	ctx, span := tracing.StartSpan(ctx, "film.Repository.loadActors")
	defer span.End()

	query, args := BuildActorQuery(filmIDs).Build()

	var rows []ActorRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to load actors")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to load actors")
	}

	actors := make(map[int64][]models.Actor, len(filmIDs))
	for i := range rows {
		actors[rows[i].FilmID] = append(actors[rows[i].FilmID], ToActor(&rows[i]))
	}
	return actors, nil
}

func (r *Repository) insertActors(ctx context.Context, tx database.Tx, filmID int64, actors []models.Actor) error {
	if len(actors) == 0 {
		return nil
	}

	links := make([]interface{}, 0, len(actors))
	for i := range actors {
		ib := database.NewInsertBuilder()
		ib = ib.InsertInto(actorsTable).
			Cols("version", "first_name", "last_name", "birth_date", "height", "social_media").
			Values(0, actors[i].FirstName, actors[i].LastName, actors[i].BirthDate, actors[i].Height,
				database.JSONB[map[string]string]{Data: actors[i].SocialMedia}).
			Returning("id")
		query, args := ib.Build()
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&actors[i].ID); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"film_id": filmID}).Error("Failed to insert actor")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save actors")
		}
		actors[i].Version = 0
		links = append(links, &FilmActorRow{FilmID: filmID, ActorID: actors[i].ID})
	}

	ib := filmActorStruct.InsertInto(filmActorsTable, links...)
	query, args := ib.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"film_id": filmID}).Error("Failed to link actors")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save actors")
	}

	return nil
}

func directorID(film *models.Film) interface{} {
	if film.Director == nil || film.Director.ID == 0 {
		return nil
	}
	return film.Director.ID
}
