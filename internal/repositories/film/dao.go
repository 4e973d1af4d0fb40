package film

import (
	"database/sql"
	"time"

	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
)

const (
	filmsTable      = "films"
	directorsTable  = "directors"
	actorsTable     = "actors"
	filmActorsTable = "film_actors"
)

// FilmRow represents the database row for a film. The director_* columns are
// populated only when the director join is selected.
type FilmRow struct {
	ID          int64         `db:"id"`
	Version     int           `db:"version"`
	Title       string        `db:"title"`
	Genre       string        `db:"genre"`
	Rating      int           `db:"rating"`
	Duration    int           `db:"duration"`
	ReleaseYear int           `db:"release_year"`
	DirectorID  sql.NullInt64 `db:"director_id"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`

	DirectorVersion   sql.NullInt64  `db:"director_version"`
	DirectorFirstName sql.NullString `db:"director_first_name"`
	DirectorLastName  sql.NullString `db:"director_last_name"`
	DirectorBirthDate sql.NullTime   `db:"director_birth_date"`
}

// ActorRow represents the database row for an actor. FilmID comes from the
// film_actors join and is only set when actors are loaded for a film.
type ActorRow struct {
	ID          int64                             `db:"id"`
	Version     int                               `db:"version"`
	FirstName   string                            `db:"first_name"`
	LastName    string                            `db:"last_name"`
	BirthDate   time.Time                         `db:"birth_date"`
	Height      int                               `db:"height"`
	SocialMedia database.JSONB[map[string]string] `db:"social_media"`
	FilmID      int64                             `db:"film_id"`
}

// FilmActorRow is a film_actors join table row.
type FilmActorRow struct {
	FilmID  int64 `db:"film_id"`
	ActorID int64 `db:"actor_id"`
}

var filmActorStruct = database.NewStruct(new(FilmActorRow))

// ToFilm converts a database row to a domain model
func ToFilm(row *FilmRow) *models.Film {
	film := &models.Film{
		ID:          row.ID,
		Version:     row.Version,
		Title:       row.Title,
		Genre:       models.Genre(row.Genre),
		Rating:      row.Rating,
		Duration:    row.Duration,
		ReleaseYear: row.ReleaseYear,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}

	if row.DirectorID.Valid && row.DirectorVersion.Valid {
		film.Director = &models.Director{
			ID:        row.DirectorID.Int64,
			Version:   int(row.DirectorVersion.Int64),
			FirstName: row.DirectorFirstName.String,
			LastName:  row.DirectorLastName.String,
			BirthDate: row.DirectorBirthDate.Time,
		}
	}

	return film
}

// ToFilms converts a slice of database rows to domain models
func ToFilms(rows []FilmRow) []models.Film {
	films := make([]models.Film, len(rows))
	for i, row := range rows {
		films[i] = *ToFilm(&row)
	}
	return films
}

// ToActor converts a database row to a domain model
func ToActor(row *ActorRow) models.Actor {
	return models.Actor{
		ID:          row.ID,
		Version:     row.Version,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		BirthDate:   row.BirthDate,
		Height:      row.Height,
		SocialMedia: row.SocialMedia.Data,
	}
}
