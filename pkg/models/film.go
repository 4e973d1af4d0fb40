// Package models contains the catalog domain records.
package models

import (
	"time"
)

// Genre is the closed set of film categories.
type Genre string

const (
	GenreAction    Genre = "ACTION"
	GenreAdventure Genre = "ADVENTURE"
	GenreAnimation Genre = "ANIMATION"
	GenreBiography Genre = "BIOGRAPHY"
	GenreComedy    Genre = "COMEDY"
	GenreCrime     Genre = "CRIME"
	GenreDrama     Genre = "DRAMA"
	GenreFantasy   Genre = "FANTASY"
	GenreFilmNoir  Genre = "FILM-NOIR"
	GenreHistory   Genre = "HISTORY"
	GenreHorror    Genre = "HORROR"
	GenreMystery   Genre = "MYSTERY"
	GenreRomance   Genre = "ROMANCE"
	GenreSciFi     Genre = "SCI-FI"
	GenreThriller  Genre = "THRILLER"
	GenreWestern   Genre = "WESTERN"
)

// Genres lists every valid genre value.
var Genres = []Genre{
	GenreAction, GenreAdventure, GenreAnimation, GenreBiography,
	GenreComedy, GenreCrime, GenreDrama, GenreFantasy,
	GenreFilmNoir, GenreHistory, GenreHorror, GenreMystery,
	GenreRomance, GenreSciFi, GenreThriller, GenreWestern,
}

func (g Genre) IsValid() bool {
	for _, genre := range Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Film is the primary catalog record. ID is assigned by the database on
// insert; Version is bumped by the database on every successful update and is
// the optimistic concurrency marker writers must echo back.
type Film struct {
	ID          int64     `json:"id" db:"id"`
	Version     int       `json:"version" db:"version"`
	Title       string    `json:"title" db:"title" validate:"required,max=30"`
	Genre       Genre     `json:"genre" db:"genre" validate:"required"`
	Rating      int       `json:"rating" db:"rating" validate:"min=0,max=5"`
	Duration    int       `json:"duration" db:"duration" validate:"required,gt=0"`
	ReleaseYear int       `json:"release_year" db:"release_year" validate:"required,gt=0"`
	Director    *Director `json:"director,omitempty"`
	Actors      []Actor   `json:"actors,omitempty" validate:"omitempty,dive"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
