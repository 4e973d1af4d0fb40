package models

import "time"

// FilmPatch is a partial film for updates. Nil fields are absent and keep
// the stored value; a non-nil pointer overwrites, including with a zero
// value (a rating of 0 is a real rating). Actors are additions, deduped
// against the stored list before persisting.
type FilmPatch struct {
	Title       *string        `json:"title,omitempty"`
	Genre       *Genre         `json:"genre,omitempty"`
	Rating      *int           `json:"rating,omitempty"`
	Duration    *int           `json:"duration,omitempty"`
	ReleaseYear *int           `json:"release_year,omitempty"`
	Director    *DirectorPatch `json:"director,omitempty"`
	Actors      []Actor        `json:"actors,omitempty"`
}

// DirectorPatch is the partial director carried by a film patch.
type DirectorPatch struct {
	FirstName *string    `json:"first_name,omitempty"`
	LastName  *string    `json:"last_name,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}
