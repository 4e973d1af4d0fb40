package models

import "time"

// Director is the person record a film belongs to. One director may direct
// many films; a director created through a film is owned by it and removed
// with it.
type Director struct {
	ID        int64     `json:"id" db:"id"`
	Version   int       `json:"version" db:"version"`
	FirstName string    `json:"first_name" db:"first_name" validate:"required,max=20"`
	LastName  string    `json:"last_name" db:"last_name" validate:"required,max=20"`
	BirthDate time.Time `json:"birth_date" db:"birth_date"`
}

// Actor is a person record attached to films through the film_actors join
// table. SocialMedia holds free-form handle key/value pairs.
type Actor struct {
	ID          int64             `json:"id" db:"id"`
	Version     int               `json:"version" db:"version"`
	FirstName   string            `json:"first_name" db:"first_name" validate:"required,max=20"`
	LastName    string            `json:"last_name" db:"last_name" validate:"required,max=20"`
	BirthDate   time.Time         `json:"birth_date" db:"birth_date"`
	Height      int               `json:"height" db:"height" validate:"gt=0"`
	SocialMedia map[string]string `json:"social_media,omitempty"`
}

// Equivalent reports attribute-wise equality, ignoring identifier and
// version. Used to keep an update from re-adding an actor the film already
// has.
func (a Actor) Equivalent(other Actor) bool {
	if a.FirstName != other.FirstName || a.LastName != other.LastName {
		return false
	}
	if !a.BirthDate.Equal(other.BirthDate) || a.Height != other.Height {
		return false
	}
	if len(a.SocialMedia) != len(other.SocialMedia) {
		return false
	}
	for key, value := range a.SocialMedia {
		if other.SocialMedia[key] != value {
			return false
		}
	}
	return true
}
