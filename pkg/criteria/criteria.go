// Package criteria defines the closed set of film search criteria and the
// fail-closed parser for caller-supplied criteria maps.
package criteria

import (
	"fmt"
	"strconv"

	"github.com/Ramsey-B/dahlia/pkg/models"
)

// Criterion keys accepted from callers. Anything else is rejected.
const (
	KeyTitle       = "title"
	KeyGenre       = "genre"
	KeyRating      = "rating"
	KeyDuration    = "duration"
	KeyReleaseYear = "release_year"

	// Relation-inclusion flags, not filters.
	KeyWithDirector = "with_director"
	KeyWithActors   = "with_actors"
)

// Criteria is the typed search filter. Nil fields are absent; an all-nil
// value matches every film. Title is a case-insensitive substring match,
// every other field is an exact equality.
type Criteria struct {
	Title       *string
	Genre       *models.Genre
	Rating      *int
	Duration    *int
	ReleaseYear *int

	WithDirector bool
	WithActors   bool
}

// IsEmpty reports whether no filter field is set. Inclusion flags are not
// filters.
func (c *Criteria) IsEmpty() bool {
	if c == nil {
		return true
	}
	return c.Title == nil && c.Genre == nil && c.Rating == nil && c.Duration == nil && c.ReleaseYear == nil
}

// UnknownKeyError reports a criteria key that is not a film attribute or an
// inclusion flag.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown search criterion '%s'", e.Key)
}

// FromMap parses a caller-supplied criteria map into a Criteria. Keys outside
// the whitelist and values that cannot be parsed for their key both fail: the
// caller must treat a failed parse as an empty result set, never as a query.
func FromMap(values map[string]string) (*Criteria, error) {
	c := &Criteria{}

	for key, value := range values {
		switch key {
		case KeyTitle:
			title := value
			c.Title = &title
		case KeyGenre:
			genre := models.Genre(value)
			c.Genre = &genre
		case KeyRating:
			rating, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("criterion '%s': %w", key, err)
			}
			c.Rating = &rating
		case KeyDuration:
			duration, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("criterion '%s': %w", key, err)
			}
			c.Duration = &duration
		case KeyReleaseYear:
			year, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("criterion '%s': %w", key, err)
			}
			c.ReleaseYear = &year
		case KeyWithDirector:
			c.WithDirector = value == "true"
		case KeyWithActors:
			c.WithActors = value == "true"
		default:
			return nil, &UnknownKeyError{Key: key}
		}
	}

	return c, nil
}
