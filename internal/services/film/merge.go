package film

import (
	"github.com/Ramsey-B/dahlia/pkg/models"
)

// mergeFilm applies the patch onto a copy of the stored film. Non-nil patch
// fields overwrite, nil fields keep the stored value; presence and zero are
// distinct, so a patch carrying a rating of 0 lowers the rating. Identifier,
// version and timestamps always come from the stored record. The merged film
// carries the stored actor list; additions travel separately.
func mergeFilm(stored *models.Film, patch *models.FilmPatch) *models.Film {
	merged := *stored

	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Genre != nil {
		merged.Genre = *patch.Genre
	}
	if patch.Rating != nil {
		merged.Rating = *patch.Rating
	}
	if patch.Duration != nil {
		merged.Duration = *patch.Duration
	}
	if patch.ReleaseYear != nil {
		merged.ReleaseYear = *patch.ReleaseYear
	}

	if patch.Director != nil {
		merged.Director = mergeDirector(stored.Director, patch.Director)
	}

	return &merged
}

func mergeDirector(stored *models.Director, patch *models.DirectorPatch) *models.Director {
	var merged models.Director
	if stored != nil {
		merged = *stored
	}

	if patch.FirstName != nil {
		merged.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		merged.LastName = *patch.LastName
	}
	if patch.BirthDate != nil {
		merged.BirthDate = *patch.BirthDate
	}
	return &merged
}

// dedupeActors returns the incoming actors that are not already on the film,
// comparing attributes rather than identifiers. Duplicates within the
// incoming list itself collapse too.
func dedupeActors(existing, incoming []models.Actor) []models.Actor {
	var added []models.Actor

	for _, candidate := range incoming {
		duplicate := false
		for _, actor := range existing {
			if candidate.Equivalent(actor) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			for _, actor := range added {
				if candidate.Equivalent(actor) {
					duplicate = true
					break
				}
			}
		}
		if !duplicate {
			added = append(added, candidate)
		}
	}

	return added
}
