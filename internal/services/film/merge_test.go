package film

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/dahlia/pkg/models"
)

func TestMergeFilm(t *testing.T) {
	stored := &models.Film{
		ID:          7,
		Version:     3,
		Title:       "The Matrix",
		Genre:       models.GenreSciFi,
		Rating:      5,
		Duration:    136,
		ReleaseYear: 1999,
	}

	tests := []struct {
		name     string
		patch    *models.FilmPatch
		expected models.Film
	}{
		{
			name:  "empty patch keeps everything",
			patch: &models.FilmPatch{},
			expected: models.Film{
				ID: 7, Version: 3, Title: "The Matrix", Genre: models.GenreSciFi,
				Rating: 5, Duration: 136, ReleaseYear: 1999,
			},
		},
		{
			name:  "title only",
			patch: &models.FilmPatch{Title: strPtr("The Matrix Reloaded")},
			expected: models.Film{
				ID: 7, Version: 3, Title: "The Matrix Reloaded", Genre: models.GenreSciFi,
				Rating: 5, Duration: 136, ReleaseYear: 1999,
			},
		},
		{
			name:  "several scalars",
			patch: &models.FilmPatch{Rating: intPtr(4), Duration: intPtr(138), ReleaseYear: intPtr(2003)},
			expected: models.Film{
				ID: 7, Version: 3, Title: "The Matrix", Genre: models.GenreSciFi,
				Rating: 4, Duration: 138, ReleaseYear: 2003,
			},
		},
		{
			name:  "a present zero rating overwrites",
			patch: &models.FilmPatch{Rating: intPtr(0)},
			expected: models.Film{
				ID: 7, Version: 3, Title: "The Matrix", Genre: models.GenreSciFi,
				Rating: 0, Duration: 136, ReleaseYear: 1999,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := mergeFilm(stored, tt.patch)
			assert.Equal(t, tt.expected, *merged)
			assert.Equal(t, 3, stored.Version, "merge must not mutate the stored film")
			assert.Equal(t, 5, stored.Rating)
		})
	}
}

func TestMergeFilmDirector(t *testing.T) {
	birthDate := time.Date(1970, 3, 30, 0, 0, 0, 0, time.UTC)

	t.Run("director patch merges onto stored director", func(t *testing.T) {
		stored := &models.Film{
			Title: "Inception",
			Director: &models.Director{
				ID: 4, Version: 1, FirstName: "Christopher", LastName: "Nolan", BirthDate: birthDate,
			},
		}
		merged := mergeFilm(stored, &models.FilmPatch{
			Director: &models.DirectorPatch{LastName: strPtr("Nolan-Smith")},
		})

		assert.Equal(t, int64(4), merged.Director.ID)
		assert.Equal(t, "Christopher", merged.Director.FirstName)
		assert.Equal(t, "Nolan-Smith", merged.Director.LastName)
		assert.Equal(t, birthDate, merged.Director.BirthDate)
	})

	t.Run("director added to a film that had none", func(t *testing.T) {
		stored := &models.Film{Title: "Inception"}
		merged := mergeFilm(stored, &models.FilmPatch{
			Director: &models.DirectorPatch{FirstName: strPtr("Christopher"), LastName: strPtr("Nolan")},
		})

		assert.Zero(t, merged.Director.ID, "a new director never carries a caller identifier")
		assert.Equal(t, "Christopher", merged.Director.FirstName)
	})

	t.Run("absent director keeps the stored one", func(t *testing.T) {
		stored := &models.Film{
			Title:    "Inception",
			Director: &models.Director{ID: 4, FirstName: "Christopher", LastName: "Nolan"},
		}
		merged := mergeFilm(stored, &models.FilmPatch{Title: strPtr("Tenet")})

		assert.Equal(t, stored.Director, merged.Director)
	})
}

func TestDedupeActors(t *testing.T) {
	birthDate := time.Date(1964, 9, 2, 0, 0, 0, 0, time.UTC)
	keanu := models.Actor{FirstName: "Keanu", LastName: "Reeves", BirthDate: birthDate, Height: 186}
	carrie := models.Actor{FirstName: "Carrie-Anne", LastName: "Moss", Height: 178}

	t.Run("equivalent actor is dropped despite a different identifier", func(t *testing.T) {
		storedKeanu := keanu
		storedKeanu.ID = 12
		storedKeanu.Version = 2

		added := dedupeActors([]models.Actor{storedKeanu}, []models.Actor{keanu, carrie})
		assert.Equal(t, []models.Actor{carrie}, added)
	})

	t.Run("attribute difference is a distinct actor", func(t *testing.T) {
		taller := keanu
		taller.Height = 187

		added := dedupeActors([]models.Actor{keanu}, []models.Actor{taller})
		assert.Equal(t, []models.Actor{taller}, added)
	})

	t.Run("duplicates inside the incoming list collapse", func(t *testing.T) {
		added := dedupeActors(nil, []models.Actor{keanu, keanu, carrie})
		assert.Equal(t, []models.Actor{keanu, carrie}, added)
	})

	t.Run("social media differences count", func(t *testing.T) {
		withHandle := keanu
		withHandle.SocialMedia = map[string]string{"x": "@keanu"}

		added := dedupeActors([]models.Actor{keanu}, []models.Actor{withHandle})
		assert.Equal(t, []models.Actor{withHandle}, added)
	})

	t.Run("nothing incoming adds nothing", func(t *testing.T) {
		assert.Empty(t, dedupeActors([]models.Actor{keanu}, nil))
	})
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
