package film_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/dahlia/internal/repositories/film"
	"github.com/Ramsey-B/dahlia/pkg/criteria"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func getTestDB(t *testing.T) database.DB {
	_ = godotenv.Load("../../../.env")

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbUser := os.Getenv("DB_USER_NAME")
	if dbUser == "" {
		dbUser = "user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "password"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "dahlia"
	}

	dsn := "host=" + dbHost + " user=" + dbUser + " password=" + dbPass + " dbname=" + dbName + " sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")

	return database.NewDatabaseInstance(db, getTestLogger())
}

// testFilm builds a film with a unique title so runs do not collide.
func testFilm() *models.Film {
	return &models.Film{
		Title:       "it-" + uuid.New().String()[:8],
		Genre:       models.GenreSciFi,
		Rating:      5,
		Duration:    136,
		ReleaseYear: 1999,
		Director: &models.Director{
			FirstName: "Lana",
			LastName:  "Wachowski",
			BirthDate: time.Date(1965, 6, 21, 0, 0, 0, 0, time.UTC),
		},
		Actors: []models.Actor{
			{
				FirstName:   "Keanu",
				LastName:    "Reeves",
				BirthDate:   time.Date(1964, 9, 2, 0, 0, 0, 0, time.UTC),
				Height:      186,
				SocialMedia: map[string]string{"x": "@keanu"},
			},
			{
				FirstName: "Carrie-Anne",
				LastName:  "Moss",
				BirthDate: time.Date(1967, 8, 21, 0, 0, 0, 0, time.UTC),
				Height:    178,
			},
		},
	}
}

func TestRepository_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	repo := film.NewRepository(db, getTestLogger())
	ctx := context.Background()

	created := testFilm()
	id, err := repo.Insert(ctx, created)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.NotZero(t, created.Director.ID)
	require.Len(t, created.Actors, 2)
	assert.NotZero(t, created.Actors[0].ID)

	// FindByID with both relations
	fetched, err := repo.FindByID(ctx, id, true, true)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, 0, fetched.Version)
	require.NotNil(t, fetched.Director)
	assert.Equal(t, "Lana", fetched.Director.FirstName)
	require.Len(t, fetched.Actors, 2)
	assert.Equal(t, map[string]string{"x": "@keanu"}, fetched.Actors[0].SocialMedia)

	// Search by substring title
	sub := created.Title[3:10]
	results, err := repo.Search(ctx, &criteria.Criteria{Title: &sub, WithActors: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0].ID)
	assert.Len(t, results[0].Actors, 2)

	// Update bumps the version on the database side
	fetched.Rating = 4
	newVersion, err := repo.Update(ctx, fetched, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, newVersion)

	refetched, err := repo.FindByID(ctx, id, false, false)
	require.NoError(t, err)
	assert.Equal(t, 1, refetched.Version)
	assert.Equal(t, 4, refetched.Rating)

	// Delete cascades over the whole record
	directorID := fetched.Director.ID
	actorIDs := []int64{fetched.Actors[0].ID, fetched.Actors[1].ID}

	deleted, err := repo.Delete(ctx, fetched)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := repo.FindByID(ctx, id, true, true)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// No orphaned rows survive the cascade
	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM directors WHERE id = $1", directorID))
	assert.Zero(t, count, "director row must be removed with its film")

	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM actors WHERE id IN ($1, $2)", actorIDs[0], actorIDs[1]))
	assert.Zero(t, count, "actor rows must be removed with their film")

	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM film_actors WHERE film_id = $1", id))
	assert.Zero(t, count, "film_actors links must be removed with their film")
}

func TestRepository_FindByIDMissing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := film.NewRepository(getTestDB(t), getTestLogger())

	found, err := repo.FindByID(context.Background(), -1, true, true)
	require.NoError(t, err)
	assert.Nil(t, found)
}
