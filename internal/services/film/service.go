// Package film implements the catalog record lifecycle: criteria search,
// duplicate-checked create, version-guarded update and cascading delete.
package film

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"

	"github.com/Ramsey-B/dahlia/pkg/criteria"
	"github.com/Ramsey-B/dahlia/pkg/events"
	"github.com/Ramsey-B/dahlia/pkg/models"
)

type Repository interface {
	FindByID(ctx context.Context, id int64, withActors, withDirector bool) (*models.Film, error)
	Search(ctx context.Context, c *criteria.Criteria) ([]models.Film, error)
	Insert(ctx context.Context, film *models.Film) (int64, error)
	Update(ctx context.Context, film *models.Film, newActors []models.Actor) (int, error)
	Delete(ctx context.Context, film *models.Film) (bool, error)
}

type Service struct {
	repo     Repository
	emitter  *events.Emitter
	validate *validator.Validate
	logger   ectologger.Logger
}

// NewService creates a new film service
func NewService(repo Repository, emitter *events.Emitter, logger ectologger.Logger) *Service {
	return &Service{
		repo:     repo,
		emitter:  emitter,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}
