package film

import (
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/dahlia/pkg/criteria"
	"github.com/Ramsey-B/dahlia/pkg/database"
)

var filmColumns = []string{
	"f.id", "f.version", "f.title", "f.genre", "f.rating",
	"f.duration", "f.release_year", "f.director_id",
	"f.created_at", "f.updated_at",
}

var directorColumns = []string{
	"d.version AS director_version",
	"d.first_name AS director_first_name",
	"d.last_name AS director_last_name",
	"d.birth_date AS director_birth_date",
}

// BuildIDQuery composes the lookup query for a single film identifier,
// optionally joining the director relation.
func BuildIDQuery(id int64, withDirector bool) *database.SelectBuilder {
	sb := newFilmSelect(withDirector)
	sb.Where(sb.Equal("f.id", id))
	return sb
}

// BuildSearchQuery composes the criteria search query. A nil or empty
// criteria value selects every film. The title criterion is a
// case-insensitive substring match, everything else is an equality
// conjunction.
func BuildSearchQuery(c *criteria.Criteria) *database.SelectBuilder {
	withDirector := c != nil && c.WithDirector
	sb := newFilmSelect(withDirector)

	if c.IsEmpty() {
		return sb
	}

	var conds []string
	if c.Title != nil {
		conds = append(conds, sb.ILike("f.title", "%"+*c.Title+"%"))
	}
	if c.Genre != nil {
		conds = append(conds, sb.Equal("f.genre", string(*c.Genre)))
	}
	if c.Rating != nil {
		conds = append(conds, sb.Equal("f.rating", *c.Rating))
	}
	if c.Duration != nil {
		conds = append(conds, sb.Equal("f.duration", *c.Duration))
	}
	if c.ReleaseYear != nil {
		conds = append(conds, sb.Equal("f.release_year", *c.ReleaseYear))
	}
	if len(conds) > 0 {
		sb.Where(conds...)
	}

	return sb
}

// BuildActorQuery composes the actor load for a set of film identifiers,
// joined through film_actors.
func BuildActorQuery(filmIDs []int64) *database.SelectBuilder {
	sb := database.NewSelectBuilder()
	sb.Select(
		"a.id", "a.version", "a.first_name", "a.last_name",
		"a.birth_date", "a.height", "a.social_media", "fa.film_id",
	)
	sb.From(actorsTable + " a")
	sb.JoinWithOption(sqlbuilder.InnerJoin, filmActorsTable+" fa", "fa.actor_id = a.id")

	ids := make([]interface{}, len(filmIDs))
	for i, id := range filmIDs {
		ids[i] = id
	}
	sb.Where(sb.In("fa.film_id", ids...))
	sb.OrderBy("fa.film_id", "a.id")

	return sb
}

func newFilmSelect(withDirector bool) *database.SelectBuilder {
	sb := database.NewSelectBuilder()

	cols := filmColumns
	if withDirector {
		cols = append(append([]string{}, filmColumns...), directorColumns...)
	}
	sb.Select(cols...)
	sb.From(filmsTable + " f")

	if withDirector {
		sb.JoinWithOption(sqlbuilder.LeftJoin, directorsTable+" d", "d.id = f.director_id")
	}

	sb.OrderBy("f.id")
	return sb
}
