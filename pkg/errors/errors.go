// Package errors contains the typed business failures of the film write and
// read paths. These are expected, recoverable outcomes returned as values;
// only storage faults cross the service boundary as plain errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
)

// FilmExistsError reports a create that collides with a stored film matching
// the five identity fields (title, genre, rating, duration, release year).
type FilmExistsError struct {
	Title       string
	ReleaseYear int
	Duration    int
}

func (e *FilmExistsError) Error() string {
	return fmt.Sprintf("film '%s' (%d, %d min) already exists", e.Title, e.ReleaseYear, e.Duration)
}

func (e *FilmExistsError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusConflict, e.Error()).
		AddMetaValue("title", e.Title).
		AddMetaValue("release_year", strconv.Itoa(e.ReleaseYear)).
		AddMetaValue("duration", strconv.Itoa(e.Duration))
}

// FilmNotFoundError reports an identifier with no stored film.
type FilmNotFoundError struct {
	ID int64
}

func (e *FilmNotFoundError) Error() string {
	return fmt.Sprintf("film %d does not exist", e.ID)
}

func (e *FilmNotFoundError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusNotFound, e.Error()).AddMetaValue("id", strconv.FormatInt(e.ID, 10))
}

// VersionInvalidError reports a concurrency token that is not a well-formed
// quoted integer.
type VersionInvalidError struct {
	Version string
}

func (e *VersionInvalidError) Error() string {
	return fmt.Sprintf("version token %q is not a quoted integer", e.Version)
}

func (e *VersionInvalidError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusPreconditionFailed, e.Error()).AddMetaValue("version", e.Version)
}

// VersionOutdatedError reports a concurrency token older than the stored
// version. The caller must re-read and retry.
type VersionOutdatedError struct {
	ID      int64
	Version int
}

func (e *VersionOutdatedError) Error() string {
	return fmt.Sprintf("version %d of film %d is outdated", e.Version, e.ID)
}

func (e *VersionOutdatedError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusPreconditionFailed, e.Error()).
		AddMetaValue("id", strconv.FormatInt(e.ID, 10)).
		AddMetaValue("version", strconv.Itoa(e.Version))
}

func IsFilmExists(err error) bool {
	var target *FilmExistsError
	return errors.As(err, &target)
}

func IsFilmNotFound(err error) bool {
	var target *FilmNotFoundError
	return errors.As(err, &target)
}

func IsVersionInvalid(err error) bool {
	var target *VersionInvalidError
	return errors.As(err, &target)
}

func IsVersionOutdated(err error) bool {
	var target *VersionOutdatedError
	return errors.As(err, &target)
}
