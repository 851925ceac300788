package resolve

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// NotFoundError reports that a specifier could not be resolved to an
// on-disk file. Collectors treat it as non-fatal and drop the offending
// import; everything else propagating a resolve failure should not.
type NotFoundError struct {
	Specifier string
	From      string
}

func (e *NotFoundError) Error() string {
	return "resolve: " + e.Specifier + " (from " + e.From + "): not found"
}

func newNotFound(specifier, from string) error {
	return errors.WithStack(&NotFoundError{Specifier: specifier, From: from})
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return stderrors.As(err, &target)
}
