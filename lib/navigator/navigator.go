package navigator

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrElementNotFound = errors.New("expected element never appeared")
	ErrBadStatus       = errors.New("unexpected response status")
	ErrPageNotFound    = errors.New("page not found")
)

// NavigationError is returned when a page could not be loaded or the
// element waited for never showed up within the wait budget.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate %s: %s", e.URL, e.Err.Error())
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// Navigator hands out queryable documents. A single Navigator is a session
// meant to be reused for a whole run and closed once at the end.
type Navigator interface {
	// Navigate loads `url` and returns its document as soon as an element
	// matching the `waitFor` selector is present.
	Navigate(ctx context.Context, url string, waitFor string) (*goquery.Document, error)
	Close() error
}
