package collector

import (
	"context"
	"errors"
)

// ErrUnknownItem is returned by a Source that holds no comps for a query.
var ErrUnknownItem = errors.New("no comps for query")

// Source supplies sold and active listing prices for a query.
type Source interface {
	FetchSold(ctx context.Context, query string) ([]float64, error)
	FetchActive(ctx context.Context, query string) ([]float64, error)
	Name() string
}
