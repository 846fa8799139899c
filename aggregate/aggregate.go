// Package aggregate fans a search query out across every registered site
// extractor and flattens their results into one list.
package aggregate

import (
	"context"
	"fmt"
	"sync"

	"github.com/abdullahNavin/bookHuntBD-server/models"
	"github.com/abdullahNavin/bookHuntBD-server/sites"
)

// Aggregator runs a fixed set of extractors for each query.
type Aggregator struct {
	extractors []sites.Extractor
}

// New builds an aggregator over extractors. Output keeps the given order.
func New(extractors []sites.Extractor) *Aggregator {
	return &Aggregator{extractors: extractors}
}

// Search runs every extractor concurrently, waits for all of them, and
// concatenates their listings in registration order. Extractors swallow their
// own failures, so the only error here is a recovered panic from an extractor
// that broke its contract; that maps to the façade's generic 500.
func (a *Aggregator) Search(ctx context.Context, query string) ([]models.Listing, error) {
	results := make([][]models.Listing, len(a.extractors))
	failures := make([]error, len(a.extractors))

	var wg sync.WaitGroup
	for i, extractor := range a.extractors {
		wg.Add(1)
		go func(i int, extractor sites.Extractor) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failures[i] = fmt.Errorf("extractor %s panicked: %v", extractor.Site(), r)
				}
			}()
			results[i] = extractor.Search(ctx, query)
		}(i, extractor)
	}
	wg.Wait()

	for _, err := range failures {
		if err != nil {
			return nil, err
		}
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	flat := make([]models.Listing, 0, total)
	for _, r := range results {
		flat = append(flat, r...)
	}
	return flat, nil
}
