// Package sites contains one extractor per external bookstore. Every extractor
// turns a search query into zero or more normalized listings and cannot fail:
// network errors, non-2xx statuses, and unexpected payload shapes all degrade
// to an empty result, logged with the extractor identity. One broken source
// must never break the aggregate response.
package sites

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/abdullahNavin/bookHuntBD-server/config"
	"github.com/abdullahNavin/bookHuntBD-server/models"
)

// Extractor is the contract every site implementation satisfies.
type Extractor interface {
	// Site returns the fixed source identifier stamped on every listing.
	Site() string
	// Search returns the normalized listings for query. It never fails; any
	// upstream error degrades to an empty slice.
	Search(ctx context.Context, query string) []models.Listing
}

// All returns every extractor in registration order. The aggregate response
// concatenates per-site results in exactly this order.
func All(cfg *config.Config, m *Metrics) []Extractor {
	return []Extractor{
		NewBookShoper(cfg, m),
		NewDheeBooks(cfg, m),
		NewBoiBazar(cfg, m),
		NewHarekRokom(cfg, m),
	}
}

// numeric unwraps a JSON number into its source text and float value. ok is
// false for absent, malformed, or zero values, matching the upstream sites'
// treatment of zero prices as "no price".
func numeric(n json.Number) (text string, value float64, ok bool) {
	if n == "" {
		return "", 0, false
	}
	f, err := n.Float64()
	if err != nil || f == 0 {
		return "", 0, false
	}
	return n.String(), f, true
}

// joinURL resolves a path fragment against a site base. Fragments that are
// already absolute pass through; an empty fragment yields the bare base,
// which downstream code treats as a placeholder.
func joinURL(base, fragment string) string {
	if strings.HasPrefix(fragment, "http") {
		return fragment
	}
	return base + fragment
}

func strPtr(s string) *string {
	return &s
}
