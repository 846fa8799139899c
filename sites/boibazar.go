package sites

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/abdullahNavin/bookHuntBD-server/config"
	"github.com/abdullahNavin/bookHuntBD-server/models"
	"github.com/abdullahNavin/bookHuntBD-server/parser"
)

const (
	boiBazarSite       = "BoiBazar"
	boiBazarSearchPath = "/api/product/all-search/products/"
)

// BoiBazar queries the mobile site's JSON search API. The response is a
// top-level array of products with nested author data and numeric prices.
type BoiBazar struct {
	http    *resty.Client
	siteURL string
	metrics *Metrics
}

// NewBoiBazar builds the extractor from cfg.
func NewBoiBazar(cfg *config.Config, m *Metrics) *BoiBazar {
	client := resty.New().
		SetBaseURL(cfg.BoiBazarAPIURL).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)

	return &BoiBazar{
		http:    client,
		siteURL: cfg.BoiBazarSiteURL,
		metrics: m,
	}
}

// Site returns the source identifier.
func (b *BoiBazar) Site() string { return boiBazarSite }

// Client exposes the underlying HTTP client so tests can swap its transport.
func (b *BoiBazar) Client() *resty.Client { return b.http }

type boiBazarProduct struct {
	Name      string `json:"name"`
	AuthorObj struct {
		Name string `json:"name"`
	} `json:"authorObj"`
	Price         json.Number `json:"price"`
	PreviousPrice json.Number `json:"previous_price"`
	Image         string      `json:"image"`
	ClickURL      string      `json:"click_url"`
	SeoURL        string      `json:"seo_url"`
}

// Search implements Extractor. It never fails; any upstream error is logged
// and degrades to an empty slice.
func (b *BoiBazar) Search(ctx context.Context, query string) []models.Listing {
	b.metrics.IncSearch(boiBazarSite)
	start := time.Now()
	defer func() { b.metrics.ObserveSearch(boiBazarSite, time.Since(start)) }()

	resp, err := b.http.R().
		SetContext(ctx).
		SetQueryParam("term", query).
		Get(boiBazarSearchPath)
	if err != nil {
		b.fail(fmt.Errorf("search request: %w", err))
		return nil
	}
	if resp.IsError() {
		b.fail(fmt.Errorf("search request: status %s", resp.Status()))
		return nil
	}

	var products []boiBazarProduct
	if err := json.Unmarshal(resp.Body(), &products); err != nil {
		b.fail(fmt.Errorf("decode search response: %w", err))
		return nil
	}

	listings := make([]models.Listing, 0, len(products))
	for _, p := range products {
		listing := models.Listing{
			Site:      boiBazarSite,
			Title:     parser.Fallback(p.Name),
			Author:    parser.Fallback(p.AuthorObj.Name),
			Publisher: parser.Unknown,
			Price:     parser.NoPrice,
			Discount:  strPtr("0%"),
			Link:      fmt.Sprintf("%s/%s/%s", b.siteURL, p.ClickURL, p.SeoURL),
		}

		priceText, priceValue, hasPrice := numeric(p.Price)
		if hasPrice {
			listing.Price = parser.FormatPrice(priceText)
		}
		if prevText, prevValue, hasPrev := numeric(p.PreviousPrice); hasPrev {
			listing.OldPrice = strPtr(parser.FormatPrice(prevText))
			if hasPrice {
				listing.Discount = strPtr(parser.PercentString(parser.DiscountPercent(prevValue, priceValue)))
			}
		}
		if p.Image != "" {
			listing.Image = b.siteURL + p.Image
		}

		listings = append(listings, listing)
	}

	b.metrics.AddListings(boiBazarSite, len(listings))
	return listings
}

func (b *BoiBazar) fail(err error) {
	b.metrics.IncError(boiBazarSite)
	slog.Error("extractor error",
		slog.String("site", boiBazarSite),
		slog.Any("error", err),
	)
}
