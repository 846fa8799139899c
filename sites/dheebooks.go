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
	dheeBooksSite       = "DheeBooks"
	dheeBooksSearchPath = "/search-books"
)

// DheeBooks queries the store's JSON search API. Results arrive wrapped in a
// "books" container; this is the only source that exposes stock status.
type DheeBooks struct {
	http    *resty.Client
	siteURL string
	metrics *Metrics
}

// NewDheeBooks builds the extractor from cfg.
func NewDheeBooks(cfg *config.Config, m *Metrics) *DheeBooks {
	client := resty.New().
		SetBaseURL(cfg.DheeBooksAPIURL).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)

	return &DheeBooks{
		http:    client,
		siteURL: cfg.DheeBooksSiteURL,
		metrics: m,
	}
}

// Site returns the source identifier.
func (d *DheeBooks) Site() string { return dheeBooksSite }

// Client exposes the underlying HTTP client so tests can swap its transport.
func (d *DheeBooks) Client() *resty.Client { return d.http }

type dheeBooksBook struct {
	Title          string      `json:"title"`
	Author         string      `json:"author"`
	Publication    string      `json:"publication"`
	RetailDiscount json.Number `json:"retailDiscount"`
	Price          json.Number `json:"price"`
	BookID         json.Number `json:"bookId"`
	EnglishTitle   string      `json:"englishTitle"`
	CoverImageURL  string      `json:"coverImageUrl"`
	StockStatus    string      `json:"stockStatus"`
}

type dheeBooksResponse struct {
	Books []dheeBooksBook `json:"books"`
}

// Search implements Extractor. It never fails; any upstream error is logged
// and degrades to an empty slice. A response without the "books" container
// counts as no results.
func (d *DheeBooks) Search(ctx context.Context, query string) []models.Listing {
	d.metrics.IncSearch(dheeBooksSite)
	start := time.Now()
	defer func() { d.metrics.ObserveSearch(dheeBooksSite, time.Since(start)) }()

	resp, err := d.http.R().
		SetContext(ctx).
		SetQueryParam("name", query).
		SetQueryParam("editPage", "false").
		Get(dheeBooksSearchPath)
	if err != nil {
		d.fail(fmt.Errorf("search request: %w", err))
		return nil
	}
	if resp.IsError() {
		d.fail(fmt.Errorf("search request: status %s", resp.Status()))
		return nil
	}

	var decoded dheeBooksResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		d.fail(fmt.Errorf("decode search response: %w", err))
		return nil
	}

	listings := make([]models.Listing, 0, len(decoded.Books))
	for _, book := range decoded.Books {
		listing := models.Listing{
			Site:        dheeBooksSite,
			Title:       parser.Fallback(book.Title),
			Author:      parser.Fallback(book.Author),
			Publisher:   parser.Fallback(book.Publication),
			Price:       parser.NoPrice,
			Discount:    strPtr("0%"),
			Link:        fmt.Sprintf("%s/book-details/%s/%s", d.siteURL, book.BookID.String(), book.EnglishTitle),
			Image:       book.CoverImageURL,
			StockStatus: parser.Fallback(book.StockStatus),
		}

		if priceText, _, ok := numeric(book.Price); ok {
			listing.Price = parser.FormatPrice(priceText)
		}
		if discountText, _, ok := numeric(book.RetailDiscount); ok {
			listing.Discount = strPtr(discountText + "%")
		}

		listings = append(listings, listing)
	}

	d.metrics.AddListings(dheeBooksSite, len(listings))
	return listings
}

func (d *DheeBooks) fail(err error) {
	d.metrics.IncError(dheeBooksSite)
	slog.Error("extractor error",
		slog.String("site", dheeBooksSite),
		slog.Any("error", err),
	)
}
