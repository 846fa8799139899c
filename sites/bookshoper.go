package sites

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/abdullahNavin/bookHuntBD-server/config"
	"github.com/abdullahNavin/bookHuntBD-server/models"
	"github.com/abdullahNavin/bookHuntBD-server/parser"
)

const (
	bookShoperSite       = "BookShoper"
	bookShoperSearchPath = "/book-search"
)

// BookShoper scrapes the store's HTML search results page. Each result sits in
// a ".book-card" node; the selectors below track the site's current markup and
// are expected to drift with it.
type BookShoper struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	transport http.RoundTripper
	metrics   *Metrics
}

// NewBookShoper builds the extractor from cfg.
func NewBookShoper(cfg *config.Config, m *Metrics) *BookShoper {
	return &BookShoper{
		baseURL:   cfg.BookShoperBaseURL,
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		metrics:   m,
	}
}

// Site returns the source identifier.
func (s *BookShoper) Site() string { return bookShoperSite }

// SetTransport routes collector traffic through rt. Tests use this to serve
// canned pages.
func (s *BookShoper) SetTransport(rt http.RoundTripper) { s.transport = rt }

// Search implements Extractor. It never fails; fetch and parse problems are
// logged and degrade to an empty slice.
func (s *BookShoper) Search(ctx context.Context, query string) []models.Listing {
	s.metrics.IncSearch(bookShoperSite)
	start := time.Now()
	defer func() { s.metrics.ObserveSearch(bookShoperSite, time.Since(start)) }()

	if ctx.Err() != nil {
		return nil
	}

	c := colly.NewCollector(colly.UserAgent(s.userAgent))
	c.IgnoreRobotsTxt = true
	c.SetRequestTimeout(s.timeout)
	if s.transport != nil {
		c.WithTransport(s.transport)
	}

	var listings []models.Listing
	c.OnHTML(".book-card", func(e *colly.HTMLElement) {
		listings = append(listings, extractBookShoperCard(e))
	})

	// The collector runs synchronously, so Visit surfaces transport and HTTP
	// status errors directly.
	searchURL := s.baseURL + bookShoperSearchPath + "?q=" + url.QueryEscape(query)
	if err := c.Visit(searchURL); err != nil {
		s.fail(fmt.Errorf("fetch search page %s: %w", searchURL, err))
		return nil
	}

	s.metrics.AddListings(bookShoperSite, len(listings))
	return listings
}

func extractBookShoperCard(e *colly.HTMLElement) models.Listing {
	discount := parser.Digits(e.ChildText(".discount-badge b"))
	if discount == "" {
		discount = "0"
	}

	listing := models.Listing{
		Site:      bookShoperSite,
		Title:     parser.Fallback(e.ChildText(".book_name")),
		Author:    parser.Fallback(e.ChildText(".text-success")),
		Publisher: parser.Fallback(e.ChildText(".text-secondary small")),
		Price:     parser.FormatPrice(parser.Digits(e.DOM.Find("b").First().Text())),
		Discount:  strPtr(discount + "%"),
	}

	if old := parser.Digits(e.DOM.Find("del").First().Text()); old != "" {
		listing.OldPrice = strPtr(parser.FormatPrice(old))
	}
	if href, ok := e.DOM.Find("a.a").First().Attr("href"); ok && href != "" {
		listing.Link = e.Request.AbsoluteURL(href)
	}
	if src, ok := e.DOM.Find("img").First().Attr("src"); ok && src != "" {
		listing.Image = e.Request.AbsoluteURL(src)
	}

	return listing
}

func (s *BookShoper) fail(err error) {
	s.metrics.IncError(bookShoperSite)
	slog.Error("extractor error",
		slog.String("site", bookShoperSite),
		slog.Any("error", err),
	)
}
