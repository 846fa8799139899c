package sites

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/gocolly/colly/v2"

	"github.com/abdullahNavin/bookHuntBD-server/config"
	"github.com/abdullahNavin/bookHuntBD-server/models"
	"github.com/abdullahNavin/bookHuntBD-server/parser"
)

const (
	harekRokomSite       = "HarekRokom"
	harekRokomSearchPath = "/autosearch/product/"
)

// HarekRokom scrapes the store's autosearch page and then enriches every
// listing with one fetch of its own detail page, because the search results
// do not reliably expose discount information. Enrichment runs concurrently
// across the listings of one query with no cap; result sets are small, so an
// unbounded batch is tolerable for now.
type HarekRokom struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	transport http.RoundTripper
	detail    *resty.Client
	metrics   *Metrics
}

// NewHarekRokom builds the extractor from cfg.
func NewHarekRokom(cfg *config.Config, m *Metrics) *HarekRokom {
	detail := resty.New().
		SetHeader("User-Agent", cfg.UserAgent).
		SetTimeout(cfg.Timeout)

	return &HarekRokom{
		baseURL:   cfg.HarekRokomBaseURL,
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		detail:    detail,
		metrics:   m,
	}
}

// Site returns the source identifier.
func (h *HarekRokom) Site() string { return harekRokomSite }

// SetTransport routes search-page collector traffic through rt. Tests use
// this to serve canned pages.
func (h *HarekRokom) SetTransport(rt http.RoundTripper) { h.transport = rt }

// DetailClient exposes the detail-page HTTP client so tests can swap its
// transport.
func (h *HarekRokom) DetailClient() *resty.Client { return h.detail }

// Search implements Extractor. It never fails; fetch and parse problems are
// logged and degrade to an empty slice. Listings whose detail page cannot be
// fetched come back unenriched, with price from the search page and
// oldPrice/discount left null.
func (h *HarekRokom) Search(ctx context.Context, query string) []models.Listing {
	h.metrics.IncSearch(harekRokomSite)
	start := time.Now()
	defer func() { h.metrics.ObserveSearch(harekRokomSite, time.Since(start)) }()

	if ctx.Err() != nil {
		return nil
	}

	c := colly.NewCollector(colly.UserAgent(h.userAgent))
	c.IgnoreRobotsTxt = true
	c.SetRequestTimeout(h.timeout)
	if h.transport != nil {
		c.WithTransport(h.transport)
	}

	var listings []models.Listing
	c.OnHTML(".docname", func(e *colly.HTMLElement) {
		listings = append(listings, h.extractEntry(e))
	})

	searchURL := h.baseURL + harekRokomSearchPath + url.PathEscape(query)
	if err := c.Visit(searchURL); err != nil {
		h.fail(fmt.Errorf("fetch search page %s: %w", searchURL, err))
		return nil
	}

	h.enrichAll(ctx, listings)

	h.metrics.AddListings(harekRokomSite, len(listings))
	return listings
}

// extractEntry maps one search result node. The entry text combines
// "title - author - publisher", so author and publisher are assigned
// positionally when the separators are present.
func (h *HarekRokom) extractEntry(e *colly.HTMLElement) models.Listing {
	combined := strings.TrimSpace(e.ChildText("p"))
	author, publisher := parser.SplitTitleParts(combined)

	title := strings.TrimSpace(e.ChildText("p b"))
	if title == "" {
		title = combined
	}

	href, _ := e.DOM.Find("a").First().Attr("href")
	src, _ := e.DOM.Find("img").First().Attr("src")

	listing := models.Listing{
		Site:      harekRokomSite,
		Title:     parser.Fallback(title),
		Author:    author,
		Publisher: publisher,
		Price:     parser.FormatPrice(parser.Digits(e.ChildText("span"))),
		Link:      joinURL(h.baseURL, href),
	}
	if src != "" {
		listing.Image = joinURL(h.baseURL, src)
	}
	return listing
}

// enrichAll fans one detail-page fetch out per listing. Listings are updated
// in place through their index, so completion order never reorders the slice.
func (h *HarekRokom) enrichAll(ctx context.Context, listings []models.Listing) {
	var wg sync.WaitGroup
	for i := range listings {
		if h.skipEnrichment(listings[i].Link) {
			continue
		}
		wg.Add(1)
		go func(l *models.Listing) {
			defer wg.Done()
			h.enrich(ctx, l)
		}(&listings[i])
	}
	wg.Wait()
}

// skipEnrichment reports whether link is missing or the bare-host placeholder
// produced by an empty search-page href. Skipping is not an error.
func (h *HarekRokom) skipEnrichment(link string) bool {
	return link == "" || strings.TrimSuffix(link, "/") == strings.TrimSuffix(h.baseURL, "/")
}

// enrich fetches one listing's detail page for authoritative prices. On any
// failure the listing stays as scraped from the search page.
func (h *HarekRokom) enrich(ctx context.Context, l *models.Listing) {
	resp, err := h.detail.R().SetContext(ctx).Get(l.Link)
	if err != nil {
		h.debugEnrich(l.Link, fmt.Errorf("fetch detail page: %w", err))
		return
	}
	if resp.IsError() {
		h.debugEnrich(l.Link, fmt.Errorf("fetch detail page: status %s", resp.Status()))
		return
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		h.debugEnrich(l.Link, fmt.Errorf("parse detail page: %w", err))
		return
	}

	newPrice := parser.Digits(doc.Find(".pro-details-price .new-price").First().Text())
	oldPrice := parser.Digits(doc.Find(".pro-details-price .old-price").First().Text())
	offer := strings.TrimSpace(doc.Find(".pro-details-price .offer-price").First().Text())

	discount := resolveDiscount(offer, oldPrice, newPrice)

	// The detail page is authoritative for prices.
	if newPrice != "" {
		l.Price = parser.FormatPrice(newPrice)
	}
	if oldPrice != "" {
		l.OldPrice = strPtr(parser.FormatPrice(oldPrice))
	}
	if discount != "" {
		l.Discount = strPtr(discount)
	}
}

// resolveDiscount prefers an explicit percentage embedded in the offer text,
// then falls back to computing from the two prices. An empty result leaves
// the listing's discount null.
func resolveDiscount(offer, oldPrice, newPrice string) string {
	if offer != "" {
		if percent, ok := parser.EmbeddedPercent(offer); ok {
			return percent
		}
		return offer
	}
	if oldPrice == "" || newPrice == "" {
		return ""
	}
	oldValue, errOld := strconv.ParseFloat(oldPrice, 64)
	newValue, errNew := strconv.ParseFloat(newPrice, 64)
	if errOld != nil || errNew != nil || oldValue <= 0 {
		return ""
	}
	return parser.PercentString(parser.DiscountPercent(oldValue, newValue))
}

func (h *HarekRokom) fail(err error) {
	h.metrics.IncError(harekRokomSite)
	slog.Error("extractor error",
		slog.String("site", harekRokomSite),
		slog.Any("error", err),
	)
}

func (h *HarekRokom) debugEnrich(link string, err error) {
	slog.Debug("enrichment skipped",
		slog.String("site", harekRokomSite),
		slog.String("link", link),
		slog.Any("error", err),
	)
}
