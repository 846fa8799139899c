// Package models defines the normalized data structures shared by all extractors.
package models

// Listing represents one book offer found on one external site. Site and Title
// are always set; textual fields degrade to documented fallback markers rather
// than being omitted. OldPrice and Discount stay nil when the source offers
// neither and no enrichment pass filled them in.
type Listing struct {
	Site        string  `json:"site"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Publisher   string  `json:"publisher"`
	Price       string  `json:"price"`
	OldPrice    *string `json:"oldPrice"`
	Discount    *string `json:"discount"`
	Link        string  `json:"link"`
	Image       string  `json:"image"`
	StockStatus string  `json:"stockStatus,omitempty"`
}
