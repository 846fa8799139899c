package sites

import (
	"context"
	"errors"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/abdullahNavin/bookHuntBD-server/config"
	"github.com/abdullahNavin/bookHuntBD-server/parser"
)

const dheeBooksSearchURL = "https://server.dheebooks.com/search-books"

func newDheeBooksForTest(t *testing.T) *DheeBooks {
	t.Helper()
	d := NewDheeBooks(config.DefaultConfig(), NewMetrics())
	httpmock.ActivateNonDefault(d.Client().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return d
}

func TestDheeBooksSearchMapsBooks(t *testing.T) {
	d := newDheeBooksForTest(t)

	body := `{
		"books": [
			{
				"title": "Feluda Somogro",
				"author": "Satyajit Ray",
				"publication": "Ananda Publishers",
				"retailDiscount": 25,
				"price": 1200,
				"bookId": 4821,
				"englishTitle": "feluda-somogro",
				"coverImageUrl": "https://cdn.dheebooks.com/covers/4821.jpg",
				"stockStatus": "In Stock"
			},
			{}
		]
	}`
	httpmock.RegisterResponder("GET", dheeBooksSearchURL,
		httpmock.NewStringResponder(200, body))

	listings := d.Search(context.Background(), "feluda")
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(listings))
	}

	first := listings[0]
	if first.Site != "DheeBooks" {
		t.Errorf("site = %q, want DheeBooks", first.Site)
	}
	if first.Title != "Feluda Somogro" || first.Author != "Satyajit Ray" || first.Publisher != "Ananda Publishers" {
		t.Errorf("unexpected identity fields: %+v", first)
	}
	if first.Price != "৳ 1200" {
		t.Errorf("price = %q, want %q", first.Price, "৳ 1200")
	}
	if first.Discount == nil || *first.Discount != "25%" {
		t.Errorf("discount = %v, want 25%%", first.Discount)
	}
	if first.Link != "https://www.dheebooks.com/book-details/4821/feluda-somogro" {
		t.Errorf("link = %q", first.Link)
	}
	if first.Image != "https://cdn.dheebooks.com/covers/4821.jpg" {
		t.Errorf("image = %q", first.Image)
	}
	if first.StockStatus != "In Stock" {
		t.Errorf("stockStatus = %q", first.StockStatus)
	}

	second := listings[1]
	if second.Title != parser.Unknown || second.Author != parser.Unknown || second.Publisher != parser.Unknown {
		t.Errorf("missing fields should default to Unknown: %+v", second)
	}
	if second.Price != parser.NoPrice {
		t.Errorf("price = %q, want %q", second.Price, parser.NoPrice)
	}
	if second.Discount == nil || *second.Discount != "0%" {
		t.Errorf("discount = %v, want 0%%", second.Discount)
	}
	if second.StockStatus != parser.Unknown {
		t.Errorf("stockStatus = %q, want %q", second.StockStatus, parser.Unknown)
	}
}

func TestDheeBooksSearchMissingContainer(t *testing.T) {
	d := newDheeBooksForTest(t)

	httpmock.RegisterResponder("GET", dheeBooksSearchURL,
		httpmock.NewStringResponder(200, `{"items": []}`))

	if listings := d.Search(context.Background(), "feluda"); len(listings) != 0 {
		t.Fatalf("listings = %d, want 0 when books container is missing", len(listings))
	}
}

func TestDheeBooksSearchMalformedContainer(t *testing.T) {
	d := newDheeBooksForTest(t)

	httpmock.RegisterResponder("GET", dheeBooksSearchURL,
		httpmock.NewStringResponder(200, `{"books": "nope"}`))

	if listings := d.Search(context.Background(), "feluda"); len(listings) != 0 {
		t.Fatalf("listings = %d, want 0 when books is not a list", len(listings))
	}
}

func TestDheeBooksSearchNetworkFailure(t *testing.T) {
	d := newDheeBooksForTest(t)

	httpmock.RegisterResponder("GET", dheeBooksSearchURL,
		httpmock.NewErrorResponder(errors.New("timeout")))

	if listings := d.Search(context.Background(), "feluda"); len(listings) != 0 {
		t.Fatalf("listings = %d, want 0 on network failure", len(listings))
	}
}
