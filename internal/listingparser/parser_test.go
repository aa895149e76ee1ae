package listingparser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestParseListingOpenGraph(t *testing.T) {
	html := `<html><head>
		<title>Fallback Title</title>
		<meta property="og:title" content="Riverside Flat, 2BR">
		<meta property="og:image" content="https://cdn.example.com/flat.jpg">
		<meta property="og:description" content=" Bright flat near the river. ">
	</head><body></body></html>`

	listing := ParseListing(docFromHTML(t, html), "https://listings.example.com/123")

	if listing.Title != "Riverside Flat, 2BR" {
		t.Errorf("title = %q", listing.Title)
	}
	if listing.ImageURL != "https://cdn.example.com/flat.jpg" {
		t.Errorf("image = %q", listing.ImageURL)
	}
	if listing.Description != "Bright flat near the river." {
		t.Errorf("description = %q", listing.Description)
	}
	if listing.SourceURL != "https://listings.example.com/123" {
		t.Errorf("source = %q", listing.SourceURL)
	}
}

func TestParseListingFallbacks(t *testing.T) {
	html := `<html><head>
		<title>  Harbor House - For Sale  </title>
		<meta name="twitter:image" content="/img/harbor.png">
		<meta name="description" content="Classic harbor house.">
	</head><body></body></html>`

	listing := ParseListing(docFromHTML(t, html), "https://listings.example.com/h/45")

	if listing.Title != "Harbor House - For Sale" {
		t.Errorf("title = %q", listing.Title)
	}
	if listing.ImageURL != "https://listings.example.com/img/harbor.png" {
		t.Errorf("image = %q, want resolved absolute url", listing.ImageURL)
	}
	if listing.Description != "Classic harbor house." {
		t.Errorf("description = %q", listing.Description)
	}
}

func TestParseListingEmptyDocument(t *testing.T) {
	listing := ParseListing(docFromHTML(t, "<html><head></head><body></body></html>"), "https://example.com")

	if listing.Title != "" {
		t.Errorf("title = %q, want empty", listing.Title)
	}
	if listing.ImageURL != "" {
		t.Errorf("image = %q, want empty", listing.ImageURL)
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		ref      string
		expected string
	}{
		{"absolute stays", "https://a.com/x", "https://b.com/i.jpg", "https://b.com/i.jpg"},
		{"root relative", "https://a.com/x/y", "/img/i.jpg", "https://a.com/img/i.jpg"},
		{"path relative", "https://a.com/x/y", "i.jpg", "https://a.com/x/i.jpg"},
		{"empty ref", "https://a.com", "", ""},
		{"bad base", "://bad", "/i.jpg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveURL(tt.base, tt.ref)
			if got != tt.expected {
				t.Errorf("resolveURL(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.expected)
			}
		})
	}
}
