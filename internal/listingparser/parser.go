package listingparser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Listing is the metadata scraped from a property listing page.
type Listing struct {
	SourceURL   string    `json:"source_url"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"image_url,omitempty"`
	Description string    `json:"description,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

type Parser struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewParser(timeoutMS, maxRetries int, log *zap.Logger) *Parser {
	return &Parser{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		maxRetries: maxRetries,
	}
}

func (p *Parser) FetchAndParse(ctx context.Context, pageURL string) (*Listing, error) {
	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, pageURL)
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		return nil, lastErr
	}

	listing := ParseListing(doc, pageURL)
	if listing.Title == "" {
		return nil, fmt.Errorf("no title found at %s", pageURL)
	}

	p.log.Debug("listing parsed",
		zap.String("url", pageURL),
		zap.String("title", listing.Title),
	)

	return listing, nil
}

// ParseListing extracts listing metadata from a parsed document.
// OpenGraph tags first, conventional fallbacks after.
func ParseListing(doc *goquery.Document, pageURL string) *Listing {
	listing := &Listing{
		SourceURL: pageURL,
		FetchedAt: time.Now(),
	}

	listing.Title = metaContent(doc, `meta[property="og:title"]`)
	if listing.Title == "" {
		listing.Title = metaContent(doc, `meta[name="twitter:title"]`)
	}
	if listing.Title == "" {
		listing.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	image := metaContent(doc, `meta[property="og:image"]`)
	if image == "" {
		image = metaContent(doc, `meta[name="twitter:image"]`)
	}
	listing.ImageURL = resolveURL(pageURL, image)

	listing.Description = metaContent(doc, `meta[property="og:description"]`)
	if listing.Description == "" {
		listing.Description = metaContent(doc, `meta[name="description"]`)
	}

	return listing
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// resolveURL makes ref absolute against base. Empty or unparsable
// refs come back empty rather than half-resolved.
func resolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if refURL.IsAbs() {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(refURL).String()
}
