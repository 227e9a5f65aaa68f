// Package enrich fetches a page and extracts the title and description
// used to fill in new bookmarks.
package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikbrunner/bkmr/internal/model"
	"golang.org/x/net/html"
)

// maxBodyBytes bounds how much of a page is read.
const maxBodyBytes = 2 << 20

// Metadata is what a page says about itself.
type Metadata struct {
	Title       string
	Description string
}

// Fetcher retrieves page metadata over HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a Fetcher with the given request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Follow redirects but limit to 10
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent: "bkmr",
	}
}

// Fetch downloads rawURL and extracts its metadata.
// Only http and https urls are fetched.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Metadata, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return Metadata{}, fmt.Errorf("not a web url %q: %w", rawURL, model.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Metadata{}, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Metadata{}, fmt.Errorf("fetch %s: %s", rawURL, resp.Status)
	}

	return ParseMetadata(io.LimitReader(resp.Body, maxBodyBytes))
}

// ParseMetadata extracts the <title> and the description meta tag of an
// HTML document. og:title and og:description are used when the plain
// forms are missing.
func ParseMetadata(r io.Reader) (Metadata, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Metadata{}, err
	}

	var title, ogTitle, description, ogDescription string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "title":
				if title == "" {
					title = textContent(n)
				}
				return
			case "meta":
				content := strings.TrimSpace(attr(n, "content"))
				if strings.EqualFold(attr(n, "name"), "description") {
					description = content
				}
				switch strings.ToLower(attr(n, "property")) {
				case "og:title":
					ogTitle = content
				case "og:description":
					ogDescription = content
				}
			case "body":
				// Metadata lives in <head>; skip the rest of the page.
				if title != "" {
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	meta := Metadata{Title: title, Description: description}
	if meta.Title == "" {
		meta.Title = ogTitle
	}
	if meta.Description == "" {
		meta.Description = ogDescription
	}
	return meta, nil
}

// textContent returns the whitespace-collapsed text of a node.
func textContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(text.String()), " ")
}

// attr returns the value of an attribute, case-insensitive.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
