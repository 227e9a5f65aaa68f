package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/storage"
	"golang.org/x/net/html"
)

// ParseHTMLBookmarks parses Netscape bookmark HTML. The TAGS attribute and
// the names of all enclosing folders become tags; a <DD> following a
// bookmark becomes its description.
func ParseHTMLBookmarks(r io.Reader) ([]model.NewBookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var bookmarks []model.NewBookmark

	var folderStack []string  // enclosing folder names, outermost first
	var pendingFolder *string // folder waiting to be pushed on next DL
	lastBookmark := -1        // index of the bookmark a DD describes

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				if name := folderTag(getTextContent(n)); name != "" {
					pendingFolder = &name
				}
				lastBookmark = -1
				return // Don't recurse into H3

			case "a":
				href := strings.TrimSpace(getAttr(n, "href"))
				if href == "" {
					// Skip bookmarks without URL
					lastBookmark = -1
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href // fallback to URL as title
				}

				tags := model.ParseTags(getAttr(n, "tags")).Union(model.NewTagSet(folderStack...))
				bookmarks = append(bookmarks, model.NewBookmark{
					URL:   href,
					Title: title,
					Tags:  tags,
				})
				lastBookmark = len(bookmarks) - 1
				return // Don't recurse into A

			case "dd":
				if lastBookmark >= 0 {
					bookmarks[lastBookmark].Description = getOwnText(n)
					lastBookmark = -1
				}

			case "dl":
				// Definition list - marks folder contents
				pushedFolder := false
				if pendingFolder != nil {
					folderStack = append(folderStack, *pendingFolder)
					pendingFolder = nil
					pushedFolder = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushedFolder {
					folderStack = folderStack[:len(folderStack)-1]
				}
				lastBookmark = -1
				return // Don't recurse further, we handled children
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return bookmarks, nil
}

// Import inserts bookmarks into store in order, skipping urls that are
// already stored.
func Import(ctx context.Context, store storage.Store, bookmarks []model.NewBookmark) (added, skipped int, err error) {
	for _, nb := range bookmarks {
		if _, err := store.Insert(ctx, nb); err != nil {
			if errors.Is(err, model.ErrDuplicate) {
				skipped++
				continue
			}
			return added, skipped, fmt.Errorf("import %s: %w", nb.URL, err)
		}
		added++
	}
	return added, skipped, nil
}

// folderTag turns a folder name into a tag token: lowercase words joined by "-".
func folderTag(name string) string {
	name = strings.ReplaceAll(name, model.TagDelimiter, " ")
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
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
	return strings.TrimSpace(text.String())
}

// getOwnText returns the text of a node without nested lists.
func getOwnText(n *html.Node) string {
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && strings.EqualFold(c.Data, "dl") {
			break
		}
		if c.Type == html.TextNode {
			text.WriteString(c.Data)
		} else {
			text.WriteString(getTextContent(c))
		}
	}
	return strings.Join(strings.Fields(text.String()), " ")
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
