package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/bkmr/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bkmr-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bkmr-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports bookmarks to Netscape bookmark HTML format.
// Tags go into the TAGS attribute, descriptions into a <DD> line.
func ExportHTML(bookmarks []model.Bookmark) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, bookmark := range bookmarks {
		writeBookmark(&b, bookmark)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

func writeBookmark(b *strings.Builder, bookmark model.Bookmark) {
	const prefix = "    "

	title := bookmark.Title
	if title == "" {
		title = bookmark.URL
	}

	fmt.Fprintf(b, "%s<DT><A HREF=\"%s\"", prefix, html.EscapeString(bookmark.URL))
	if !bookmark.LastUpdate.IsZero() {
		timestamp := bookmark.LastUpdate.Unix()
		fmt.Fprintf(b, " ADD_DATE=\"%d\" LAST_MODIFIED=\"%d\"", timestamp, timestamp)
	}
	if !bookmark.Tags.Empty() {
		fmt.Fprintf(b, " TAGS=\"%s\"", html.EscapeString(strings.Join(bookmark.Tags, model.TagDelimiter)))
	}
	fmt.Fprintf(b, ">%s</A>\n", html.EscapeString(title))

	if bookmark.Description != "" {
		fmt.Fprintf(b, "%s<DD>%s\n", prefix, html.EscapeString(bookmark.Description))
	}
}
