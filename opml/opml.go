// Package opml reads OPML subscription lists so the import command can pull
// many feeds at once.
package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// OPML represents the root OPML structure.
type OPML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    Head     `xml:"head"`
	Body    Body     `xml:"body"`
}

type Head struct {
	Title string `xml:"title,omitempty"`
}

type Body struct {
	Outlines []Outline `xml:"outline"`
}

// Outline represents a feed or a folder of feeds.
type Outline struct {
	Text     string    `xml:"text,attr,omitempty"`
	Title    string    `xml:"title,attr,omitempty"`
	Type     string    `xml:"type,attr,omitempty"`
	XMLUrl   string    `xml:"xmlUrl,attr,omitempty"`
	Category string    `xml:"category,attr,omitempty"`
	Outlines []Outline `xml:"outline,omitempty"`
}

// Source is one feed to import and where its articles should be filed.
// CategoryID and SubcategoryID are empty when the list does not say.
type Source struct {
	URL           string
	Title         string
	CategoryID    string
	SubcategoryID string
}

// Parse reads an OPML document and returns its feeds in document order.
func Parse(r io.Reader) ([]Source, error) {
	var doc OPML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse OPML: %w", err)
	}
	return extractSources(doc.Body.Outlines, ""), nil
}

// extractSources walks nested outlines. A folder's text is the category of
// the feeds inside it unless a feed carries its own category attribute.
func extractSources(outlines []Outline, parentCategory string) []Source {
	var sources []Source

	for _, o := range outlines {
		if o.XMLUrl != "" {
			category := o.Category
			if category == "" {
				category = parentCategory
			}
			src := Source{URL: o.XMLUrl, Title: o.Title}
			if src.Title == "" {
				src.Title = o.Text
			}
			src.CategoryID, src.SubcategoryID = SplitCategory(category)
			sources = append(sources, src)
		}

		if len(o.Outlines) > 0 {
			childCategory := o.Text
			if childCategory == "" {
				childCategory = parentCategory
			}
			sources = append(sources, extractSources(o.Outlines, childCategory)...)
		}
	}

	return sources
}

// SplitCategory maps an OPML category such as "/Tech/web-dev" to catalog ids.
// Only the first entry of a comma-separated list is used; ids are lowercased.
func SplitCategory(category string) (categoryID, subcategoryID string) {
	first, _, _ := strings.Cut(category, ",")
	parts := strings.Split(strings.Trim(strings.TrimSpace(first), "/"), "/")

	categoryID = strings.ToLower(strings.TrimSpace(parts[0]))
	if len(parts) > 1 {
		subcategoryID = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	return categoryID, subcategoryID
}
