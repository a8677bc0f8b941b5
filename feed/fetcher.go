// Package feed turns RSS/Atom items into new articles for the import command.
package feed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/TzzJokerzzT/article-manager/model"
)

// unknownAuthor is used when neither the item nor the feed names one.
const unknownAuthor = "unknown"

// Target is where imported articles are filed.
type Target struct {
	CategoryID    string
	SubcategoryID string
}

// Fetcher handles fetching and parsing RSS/Atom feeds.
type Fetcher struct {
	parser *gofeed.Parser
}

// NewFetcher creates a new Fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{
		parser: gofeed.NewParser(),
	}
}

// Load reads source as a URL when it has an http or https scheme and as a
// local file otherwise.
func (f *Fetcher) Load(ctx context.Context, source string, t Target) ([]model.ArticleInput, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return f.Fetch(ctx, source, t)
	}
	return f.ReadFile(source, t)
}

// Fetch retrieves and converts a feed from a URL.
func (f *Fetcher) Fetch(ctx context.Context, url string, t Target) ([]model.ArticleInput, error) {
	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed from %s: %w", url, err)
	}
	return convert(parsed, t), nil
}

// ReadFile parses a feed stored on disk.
func (f *Fetcher) ReadFile(path string, t Target) ([]model.ArticleInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer file.Close()

	parsed, err := f.parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", path, err)
	}
	return convert(parsed, t), nil
}

// Parse parses feed content from a string.
func (f *Fetcher) Parse(content string, t Target) ([]model.ArticleInput, error) {
	if content == "" {
		return nil, fmt.Errorf("feed content is empty")
	}

	parsed, err := f.parser.ParseString(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return convert(parsed, t), nil
}

// convert skips items that have neither a title nor a link.
func convert(gf *gofeed.Feed, t Target) []model.ArticleInput {
	inputs := make([]model.ArticleInput, 0, len(gf.Items))
	for _, item := range gf.Items {
		in, ok := convertItem(item, gf.Title, t)
		if ok {
			inputs = append(inputs, in)
		}
	}
	return inputs
}

func convertItem(item *gofeed.Item, feedTitle string, t Target) (model.ArticleInput, bool) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = strings.TrimSpace(item.Link)
	}
	if title == "" {
		return model.ArticleInput{}, false
	}

	// Prefer full content over description.
	content := strings.TrimSpace(item.Content)
	summary := ""
	if content == "" {
		content = strings.TrimSpace(item.Description)
	} else {
		summary = strings.TrimSpace(item.Description)
	}
	if content == "" {
		content = title
	}

	tags := normalizeTags(item.Categories)
	if len(tags) == 0 {
		tags = SuggestTags(title + " " + content)
	}

	return model.ArticleInput{
		Title:         truncate(title, model.MaxTitleLength),
		Content:       content,
		Summary:       summary,
		Author:        authorOf(item, feedTitle),
		CategoryID:    t.CategoryID,
		SubcategoryID: t.SubcategoryID,
		Tags:          tags,
	}, true
}

func authorOf(item *gofeed.Item, feedTitle string) string {
	if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
		return strings.TrimSpace(item.Author.Name)
	}
	for _, p := range item.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			return strings.TrimSpace(p.Name)
		}
	}
	if strings.TrimSpace(feedTitle) != "" {
		return strings.TrimSpace(feedTitle)
	}
	return unknownAuthor
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func normalizeTags(raw []string) []string {
	tags := []string{}
	seen := make(map[string]bool)
	for _, c := range raw {
		tag := strings.ToLower(strings.TrimSpace(c))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// tagKeywords maps lowercase substrings to the tag they suggest.
var tagKeywords = []struct {
	keyword string
	tag     string
}{
	{"golang", "golang"},
	{"go ", "golang"},
	{"rust", "rust"},
	{"python", "python"},
	{"javascript", "javascript"},
	{"typescript", "typescript"},
	{"react", "react"},
	{"machine learning", "ml"},
	{"database", "database"},
	{"startup", "startup"},
}

// SuggestTags derives tags from free text for items that carry no categories.
// The result is in keyword order and has no duplicates.
func SuggestTags(text string) []string {
	text = strings.ToLower(text)

	tags := []string{}
	seen := make(map[string]bool)
	for _, kw := range tagKeywords {
		if strings.Contains(text, kw.keyword) && !seen[kw.tag] {
			seen[kw.tag] = true
			tags = append(tags, kw.tag)
		}
	}
	return tags
}
