package article

import (
	"fmt"
	"time"

	"github.com/TzzJokerzzT/article-manager/catalog"
	"github.com/TzzJokerzzT/article-manager/model"
)

// sampleCount is the number of articles generated for an empty install.
const sampleCount = 50

var (
	sampleTitles = []string{
		"Introduction to React Hooks",
		"Building Scalable APIs with Node.js",
		"Machine Learning Fundamentals",
		"Mobile App Development Best Practices",
		"The Future of Web Development",
		"Understanding TypeScript",
		"Database Design Patterns",
		"Cloud Computing Overview",
		"Cybersecurity Best Practices",
		"Artificial Intelligence Ethics",
	}

	sampleAuthors = []string{
		"John Doe",
		"Jane Smith",
		"Mike Johnson",
		"Sarah Wilson",
		"Alex Brown",
	}

	sampleTags = []string{"tech", "programming", "development"}
)

// sampleArticles builds the starter set, newest first, one day apart,
// cycling through the catalog's categories and their subcategories.
func sampleArticles(c *catalog.Catalog, now time.Time, newID func() string) []*model.Article {
	categories := c.Categories()
	if len(categories) == 0 {
		return nil
	}

	articles := make([]*model.Article, 0, sampleCount)
	for i := 0; i < sampleCount; i++ {
		category := categories[i%len(categories)]
		var subcategoryID string
		if subs := category.Subcategories; len(subs) > 0 {
			subcategoryID = subs[i%len(subs)].ID
		}

		created := now.Add(-time.Duration(i) * 24 * time.Hour)
		articles = append(articles, &model.Article{
			ID:            newID(),
			Title:         fmt.Sprintf("%s %d", sampleTitles[i%len(sampleTitles)], i+1),
			Content:       fmt.Sprintf("This is the full content for article %d. Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.", i+1),
			Summary:       fmt.Sprintf("Summary for article %d", i+1),
			Author:        sampleAuthors[i%len(sampleAuthors)],
			CategoryID:    category.ID,
			SubcategoryID: subcategoryID,
			Tags:          append([]string(nil), sampleTags[:i%3+1]...),
			Rating:        float64(3 + i%3),
			RatingCount:   10 + i%20,
			CreatedAt:     created,
			UpdatedAt:     created,
		})
	}
	return articles
}
