package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/TzzJokerzzT/article-manager/model"
)

func articleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "Article title (max 200 characters)"},
		&cli.StringFlag{Name: "content", Usage: "Article body"},
		&cli.StringFlag{Name: "summary", Usage: "Short summary"},
		&cli.StringFlag{Name: "author", Usage: "Author name"},
		&cli.StringFlag{Name: "category", Usage: "Category id (see `categories`)"},
		&cli.StringFlag{Name: "subcategory", Usage: "Subcategory id within the category"},
		&cli.StringFlag{Name: "tags", Aliases: []string{"t"}, Usage: "Comma-separated tags"},
	}
}

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "list",
			Usage: "List articles",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "search",
					Aliases: []string{"s"},
					Usage:   "Case-insensitive text in title, content or author",
				},
				&cli.StringFlag{Name: "category", Usage: "Filter by category id"},
				&cli.StringFlag{Name: "subcategory", Usage: "Filter by subcategory id"},
				&cli.Float64Flag{Name: "min-rating", Usage: "Only articles rated at least this (0-5)"},
				&cli.StringFlag{
					Name:    "tags",
					Aliases: []string{"t"},
					Usage:   "Comma-separated tags; any match qualifies",
				},
				&cli.IntFlag{
					Name:    "page",
					Aliases: []string{"p"},
					Value:   model.DefaultPage,
					Usage:   "Page number, starting at 1",
				},
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"l"},
					Usage:   "Page size, 1-100 (default: page.limit from config)",
				},
			},
			Action: listArticles,
		},
		{
			Name:      "show",
			Usage:     "Show one article",
			ArgsUsage: "<article-id>",
			Action:    showArticle,
		},
		{
			Name:   "create",
			Usage:  "Create an article",
			Flags:  articleFlags(),
			Action: createArticle,
		},
		{
			Name:      "update",
			Usage:     "Update the given fields of an article",
			ArgsUsage: "<article-id>",
			Flags:     articleFlags(),
			Action:    updateArticle,
		},
		{
			Name:      "delete",
			Usage:     "Delete an article with its ratings and favorites",
			ArgsUsage: "<article-id>",
			Action:    deleteArticle,
		},
		{
			Name:      "rate",
			Usage:     "Rate an article from 1 to 5",
			ArgsUsage: "<article-id> <1-5>",
			Action:    rateArticle,
		},
		{
			Name:      "rating",
			Usage:     "Show the rating aggregate of an article",
			ArgsUsage: "<article-id>",
			Action:    showRating,
		},
		{
			Name:      "favorite",
			Usage:     "Mark an article as favorite",
			ArgsUsage: "<article-id>",
			Action:    addFavorite,
		},
		{
			Name:      "unfavorite",
			Usage:     "Remove an article from favorites",
			ArgsUsage: "<article-id>",
			Action:    removeFavorite,
		},
		{
			Name:      "toggle-favorite",
			Usage:     "Flip the favorite state of an article",
			ArgsUsage: "<article-id>",
			Action:    toggleFavorite,
		},
		{
			Name:   "favorites",
			Usage:  "List favorite article ids",
			Action: listFavorites,
		},
		{
			Name:   "categories",
			Usage:  "List the category catalog",
			Action: listCategories,
		},
		importCommand(),
		{
			Name:   "reset",
			Usage:  "Delete all stored articles, ratings and favorites",
			Action: reset,
		},
	}
}

func listArticles(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	limit := e.conf.Page.Limit
	if c.IsSet("limit") {
		limit = c.Int("limit")
	}

	filter, err := model.BuildFilter(
		c.Int("page"),
		limit,
		c.String("search"),
		c.String("category"),
		c.String("subcategory"),
		c.Float64("min-rating"),
		c.String("tags"),
	)
	if err != nil {
		return fail(err)
	}

	res, err := e.svc.GetArticles(c.Context, filter, e.user)
	if err != nil {
		return fail(err)
	}
	return outputJSON(c, res)
}

func showArticle(c *cli.Context) error {
	if c.NArg() < 1 {
		return usage(c)
	}
	id := c.Args().Get(0)

	e, err := openEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	a, err := e.svc.GetArticleByID(c.Context, id, e.user)
	if err != nil {
		return fail(err)
	}
	if a == nil {
		return fail(model.NotFound(id))
	}
	return outputJSON(c, a)
}

func createArticle(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	in := model.ArticleInput{
		Title:         c.String("title"),
		Content:       c.String("content"),
		Summary:       c.String("summary"),
		Author:        c.String("author"),
		CategoryID:    c.String("category"),
		SubcategoryID: c.String("subcategory"),
		Tags:          model.SplitTags(c.String("tags")),
	}
	if err := in.Validate(); err != nil {
		return fail(err)
	}
	if err := e.catalog.Check(in.CategoryID, in.SubcategoryID); err != nil {
		return fail(err)
	}

	a, err := e.svc.CreateArticle(c.Context, in)
	if err != nil {
		return fail(err)
	}
	return outputJSON(c, a)
}

// patchFromFlags sets only the fields whose flags were given.
func patchFromFlags(c *cli.Context) model.ArticlePatch {
	var p model.ArticlePatch
	str := func(name string) *string {
		if !c.IsSet(name) {
			return nil
		}
		v := c.String(name)
		return &v
	}
	p.Title = str("title")
	p.Content = str("content")
	p.Summary = str("summary")
	p.Author = str("author")
	p.CategoryID = str("category")
	p.SubcategoryID = str("subcategory")
	if c.IsSet("tags") {
		tags := model.SplitTags(c.String("tags"))
		if tags == nil {
			tags = []string{}
		}
		p.Tags = &tags
	}
	return p
}

func updateArticle(c *cli.Context) error {
	if c.NArg() < 1 {
		return usage(c)
	}
	id := c.Args().Get(0)

	patch := patchFromFlags(c)
	if patch.IsEmpty() {
		return cli.Exit("Nothing to update: pass at least one field flag", ExitUsageError)
	}

	e, err := openEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	if patch.CategoryID != nil || patch.SubcategoryID != nil {
		current, err := e.svc.GetArticleByID(c.Context, id, e.user)
		if err != nil {
			return fail(err)
		}
		if current == nil {
			return fail(model.NotFound(id))
		}
		merged := patch.Apply(current)
		if err := e.catalog.Check(merged.CategoryID, merged.SubcategoryID); err != nil {
			return fail(err)
		}
	}

	a, err := e.svc.UpdateArticle(c.Context, id, patch)
	if err != nil {
		return fail(err)
	}
	return outputJSON(c, a)
}

func deleteArticle(c *cli.Context) error {
	if c.NArg() < 1 {
		return usage(c)
	}
	id := c.Args().Get(0)

	e, err := openEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	if err := e.svc.DeleteArticle(c.Context, id); err != nil {
		return fail(err)
	}
	return outputJSON(c, map[string]interface{}{
		"success":    true,
		"article_id": id,
	})
}

func rateArticle(c *cli.Context) error {
	if c.NArg() < 2 {
		return usage(c)
	}
	id := c.Args().Get(0)
	value, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Invalid rating %q: expected a whole number from 1 to 5", c.Args().Get(1)), ExitUsageError)
	}

	e, err := openEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	agg, err := e.svc.RateArticle(c.Context, id, value, e.user)
	if err != nil {
		return fail(err)
	}
	return outputJSON(c, map[string]interface{}{
		"article_id":   id,
		"rating":       agg.Rating,
		"rating_count": agg.Count,
	})
}

func showRating(c *cli.Context) error {
	if c.NArg() < 1 {
		return usage(c)
	}
	id := c.Args().Get(0)

	e, err := openEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	agg, err := e.svc.ArticleRating(c.Context, id)
	if err != nil {
		return fail(err)
	}
	return outputJSON(c, map[string]interface{}{
		"article_id":   id,
		"rating":       agg.Rating,
		"rating_count": agg.Count,
	})
}

func addFavorite(c *cli.Context) error {
	return setFavorite(c, true)
}

func removeFavorite(c *cli.Context) error {
	return setFavorite(c, false)
}

func setFavorite(c *cli.Context, favorite bool) error {
	if c.NArg() < 1 {
		return usage(c)
	}
	id := c.Args().Get(0)

	e, err := openEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	if favorite {
		err = e.svc.AddFavorite(c.Context, id, e.user)
	} else {
		err = e.svc.RemoveFavorite(c.Context, id, e.user)
	}
	if err != nil {
		return fail(err)
	}
	return outputJSON(c, map[string]interface{}{
		"article_id":  id,
		"user_id":     e.user,
		"is_favorite": favorite,
	})
}

func toggleFavorite(c *cli.Context) error {
	if c.NArg() < 1 {
		return usage(c)
	}
	id := c.Args().Get(0)

	e, err := openEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	current, err := e.svc.IsFavorite(c.Context, id, e.user)
	if err != nil {
		return fail(err)
	}
	state, err := e.svc.ToggleFavorite(c.Context, id, current, e.user)
	if err != nil {
		return fail(err)
	}
	return outputJSON(c, map[string]interface{}{
		"article_id":  id,
		"user_id":     e.user,
		"is_favorite": state,
	})
}

func listFavorites(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	ids, err := e.svc.ListFavorites(c.Context, e.user)
	if err != nil {
		return fail(err)
	}
	return outputJSON(c, map[string]interface{}{
		"user_id":     e.user,
		"count":       len(ids),
		"article_ids": ids,
	})
}

func listCategories(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	return outputJSON(c, e.catalog.Categories())
}

func reset(c *cli.Context) error {
	conf, err := loadConfig(c)
	if err != nil {
		return fail(err)
	}
	slots, err := getStore(conf.Storage.Path)
	if err != nil {
		return fail(err)
	}
	defer slots.Close()

	keys, err := slots.Keys(c.Context)
	if err != nil {
		return fail(err)
	}
	for _, key := range keys {
		if err := slots.Delete(c.Context, key); err != nil {
			return fail(err)
		}
	}
	return outputJSON(c, map[string]interface{}{
		"success": true,
		"deleted": keys,
	})
}
