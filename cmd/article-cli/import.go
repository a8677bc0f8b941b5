package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/TzzJokerzzT/article-manager/feed"
	"github.com/TzzJokerzzT/article-manager/model"
	"github.com/TzzJokerzzT/article-manager/opml"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Create articles from RSS/Atom feeds",
		ArgsUsage: "<url-or-file>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Value: "tech",
				Usage: "Category for feeds that do not name one",
			},
			&cli.StringFlag{
				Name:  "subcategory",
				Usage: "Subcategory for feeds that do not name a category",
			},
			&cli.StringFlag{
				Name:  "opml",
				Usage: "OPML subscription list; folder names map to category ids",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: 8,
				Usage: "Maximum feeds fetched in parallel",
			},
		},
		Action: importFeeds,
	}
}

type importResult struct {
	Source   string   `json:"source"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`

	inputs []model.ArticleInput
	target feed.Target
}

func collectSources(c *cli.Context) ([]opml.Source, error) {
	var sources []opml.Source

	if path := c.String("opml"); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open OPML file: %w", err)
		}
		defer file.Close()

		listed, err := opml.Parse(file)
		if err != nil {
			return nil, err
		}
		sources = append(sources, listed...)
	}

	for _, arg := range c.Args().Slice() {
		sources = append(sources, opml.Source{URL: arg})
	}
	return sources, nil
}

func importFeeds(c *cli.Context) error {
	sources, err := collectSources(c)
	if err != nil {
		return fail(err)
	}
	if len(sources) == 0 {
		return usage(c)
	}
	if c.Int("concurrency") < 1 {
		return cli.Exit("--concurrency must be at least 1", ExitUsageError)
	}

	e, err := openEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	results := make([]importResult, len(sources))
	for i, src := range sources {
		target := feed.Target{CategoryID: src.CategoryID, SubcategoryID: src.SubcategoryID}
		if target.CategoryID == "" {
			target = feed.Target{CategoryID: c.String("category"), SubcategoryID: c.String("subcategory")}
		}
		results[i] = importResult{Source: src.URL, target: target}
	}

	// Fetch in parallel; each goroutine writes only its own slot.
	fetcher := feed.NewFetcher()
	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(c.Int("concurrency"))
	for i := range results {
		r := &results[i]
		if err := e.catalog.Check(r.target.CategoryID, r.target.SubcategoryID); err != nil {
			r.Errors = append(r.Errors, err.Error())
			continue
		}
		g.Go(func() error {
			inputs, err := fetcher.Load(ctx, r.Source, r.target)
			if err != nil {
				r.Errors = append(r.Errors, err.Error())
				return nil
			}
			r.inputs = inputs
			return nil
		})
	}
	g.Wait()

	// Articles are created one at a time so the store sees a single writer.
	total := 0
	for i := range results {
		r := &results[i]
		for _, in := range r.inputs {
			if _, err := e.svc.CreateArticle(c.Context, in); err != nil {
				r.Skipped++
				r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", in.Title, err))
				continue
			}
			r.Imported++
		}
		total += r.Imported
		e.logger.Info().Str("source", r.Source).Int("imported", r.Imported).Int("skipped", r.Skipped).Msg("feed imported")
	}

	return outputJSON(c, map[string]interface{}{
		"success":        true,
		"sources":        len(sources),
		"total_imported": total,
		"results":        results,
	})
}
