package qbclient

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mind-engage/qbank/internal/compose"
)

// catalogClassLimit is the page size used for the class dropdown.
const catalogClassLimit = 100

// LoadCatalog fetches everything a compose session needs in parallel. The
// first failing read cancels the rest.
func (c *Client) LoadCatalog(ctx context.Context) (compose.Catalog, error) {
	var cat compose.Catalog
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cat.Classes, _, err = c.Classes(ctx, 1, catalogClassLimit)
		return err
	})
	g.Go(func() (err error) {
		cat.Subjects, err = c.Subjects(ctx)
		return err
	})
	g.Go(func() (err error) {
		cat.Chapters, err = c.Chapters(ctx)
		return err
	})
	g.Go(func() (err error) {
		cat.Questions, err = c.Questions(ctx)
		return err
	})
	g.Go(func() (err error) {
		cat.Headers, err = c.Headers(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return compose.Catalog{}, err
	}
	return cat, nil
}
