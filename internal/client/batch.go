package client

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultParallel is the number of concurrent downloads used by DownloadAll
// when no limit is given.
const DefaultParallel = 3

// DownloadAll downloads every URL in the given format and saves the results
// into dir, running at most limit downloads at a time. An empty format picks
// the default for each URL's detected media type. The first failure
// cancels the remaining downloads. Saved paths are returned in input order.
func (c *Client) DownloadAll(ctx context.Context, urls []string, format, dir string, limit int, onProgress func(rawURL string, p Progress)) ([]string, error) {
	if limit <= 0 {
		limit = DefaultParallel
	}

	paths := make([]string, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, rawURL := range urls {
		g.Go(func() error {
			var report func(Progress)
			if onProgress != nil {
				report = func(p Progress) { onProgress(rawURL, p) }
			}

			f := format
			if f == "" {
				f = DefaultFormat(DetectMediaType(rawURL))
			}
			res, err := c.Download(ctx, rawURL, f, report)
			if err != nil {
				return fmt.Errorf("%s: %w", rawURL, err)
			}
			path, err := res.Save(dir)
			if err != nil {
				return fmt.Errorf("%s: %w", rawURL, err)
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return paths, err
	}
	return paths, nil
}
