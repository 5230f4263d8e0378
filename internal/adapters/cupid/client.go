// Package cupid fetches property reviews from the Cupid content API.
package cupid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"review_insight/internal/adapters/httpx"
)

type Client struct {
	base string
	http *httpx.Client
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &Client{
		base: base,
		http: httpx.New("cupid", rps, 20*time.Second, map[string]string{"X-API-Key": key}),
	}, nil
}

// GetReviews returns up to count raw review objects. The preferred endpoint is
// tried first, then the legacy variants.
func (c *Client) GetReviews(ctx context.Context, id int64, count int) ([]map[string]any, error) {
	candidates := []string{
		fmt.Sprintf("%s/properties/%d/reviews?limit=%d", c.base, id, count), // preferred
		fmt.Sprintf("%s/properties/%d/reviews/%d", c.base, id, count),
		fmt.Sprintf("%s/property/reviews/%d/%d", c.base, id, count), // legacy
	}
	var out []map[string]any
	return out, c.getFirst(ctx, candidates, &out)
}

func (c *Client) getFirst(ctx context.Context, urls []string, out any) error {
	var last error
	for _, u := range urls {
		if err := c.http.GetJSON(ctx, u, "reviews", out); err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				last = err
				continue // try next pattern
			}
			return err
		}
		return nil
	}
	if last != nil {
		return last
	}
	return errors.New("no candidate URL succeeded")
}
