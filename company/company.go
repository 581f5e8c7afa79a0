// Package company calls the companies collection of the API.
package company

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/api"
)

// Collection is the path of the companies collection.
const Collection = "companies"

// Service reads and writes companies.
type Service struct {
	res *api.Resource[profiles.Company]
}

// New returns the companies service of c.
func New(c *api.Client) *Service {
	return &Service{res: api.NewResource[profiles.Company](c, Collection)}
}

// List returns one page of companies. The server reads skip as a 1-based
// page number and limit as the page size. filters are added to the query.
func (s *Service) List(ctx context.Context, page, size int, filters map[string]string) (api.Page[profiles.Company], error) {
	q := url.Values{}
	for k, v := range filters {
		q.Set(k, v)
	}
	q.Set("skip", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(size))
	return s.res.List(ctx, q)
}

// Get returns the company id.
func (s *Service) Get(ctx context.Context, id int) (profiles.Company, error) {
	return s.res.Get(ctx, id)
}

// Create creates c and returns it with its id.
func (s *Service) Create(ctx context.Context, c profiles.Company) (profiles.Company, error) {
	if err := c.Validate(); err != nil {
		return profiles.Company{}, err
	}
	return s.res.Create(ctx, c)
}

// Update replaces company id with c.
func (s *Service) Update(ctx context.Context, id int, c profiles.Company) (profiles.Company, error) {
	if err := c.Validate(); err != nil {
		return profiles.Company{}, err
	}
	return s.res.Update(ctx, id, c)
}

// Delete deletes the company id.
func (s *Service) Delete(ctx context.Context, id int) error {
	return s.res.Delete(ctx, id)
}

// CreateWithMsg is Create returning the envelope so that the server message
// can be shown, whatever the business status.
func (s *Service) CreateWithMsg(ctx context.Context, c profiles.Company) (*api.Envelope[profiles.Company], error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.res.CreateRaw(ctx, c)
}

// UpdateWithMsg is Update returning the envelope.
func (s *Service) UpdateWithMsg(ctx context.Context, id int, c profiles.Company) (*api.Envelope[profiles.Company], error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.res.UpdateRaw(ctx, id, c)
}

// DeleteWithMsg is Delete returning the envelope.
func (s *Service) DeleteWithMsg(ctx context.Context, id int) (*api.Envelope[any], error) {
	return s.res.DeleteRaw(ctx, id)
}

// Compare fetches the companies ids concurrently and returns them in the
// same order. Any failure fails the whole comparison.
func (s *Service) Compare(ctx context.Context, ids ...int) ([]profiles.Company, error) {
	companies := make([]profiles.Company, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			c, err := s.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("cannot get company %d: %w", id, err)
			}
			companies[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return companies, nil
}
