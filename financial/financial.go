// Package financial uploads financial statements and reads metric charts.
package financial

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/api"
)

const (
	uploadCollection = "financial-statements/upload"
	chartPath        = "financial-statements/chart"
)

// ErrMissingUploadField is returned, before any request, when an upload has
// no company id, no statement type or no file.
var ErrMissingUploadField = errors.New("company id, statement type and file are all required")

// Upload is a financial statement file to upload for a company.
type Upload struct {
	CompanyID int
	Type      profiles.StatementType
	Filename  string
	File      io.Reader
}

// UploadResult is what the server reports about an upload.
type UploadResult struct {
	CompanyID int                    `json:"company_id"`
	Type      profiles.StatementType `json:"type"`
	Years     []string               `json:"years"`
	Values    int                    `json:"values"`
}

// Tile is one chart of a chart grid.
type Tile struct {
	Metric profiles.Metric
	Chart  profiles.ChartData
	Err    error
}

// Service uploads statements and reads charts.
type Service struct {
	c        *api.Client
	uploader *api.Resource[UploadResult]
}

// New returns the financial service of c.
func New(c *api.Client) *Service {
	return &Service{c: c, uploader: api.NewResource[UploadResult](c, uploadCollection)}
}

// Upload posts the statement file as a multipart form with the fields file,
// type and company_id.
func (s *Service) Upload(ctx context.Context, u Upload) (UploadResult, error) {
	if u.CompanyID == 0 || u.Type == "" || u.File == nil {
		return UploadResult{}, ErrMissingUploadField
	}
	body, contentType, err := u.form()
	if err != nil {
		return UploadResult{}, err
	}
	return s.uploader.Post(ctx, body, contentType)
}

func (u Upload) form() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	name := u.Filename
	if name == "" {
		name = string(u.Type) + ".json"
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, u.File); err != nil {
		return nil, "", fmt.Errorf("cannot read statement file %q: %w", name, err)
	}
	if err := w.WriteField("type", string(u.Type)); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("company_id", strconv.Itoa(u.CompanyID)); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// MetricChart returns the chart of metric for the company id.
func (s *Service) MetricChart(ctx context.Context, companyID int, metric string) (profiles.ChartData, error) {
	q := url.Values{}
	q.Set("company_id", strconv.Itoa(companyID))
	q.Set("metric", metric)
	return api.Request[profiles.ChartData](ctx, s.c, &api.Call{Path: chartPath, Query: q})
}

// Charts fetches the charts of metrics concurrently. A failed chart is
// reported in its tile and does not fail the others. Unknown metrics are
// reported the same way.
func (s *Service) Charts(ctx context.Context, companyID int, metrics ...string) []Tile {
	if len(metrics) == 0 {
		metrics = profiles.DefaultChartMetrics
	}
	tiles := make([]Tile, len(metrics))
	var g errgroup.Group
	g.SetLimit(4)
	for i, name := range metrics {
		m, ok := profiles.LookupMetric(name)
		if !ok {
			tiles[i] = Tile{Metric: profiles.Metric{Name: name, Title: name}, Err: fmt.Errorf("unknown metric %q", name)}
			continue
		}
		g.Go(func() error {
			chart, err := s.MetricChart(ctx, companyID, m.Name)
			tiles[i] = Tile{Metric: m, Chart: chart, Err: err}
			return nil
		})
	}
	g.Wait()
	return tiles
}
