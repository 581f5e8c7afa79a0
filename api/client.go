// Package api is the HTTP client of the company profile REST API.
//
// Every response body is an Envelope. Request returns the envelope data or
// an error, RequestRaw returns the envelope itself so that callers can show
// the server message.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBase is the API base URL used when none is configured.
const DefaultBase = "http://localhost:8000/api"

const instrumentationName = "github.com/etnz/profiles/api"

// Client calls the API under a base URL.
type Client struct {
	base     string
	http     *http.Client
	tracer   trace.Tracer
	requests metric.Int64Counter
	failures metric.Int64Counter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying http client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		h := *c.http
		h.Timeout = d
		c.http = &h
	}
}

// WithVerbose logs one line per request.
func WithVerbose() Option {
	return func(c *Client) {
		h := *c.http
		base := h.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		h.Transport = &logTransport{base: base}
		c.http = &h
	}
}

// New returns a client for the API at base.
func New(base string, opts ...Option) *Client {
	if base == "" {
		base = DefaultBase
	}
	c := &Client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{},
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}

	meter := otel.Meter(instrumentationName)
	var err error
	c.requests, err = meter.Int64Counter("profiles.api.request.count",
		metric.WithDescription("Total number of API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		c.requests, _ = meter.Int64Counter("profiles.api.request.count")
	}
	c.failures, err = meter.Int64Counter("profiles.api.error.count",
		metric.WithDescription("Total number of failed API requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		c.failures, _ = meter.Int64Counter("profiles.api.error.count")
	}
	return c
}

// Base returns the base URL, without trailing slash.
func (c *Client) Base() string { return c.base }

// URL returns the absolute URL of path under the base URL.
func (c *Client) URL(path string, query url.Values) string {
	u := c.base + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Call describes one API request.
type Call struct {
	Method      string // defaults to GET
	Path        string // relative to the base URL
	Query       url.Values
	JSON        any       // encoded as the JSON body when not nil
	Body        io.Reader // raw body, used when JSON is nil
	ContentType string    // content type of Body
	Discard     bool      // do not decode the response body
}

// Request performs call and returns the envelope data.
//
// A non 2xx HTTP status or a non JSON response is a *TransportError, an
// envelope status other than StatusOK is an *Error.
func Request[T any](ctx context.Context, c *Client, call *Call) (T, error) {
	var zero T
	resp, err := c.do(ctx, call)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.fail(ctx, call)
		return zero, statusError(resp)
	}
	if call.Discard {
		return zero, nil
	}
	env, err := decode[T](resp)
	if err != nil {
		c.fail(ctx, call)
		return zero, err
	}
	if err := env.Err(); err != nil {
		c.fail(ctx, call)
		return zero, err
	}
	return env.Data, nil
}

// RequestRaw performs call and returns the envelope whatever its status.
// Only a non JSON response is an error.
func RequestRaw[T any](ctx context.Context, c *Client, call *Call) (*Envelope[T], error) {
	resp, err := c.do(ctx, call)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	env, err := decode[T](resp)
	if err != nil {
		c.fail(ctx, call)
		return nil, err
	}
	return env, nil
}

// do sends the request described by call.
func (c *Client) do(ctx context.Context, call *Call) (*http.Response, error) {
	method := call.Method
	if method == "" {
		method = http.MethodGet
	}
	body, contentType := call.Body, call.ContentType
	if call.JSON != nil {
		data, err := json.Marshal(call.JSON)
		if err != nil {
			return nil, fmt.Errorf("cannot encode %s %s body: %w", method, call.Path, err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	ctx, span := c.tracer.Start(ctx, "profiles.api."+strings.ToLower(method), trace.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("profiles.api.path", call.Path),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.URL(call.Path, call.Query), body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	c.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("http.request.method", method)))
	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.fail(ctx, call)
		return nil, fmt.Errorf("cannot http %s %s: %w", method, call.Path, err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	}
	return resp, nil
}

func (c *Client) fail(ctx context.Context, call *Call) {
	c.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("profiles.api.path", call.Path)))
}

// decode checks the content type and decodes the envelope.
func decode[T any](resp *http.Response) (*Envelope[T], error) {
	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, "application/json") {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %q", ErrUnexpectedContentType, ct),
		}
	}
	env := new(Envelope[T])
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		return nil, fmt.Errorf("cannot decode response of %v/%v: %w", resp.Request.URL.Host, resp.Request.URL.Path, err)
	}
	return env, nil
}

// statusError reads the msg of an error body if there is one.
func statusError(resp *http.Response) error {
	err := &TransportError{StatusCode: resp.StatusCode}
	data, rerr := io.ReadAll(resp.Body)
	if rerr != nil {
		return err
	}
	var body struct {
		Msg    string `json:"msg"`
		Detail any    `json:"detail"`
	}
	if json.Unmarshal(data, &body) == nil {
		err.Msg = body.Msg
		if s, ok := body.Detail.(string); ok && err.Msg == "" {
			err.Msg = s
		}
	}
	return err
}

// logTransport logs every round trip.
type logTransport struct {
	base http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		log.Printf("%v %v/%v %v", req.Method, req.URL.Host, req.URL.Path, err)
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	return resp, nil
}
