package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// recorder is a fake API answering body with status and content type, and
// remembering the last request.
type recorder struct {
	code        int
	contentType string
	body        string

	method string
	uri    string
	ctype  string
	sent   string
	calls  int
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.calls++
	r.method = req.Method
	r.uri = req.URL.RequestURI()
	r.ctype = req.Header.Get("Content-Type")
	data, _ := io.ReadAll(req.Body)
	r.sent = string(data)
	ct := r.contentType
	if ct == "" {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	code := r.code
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)
	io.WriteString(w, r.body)
}

func newServer(t *testing.T, r *recorder) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api/")
}

func TestClient_URL(t *testing.T) {
	c := New("http://localhost:8000/api/")
	tests := []struct {
		path  string
		query url.Values
		want  string
	}{
		{"companies", nil, "http://localhost:8000/api/companies"},
		{"/companies/3", nil, "http://localhost:8000/api/companies/3"},
		{"companies", url.Values{"skip": {"2"}, "limit": {"10"}}, "http://localhost:8000/api/companies?limit=10&skip=2"},
	}
	for _, tt := range tests {
		if got := c.URL(tt.path, tt.query); got != tt.want {
			t.Errorf("URL(%q) = %q; want %q", tt.path, got, tt.want)
		}
	}
	if got := New("").Base(); got != DefaultBase {
		t.Errorf("New(\"\").Base() = %q; want %q", got, DefaultBase)
	}
}

func TestRequest(t *testing.T) {
	tests := []struct {
		name    string
		rec     recorder
		wantErr string
		want    item
	}{
		{
			name: "success",
			rec:  recorder{body: `{"status":200,"msg":"ok","data":{"id":42,"name":"Acme"}}`},
			want: item{ID: 42, Name: "Acme"},
		},
		{
			name: "null data",
			rec:  recorder{body: `{"status":200,"msg":"ok","data":null}`},
		},
		{
			name:    "business error",
			rec:     recorder{body: `{"status":404,"msg":"not found","data":null}`},
			wantErr: "not found",
		},
		{
			name:    "business error without msg",
			rec:     recorder{body: `{"status":500,"msg":""}`},
			wantErr: "API error",
		},
		{
			name:    "http error with msg",
			rec:     recorder{code: http.StatusNotFound, body: `{"status":404,"msg":"Company not found","data":null}`},
			wantErr: "Company not found",
		},
		{
			name:    "http error without body",
			rec:     recorder{code: http.StatusBadGateway, contentType: "text/html", body: `<html>`},
			wantErr: "HTTP 502",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, &tt.rec)
			got, err := Request[item](context.Background(), c, &Call{Path: "companies/42"})
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("Request() error = %v; want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Request() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Request() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestRequest_ErrorTypes(t *testing.T) {
	rec := &recorder{body: `{"status":403,"msg":"forbidden"}`}
	c := newServer(t, rec)
	_, err := Request[item](context.Background(), c, &Call{Path: "x"})
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != 403 {
		t.Errorf("Request() error = %#v; want *Error with status 403", err)
	}
	if StatusOf(err) != 403 {
		t.Errorf("StatusOf() = %d; want 403", StatusOf(err))
	}

	rec.contentType = "text/plain"
	rec.body = "hello"
	_, err = Request[item](context.Background(), c, &Call{Path: "x"})
	if !errors.Is(err, ErrUnexpectedContentType) {
		t.Errorf("Request() error = %v; want ErrUnexpectedContentType", err)
	}
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Errorf("Request() error = %#v; want a *TransportError", err)
	}
}

func TestRequest_Discard(t *testing.T) {
	rec := &recorder{contentType: "text/plain", body: "deleted"}
	c := newServer(t, rec)
	if _, err := Request[any](context.Background(), c, &Call{Method: http.MethodDelete, Path: "x/1", Discard: true}); err != nil {
		t.Errorf("Request() with Discard unexpected error = %v", err)
	}
}

func TestRequestRaw(t *testing.T) {
	rec := &recorder{body: `{"status":409,"msg":"name already used","data":null}`}
	c := newServer(t, rec)
	env, err := RequestRaw[item](context.Background(), c, &Call{Method: http.MethodPost, Path: "companies/"})
	if err != nil {
		t.Fatalf("RequestRaw() unexpected error = %v", err)
	}
	if env.Status != 409 || env.Msg != "name already used" || env.OK() {
		t.Errorf("RequestRaw() = %+v; want the 409 envelope", env)
	}
	if env.Err() == nil || env.Err().Error() != "name already used" {
		t.Errorf("Err() = %v; want name already used", env.Err())
	}
}

func TestResource(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		call   func(r *Resource[item]) error
		method string
		uri    string
		sent   string
	}{
		{
			name: "list",
			call: func(r *Resource[item]) error {
				_, err := r.List(ctx, url.Values{"skip": {"1"}, "limit": {"10"}})
				return err
			},
			method: http.MethodGet, uri: "/api/companies?limit=10&skip=1",
		},
		{
			name:   "get",
			call:   func(r *Resource[item]) error { _, err := r.Get(ctx, 42); return err },
			method: http.MethodGet, uri: "/api/companies/42",
		},
		{
			name:   "create",
			call:   func(r *Resource[item]) error { _, err := r.Create(ctx, item{Name: "Acme"}); return err },
			method: http.MethodPost, uri: "/api/companies/", sent: `{"id":0,"name":"Acme"}`,
		},
		{
			name:   "update",
			call:   func(r *Resource[item]) error { _, err := r.Update(ctx, 3, item{ID: 3, Name: "Acme"}); return err },
			method: http.MethodPut, uri: "/api/companies/3", sent: `{"id":3,"name":"Acme"}`,
		},
		{
			name:   "delete",
			call:   func(r *Resource[item]) error { return r.Delete(ctx, 3) },
			method: http.MethodDelete, uri: "/api/companies/3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{body: `{"status":200,"msg":"ok","data":null}`}
			r := NewResource[item](newServer(t, rec), "/companies")
			if err := tt.call(r); err != nil {
				t.Fatalf("unexpected error = %v", err)
			}
			if rec.method != tt.method || rec.uri != tt.uri {
				t.Errorf("request = %s %s; want %s %s", rec.method, rec.uri, tt.method, tt.uri)
			}
			if tt.sent != "" {
				if rec.sent != tt.sent {
					t.Errorf("body = %s; want %s", rec.sent, tt.sent)
				}
				if rec.ctype != "application/json" {
					t.Errorf("Content-Type = %q; want application/json", rec.ctype)
				}
			}
		})
	}
}

func TestResource_ListPage(t *testing.T) {
	rec := &recorder{body: `{"status":200,"msg":"ok","data":{"items":[{"id":1,"name":"A"},{"id":2,"name":"B"}],"total":12,"page":1,"total_pages":6}}`}
	r := NewResource[item](newServer(t, rec), "companies")
	page, err := r.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List() unexpected error = %v", err)
	}
	if len(page.Items) != 2 || page.Total != 12 || page.TotalPages != 6 {
		t.Errorf("List() = %+v; want 2 items of 12", page)
	}
}

func TestResource_Post(t *testing.T) {
	rec := &recorder{body: `{"status":200,"msg":"uploaded","data":{"id":1}}`}
	r := NewResource[item](newServer(t, rec), "financial-statements/upload")
	if _, err := r.Post(context.Background(), strings.NewReader("--x--"), "multipart/form-data; boundary=x"); err != nil {
		t.Fatalf("Post() unexpected error = %v", err)
	}
	if rec.uri != "/api/financial-statements/upload/" || rec.ctype != "multipart/form-data; boundary=x" {
		t.Errorf("Post() sent %s with %q", rec.uri, rec.ctype)
	}
}
