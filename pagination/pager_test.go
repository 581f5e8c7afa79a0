package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/profiles/api"
)

type reporter struct {
	errs      []error
	fallbacks []string
}

func (r *reporter) Error(err error, fallback string) {
	r.errs = append(r.errs, err)
	r.fallbacks = append(r.fallbacks, fallback)
}

// numbers serves total integers, page by page.
func numbers(total int, calls *[]Params) Fetcher[int] {
	return func(_ context.Context, p Params) (api.Page[int], error) {
		*calls = append(*calls, p)
		var items []int
		for i := (p.Page-1)*p.Size + 1; i <= min(p.Page*p.Size, total); i++ {
			items = append(items, i)
		}
		return api.Page[int]{Items: items, Total: total}, nil
	}
}

func TestPager_Load(t *testing.T) {
	var calls []Params
	p := New(numbers(42, &calls), 1, 10)

	if err := p.Load(context.Background(), State{Current: 2, PageSize: 10}, map[string]string{"name": "a"}); err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}
	if got := calls[0]; got.Page != 2 || got.Size != 10 || got.Filters["name"] != "a" {
		t.Errorf("fetcher called with %+v; want page=2 size=10 name=a", got)
	}
	if s := p.State(); s.Current != 2 || s.PageSize != 10 || s.Total != 42 {
		t.Errorf("State() = %+v; want current 2 of 42", s)
	}
	if data := p.Data(); len(data) != 10 || data[0] != 11 {
		t.Errorf("Data() = %v; want 11..20", data)
	}
	if got, want := p.ShowTotal(), "11-20 of 42"; got != want {
		t.Errorf("ShowTotal() = %q; want %q", got, want)
	}
	if p.Loading() {
		t.Error("Loading() = true after Load returned")
	}
}

func TestPager_Defaults(t *testing.T) {
	var calls []Params
	p := New(numbers(5, &calls), 1, 20)
	if err := p.Load(context.Background(), State{}, nil); err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}
	if calls[0].Page != 1 || calls[0].Size != 20 {
		t.Errorf("fetcher called with %+v; want page=1 size=20", calls[0])
	}
	if got, want := p.ShowTotal(), "1-5 of 5"; got != want {
		t.Errorf("ShowTotal() = %q; want %q", got, want)
	}
}

func TestPager_Mount(t *testing.T) {
	var calls []Params
	p := New(numbers(3, &calls), 1, 10)
	if err := p.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() unexpected error = %v", err)
	}
	if len(calls) != 1 || calls[0].Page != 1 {
		t.Errorf("Mount() calls = %+v; want one call for page 1", calls)
	}
}

func TestPager_LoadError(t *testing.T) {
	var calls []Params
	ok := numbers(30, &calls)
	fail := false
	boom := errors.New("boom")
	fetch := func(ctx context.Context, p Params) (api.Page[int], error) {
		if fail {
			return api.Page[int]{}, boom
		}
		return ok(ctx, p)
	}
	r := new(reporter)
	p := New(fetch, 1, 10, WithReporter(r))

	if err := p.Load(context.Background(), State{Current: 1, PageSize: 10}, nil); err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}
	fail = true
	if err := p.Load(context.Background(), State{Current: 3, PageSize: 10}, nil); !errors.Is(err, boom) {
		t.Fatalf("Load() error = %v; want boom", err)
	}
	if s := p.State(); s.Current != 1 || s.Total != 30 {
		t.Errorf("State() = %+v; want the previous state", s)
	}
	if data := p.Data(); len(data) != 10 || data[0] != 1 {
		t.Errorf("Data() = %v; want the previous items", data)
	}
	if len(r.errs) != 1 || r.fallbacks[0] != LoadFailedMsg {
		t.Errorf("reported %v %v; want one error with %q", r.errs, r.fallbacks, LoadFailedMsg)
	}
	if p.Loading() {
		t.Error("Loading() = true after a failed load")
	}
}

func TestPager_DiscardsStaleLoads(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetch := func(_ context.Context, p Params) (api.Page[int], error) {
		if p.Page == 1 {
			close(started)
			<-release
		}
		return api.Page[int]{Items: []int{p.Page}, Total: 100}, nil
	}
	p := New(fetch, 1, 10)

	done := make(chan error)
	go func() { done <- p.Load(context.Background(), State{Current: 1}, nil) }()
	<-started
	if err := p.Load(context.Background(), State{Current: 2}, nil); err != nil {
		t.Fatalf("Load(2) unexpected error = %v", err)
	}
	close(release)
	if err := <-done; !errors.Is(err, ErrStale) {
		t.Errorf("Load(1) error = %v; want ErrStale", err)
	}
	if s := p.State(); s.Current != 2 {
		t.Errorf("State().Current = %d; want 2, the late page 1 must be discarded", s.Current)
	}
}

func TestPager_Close(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetch := func(_ context.Context, p Params) (api.Page[int], error) {
		close(started)
		<-release
		return api.Page[int]{Items: []int{1}, Total: 1}, nil
	}
	p := New(fetch, 1, 10)
	done := make(chan error)
	go func() { done <- p.Load(context.Background(), State{}, nil) }()
	<-started
	if !p.Loading() {
		t.Error("Loading() = false during a load")
	}
	p.Close()
	close(release)
	if err := <-done; !errors.Is(err, ErrStale) {
		t.Errorf("Load() after Close error = %v; want ErrStale", err)
	}
	if len(p.Data()) != 0 {
		t.Errorf("Data() = %v; want nothing after Close", p.Data())
	}
}

func TestShowTotal(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{State{Current: 1, PageSize: 10, Total: 0}, "0-0 of 0"},
		{State{Current: 1, PageSize: 10, Total: 7}, "1-7 of 7"},
		{State{Current: 3, PageSize: 10, Total: 25}, "21-25 of 25"},
	}
	for _, tt := range tests {
		if got := ShowTotal(tt.s); got != tt.want {
			t.Errorf("ShowTotal(%+v) = %q; want %q", tt.s, got, tt.want)
		}
	}
}
