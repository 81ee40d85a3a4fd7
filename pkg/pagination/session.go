package pagination

import (
	"context"
	"errors"
	"sync"

	"github.com/Sternrassler/catalog-client/pkg/catalog"
)

// Navigation errors. The session state is unchanged when they are returned.
var (
	ErrNoNextPage = errors.New("already at the last page")
	ErrNoPrevPage = errors.New("already at the first page")
)

// Progress is the state of a running full listing load.
type Progress struct {
	Loaded int
	Total  int
}

// SessionState is a snapshot of a Session.
type SessionState struct {
	Page       int
	TotalCount int
	TotalPages int
	Loading    bool
	Err        error
	Progress   *Progress
}

// Session tracks page navigation for one filter set.
// A Session is safe for concurrent use; the page index moves only when a
// fetch succeeds.
type Session struct {
	ctrl    *Controller
	filters catalog.Filters

	mu       sync.Mutex
	page     int
	total    int
	loading  int
	err      error
	progress *Progress
}

// NewSession starts a session at page 0 for filters.
func (c *Controller) NewSession(filters catalog.Filters) *Session {
	return &Session{
		ctrl:    c,
		filters: filters.Normalize(),
	}
}

// Filters returns the session filters.
func (s *Session) Filters() catalog.Filters {
	return s.filters
}

// State returns a snapshot of the session.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SessionState{
		Page:       s.page,
		TotalCount: s.total,
		TotalPages: TotalPages(s.total, s.ctrl.config.PageSize),
		Loading:    s.loading > 0,
		Err:        s.err,
	}
	if s.progress != nil {
		p := *s.progress
		state.Progress = &p
	}
	return state
}

// Load fetches the current page.
func (s *Session) Load(ctx context.Context) (catalog.Page, error) {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()

	return s.GoTo(ctx, page)
}

// GoTo fetches page and makes it current on success.
func (s *Session) GoTo(ctx context.Context, page int) (catalog.Page, error) {
	s.begin()
	p, err := s.ctrl.FetchPage(ctx, page, s.filters)
	s.finish(page, p, err)
	return p, err
}

// Next moves to the following page. At the last page, or before the listing
// size is known, it returns ErrNoNextPage.
func (s *Session) Next(ctx context.Context) (catalog.Page, error) {
	s.mu.Lock()
	page := s.page
	hasNext := page+1 < TotalPages(s.total, s.ctrl.config.PageSize)
	s.mu.Unlock()

	if !hasNext {
		return catalog.Page{}, ErrNoNextPage
	}
	return s.GoTo(ctx, page+1)
}

// Prev moves to the preceding page. At page 0 it returns ErrNoPrevPage.
func (s *Session) Prev(ctx context.Context) (catalog.Page, error) {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()

	if page == 0 {
		return catalog.Page{}, ErrNoPrevPage
	}
	return s.GoTo(ctx, page-1)
}

// Refresh invalidates cached pages for the session filters and re-fetches
// the current page.
func (s *Session) Refresh(ctx context.Context) (catalog.Page, error) {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()

	s.begin()
	p, err := s.ctrl.Refresh(ctx, page, s.filters)
	s.finish(page, p, err)
	return p, err
}

// LoadAll loads the whole listing for the session filters. Progress is
// published in State while it runs and forwarded to onProgress.
func (s *Session) LoadAll(ctx context.Context, onProgress ProgressFunc) ([]catalog.Product, error) {
	s.mu.Lock()
	s.loading++
	s.progress = &Progress{}
	s.mu.Unlock()

	products, err := s.ctrl.LoadAll(ctx, s.filters, func(loaded, total int) {
		s.mu.Lock()
		s.progress = &Progress{Loaded: loaded, Total: total}
		s.mu.Unlock()

		if onProgress != nil {
			onProgress(loaded, total)
		}
	})

	s.mu.Lock()
	s.loading--
	s.progress = nil
	if err != nil {
		s.err = err
	}
	s.mu.Unlock()

	return products, err
}

func (s *Session) begin() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
}

func (s *Session) finish(page int, p catalog.Page, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading--
	if err != nil {
		s.err = err
		return
	}
	s.page = page
	s.total = p.TotalCount
	s.err = nil
}
