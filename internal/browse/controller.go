// Package browse owns the browsing selection (category, search term, page),
// persists it on every change and drives fetches through the proxy.
//
// A fetch is split into Begin, Run and Complete so the caller decides where
// the blocking part runs. Begin cancels the previous in-flight request and
// Complete drops any result whose sequence number is no longer current.
package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	log "github.com/sirupsen/logrus"

	"news/aggregator/internal/domain"
	"news/aggregator/internal/query"
	"news/aggregator/internal/state"
)

var ErrUnknownCategory = errors.New("unknown category")

// Fetcher is satisfied by *backend.Client.
type Fetcher interface {
	Fetch(ctx context.Context, mode query.Mode) (*domain.NewsResponse, error)
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return "idle"
	}
}

type Options struct {
	// PageSize is the upstream page size used to derive HasMore from totalResults.
	PageSize int
	// Freshness is how long an identical request reuses the previous result.
	// Zero disables reuse.
	Freshness time.Duration
	CacheSize int
}

type Request struct {
	Seq  uint64
	Mode query.Mode
	ctx  context.Context
}

type Result struct {
	Seq  uint64
	Mode query.Mode
	News *domain.NewsResponse
	Err  error
}

// View is a snapshot for rendering.
type View struct {
	Status       Status
	Err          string
	Category     domain.Category
	Search       string
	Page         int
	Articles     []domain.Article
	TotalResults int
	CanPrev      bool
	CanNext      bool
}

type Controller struct {
	store   state.PreferencesStore
	fetcher Fetcher
	opts    Options
	cache   *expirable.LRU[string, *domain.NewsResponse]

	mu      sync.Mutex
	prefs   domain.Preferences
	seq     uint64
	cancel  context.CancelFunc
	status  Status
	err     error
	news    *domain.NewsResponse
	hasMore bool
}

func New(store state.PreferencesStore, fetcher Fetcher, opts Options) *Controller {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}

	c := &Controller{
		store:   store,
		fetcher: fetcher,
		opts:    opts,
		prefs:   domain.DefaultPreferences(),
	}
	if opts.Freshness > 0 {
		c.cache = expirable.NewLRU[string, *domain.NewsResponse](opts.CacheSize, nil, opts.Freshness)
	}
	return c
}

// Init seeds the selection from the store, falling back to defaults.
func (c *Controller) Init(ctx context.Context) {
	prefs, err := c.store.Load(ctx)
	switch {
	case errors.Is(err, state.ErrNotFound):
		prefs = domain.DefaultPreferences()
	case err != nil:
		log.Warnf("⚠️ Failed to load preferences, using defaults: %v", err)
		prefs = domain.DefaultPreferences()
	}

	c.mu.Lock()
	c.prefs = prefs.Normalize()
	c.mu.Unlock()
}

func (c *Controller) Preferences() domain.Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

// SelectCategory switches category and resets the page to 1.
// Selecting the current category changes nothing.
func (c *Controller) SelectCategory(ctx context.Context, category domain.Category) (bool, error) {
	if !category.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	c.mu.Lock()
	if category == c.prefs.Category {
		c.mu.Unlock()
		return false, nil
	}
	c.prefs.Category = category
	c.prefs.Page = 1
	prefs := c.prefs
	c.mu.Unlock()

	return true, c.persist(ctx, prefs)
}

// SetSearch stores the search term. The page is intentionally kept.
func (c *Controller) SetSearch(ctx context.Context, term string) (bool, error) {
	c.mu.Lock()
	if term == c.prefs.Search {
		c.mu.Unlock()
		return false, nil
	}
	c.prefs.Search = term
	prefs := c.prefs
	c.mu.Unlock()

	return true, c.persist(ctx, prefs)
}

func (c *Controller) NextPage(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if !c.canNextLocked() {
		c.mu.Unlock()
		return false, nil
	}
	c.prefs.Page++
	prefs := c.prefs
	c.mu.Unlock()

	return true, c.persist(ctx, prefs)
}

func (c *Controller) PrevPage(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.prefs.Page <= 1 {
		c.prefs.Page = 1
		c.mu.Unlock()
		return false, nil
	}
	c.prefs.Page--
	prefs := c.prefs
	c.mu.Unlock()

	return true, c.persist(ctx, prefs)
}

func (c *Controller) CanPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs.Page > 1
}

func (c *Controller) CanNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canNextLocked()
}

func (c *Controller) canNextLocked() bool {
	return c.status == StatusReady && c.hasMore
}

// Begin starts a fetch for the current selection and cancels the previous
// one. When a fresh result for the same selection is cached it is applied
// immediately and fetch is false.
func (c *Controller) Begin(ctx context.Context) (req Request, fetch bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	c.seq++
	mode := query.New(c.prefs.Category.String(), c.prefs.Search, c.prefs.Page)
	req = Request{Seq: c.seq, Mode: mode}

	if c.cache != nil {
		if news, ok := c.cache.Get(mode.Key()); ok {
			log.Debugf("Reusing cached result for %s", mode.Key())
			c.applyLocked(mode, news, nil)
			return req, false
		}
	}

	reqCtx, cancel := context.WithCancel(ctx)
	req.ctx = reqCtx
	c.cancel = cancel
	c.status = StatusLoading
	c.err = nil
	return req, true
}

// Run performs the blocking fetch for req. It does not touch controller state.
func (c *Controller) Run(req Request) Result {
	ctx := req.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	news, err := c.fetcher.Fetch(ctx, req.Mode)
	return Result{Seq: req.Seq, Mode: req.Mode, News: news, Err: err}
}

// Complete applies res if it belongs to the latest request and reports
// whether it did.
func (c *Controller) Complete(res Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res.Seq != c.seq {
		log.Debugf("Dropping stale result #%d (current #%d)", res.Seq, c.seq)
		return false
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if res.Err == nil && res.News == nil {
		res.News = &domain.NewsResponse{}
	}
	c.applyLocked(res.Mode, res.News, res.Err)
	if res.Err == nil && c.cache != nil {
		c.cache.Add(res.Mode.Key(), res.News)
	}
	return true
}

// Refresh runs a whole fetch synchronously.
func (c *Controller) Refresh(ctx context.Context) View {
	req, fetch := c.Begin(ctx)
	if fetch {
		c.Complete(c.Run(req))
	}
	return c.View()
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Status:   c.status,
		Category: c.prefs.Category,
		Search:   c.prefs.Search,
		Page:     c.prefs.Page,
		CanPrev:  c.prefs.Page > 1,
		CanNext:  c.canNextLocked(),
	}
	if c.err != nil {
		v.Err = c.err.Error()
	}
	if c.status == StatusReady && c.news != nil {
		v.Articles = append([]domain.Article(nil), c.news.Articles...)
		v.TotalResults = c.news.TotalResults
	}
	return v
}

func (c *Controller) applyLocked(mode query.Mode, news *domain.NewsResponse, err error) {
	if err != nil {
		c.status = StatusError
		c.err = err
		c.news = nil
		c.hasMore = false
		return
	}
	c.status = StatusReady
	c.err = nil
	c.news = news
	c.hasMore = hasMore(news, mode.PageNumber(), c.opts.PageSize)
}

func (c *Controller) persist(ctx context.Context, prefs domain.Preferences) error {
	if err := c.store.Save(ctx, prefs); err != nil {
		log.Errorf("❌ Failed to persist preferences: %v", err)
		return fmt.Errorf("persisting preferences: %w", err)
	}
	return nil
}

// hasMore prefers the upstream total over the "empty page" heuristic.
func hasMore(news *domain.NewsResponse, page, pageSize int) bool {
	if news == nil || len(news.Articles) == 0 {
		return false
	}
	if news.TotalResults > 0 && pageSize > 0 {
		return page*pageSize < news.TotalResults
	}
	return true
}
