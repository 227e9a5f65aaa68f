// Package culler finds bookmarks whose urls no longer resolve.
package culler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/bkmr/internal/logger"
	"github.com/nikbrunner/bkmr/internal/model"
)

// Status is the outcome of checking one url.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx
	Dead                      // 404 or 410
	Unreachable               // no usable answer: timeout, DNS, 5xx, auth walls
	Skipped                   // not an http(s) url, e.g. a shell command or file path
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	case Unreachable:
		return "unreachable"
	default:
		return "skipped"
	}
}

// Result is the check outcome for a single bookmark.
type Result struct {
	Bookmark   model.Bookmark
	Status     Status
	StatusCode int    // 0 when no response arrived
	Error      string // short reason for Unreachable
}

// Options controls a check run.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	// ExcludeDomains are hosts (and their subdomains) that answer 404 for
	// private pages; their 404s count as unreachable, not dead.
	ExcludeDomains []string
}

// ProgressFunc is called once per checked bookmark with the running count.
type ProgressFunc func(completed, total int)

// Checker probes bookmark urls with a bounded number of workers.
type Checker struct {
	client      *http.Client
	concurrency int
	excluded    map[string]bool
	log         logger.Logger
}

// NewChecker creates a Checker. A nil logger discards log output.
func NewChecker(opts Options, log logger.Logger) *Checker {
	if log == nil {
		log = logger.NewNop()
	}
	excluded := make(map[string]bool, len(opts.ExcludeDomains))
	for _, domain := range opts.ExcludeDomains {
		excluded[strings.ToLower(strings.TrimSpace(domain))] = true
	}

	return &Checker{
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		concurrency: max(opts.Concurrency, 1),
		excluded:    excluded,
		log:         log,
	}
}

// Check probes every bookmark and returns one result per bookmark in input
// order. Bookmarks not reached before ctx is cancelled are Unreachable.
func (c *Checker) Check(ctx context.Context, bookmarks []model.Bookmark, onProgress ProgressFunc) []Result {
	if len(bookmarks) == 0 {
		return nil
	}

	results := make([]Result, len(bookmarks))
	jobs := make(chan int)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)
	for range c.concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.check(ctx, bookmarks[i])
				if onProgress != nil {
					mu.Lock()
					completed++
					onProgress(completed, len(bookmarks))
					mu.Unlock()
				}
			}
		}()
	}

	next := 0
feed:
	for ; next < len(bookmarks); next++ {
		select {
		case jobs <- next:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(bookmarks); i++ {
		results[i] = Result{Bookmark: bookmarks[i], Status: Unreachable, Error: "Cancelled"}
	}
	return results
}

// DeadBookmarks returns the bookmarks of results with status Dead.
func DeadBookmarks(results []Result) []model.Bookmark {
	var dead []model.Bookmark
	for _, r := range results {
		if r.Status == Dead {
			dead = append(dead, r.Bookmark)
		}
	}
	return dead
}

func (c *Checker) check(ctx context.Context, bm model.Bookmark) Result {
	result := Result{Bookmark: bm}

	parsed, err := url.Parse(bm.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		result.Status = Skipped
		return result
	}

	// Some servers reject HEAD, so a failed HEAD is retried as GET.
	resp, err := c.do(ctx, http.MethodHead, bm.URL)
	if err != nil {
		resp, err = c.do(ctx, http.MethodGet, bm.URL)
	}
	if err != nil {
		result.Status = Unreachable
		result.Error = describeError(err)
		c.log.Debug("url unreachable", logger.Int("id", bm.ID), logger.Err(err))
		return result
	}
	resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.Status, result.Error = c.classify(resp.StatusCode, parsed.Hostname())
	return result
}

func (c *Checker) classify(code int, host string) (Status, string) {
	switch {
	case code >= 200 && code < 400:
		return Healthy, ""
	case code == http.StatusNotFound || code == http.StatusGone:
		if isExcludedDomain(host, c.excluded) {
			return Unreachable, "Possibly private (auth required)"
		}
		return Dead, ""
	default:
		return Unreachable, http.StatusText(code)
	}
}

func (c *Checker) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "bkmr")
	return c.client.Do(req)
}

// isExcludedDomain reports whether host or one of its parent domains is excluded.
func isExcludedDomain(host string, excluded map[string]bool) bool {
	host = strings.ToLower(host)
	for {
		if excluded[host] {
			return true
		}
		_, parent, ok := strings.Cut(host, ".")
		if !ok {
			return false
		}
		host = parent
	}
}

// describeError turns transport errors into a short category.
func describeError(err error) string {
	var (
		dnsErr *net.DNSError
		netErr net.Error
	)
	switch {
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	case errors.As(err, &dnsErr):
		return "DNS failure"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "Timeout"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return "Connection refused"
	case strings.Contains(msg, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(msg, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(msg, "tls:"):
		return "TLS error"
	default:
		return err.Error()
	}
}
