// Package insideairbnb finds and downloads the summary listings.csv files
// published on Inside Airbnb's "get the data" page.
package insideairbnb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"airbnb-cleaner/config"
	"airbnb-cleaner/utils"
)

// DefaultSourceURL is the page listing every city snapshot.
const DefaultSourceURL = "https://insideairbnb.com/get-the-data/"

const snapshotLayout = "2006-01-02"

// ErrCityNotFound is wrapped when a requested city has no published snapshot.
var ErrCityNotFound = errors.New("city not found")

// Source is one published listings snapshot.
type Source struct {
	City string
	Date time.Time
	URL  string
}

// FileName is the local name a snapshot is saved under.
func (s Source) FileName() string {
	return fmt.Sprintf("%s-%s-listings.csv", s.City, s.Date.Format(snapshotLayout))
}

// ParseSourceURL extracts the city slug and snapshot date from a link such as
// https://data.insideairbnb.com/united-states/ny/albany/2024-03-21/visualisations/listings.csv
func ParseSourceURL(raw string) (Source, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Source{}, fmt.Errorf("parse %q: %w", raw, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 1; i < len(parts); i++ {
		d, err := time.Parse(snapshotLayout, parts[i])
		if err != nil {
			continue
		}
		return Source{City: strings.ToLower(parts[i-1]), Date: d, URL: u.String()}, nil
	}
	return Source{}, fmt.Errorf("no snapshot date in %q", raw)
}

// Select picks the newest snapshot for each requested city, in the order the
// cities were given. Matching is case-insensitive and treats spaces as dashes.
func Select(sources []Source, cities []string) ([]Source, error) {
	newest := make(map[string]Source)
	for _, s := range sources {
		if cur, ok := newest[s.City]; !ok || s.Date.After(cur.Date) {
			newest[s.City] = s
		}
	}

	var picked []Source
	var missing []string
	for _, c := range cities {
		slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c)), " ", "-")
		s, ok := newest[slug]
		if !ok {
			missing = append(missing, c)
			continue
		}
		picked = append(picked, s)
	}
	if len(missing) > 0 {
		return picked, fmt.Errorf("%w: %s", ErrCityNotFound, strings.Join(missing, ", "))
	}
	return picked, nil
}

// Fetcher discovers and downloads listings snapshots.
type Fetcher struct {
	cfg     *config.Config
	logger  *utils.Logger
	finder  LinkFinder
	client  *http.Client
	pool    *utils.WorkerPool
	visited *utils.URLSet
	retry   *utils.RetryConfig
}

// New creates a Fetcher. A nil finder uses headless Chrome.
func New(cfg *config.Config, logger *utils.Logger, finder LinkFinder) *Fetcher {
	if finder == nil {
		finder = NewBrowserFinder(cfg.ChromeBin, logger)
	}
	return &Fetcher{
		cfg:     cfg,
		logger:  logger,
		finder:  finder,
		client:  &http.Client{Timeout: 5 * time.Minute},
		pool:    utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		visited: utils.NewURLSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Discover returns every snapshot linked from the configured source page.
func (f *Fetcher) Discover(ctx context.Context) ([]Source, error) {
	pageURL := f.cfg.SourceURL
	if pageURL == "" {
		pageURL = DefaultSourceURL
	}

	var links []string
	err := f.retry.Do(ctx, "discover-sources", func(ctx context.Context) error {
		var err error
		links, err = f.finder.FindLinks(ctx, pageURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(links))
	for _, l := range links {
		s, err := ParseSourceURL(l)
		if err != nil {
			f.logger.Debug("[insideairbnb] Skipping link: %v", err)
			continue
		}
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].City != sources[j].City {
			return sources[i].City < sources[j].City
		}
		return sources[i].Date.After(sources[j].Date)
	})

	f.logger.Info("[insideairbnb] Discovered %d snapshots", len(sources))
	return sources, nil
}

// Download saves each source into dir concurrently and returns the written
// paths in the order of sources. Duplicate URLs are fetched once. A cancelled
// ctx is always reported, even when no download had started.
func (f *Fetcher) Download(ctx context.Context, sources []Source, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	paths := make([]string, len(sources))
	var mu sync.Mutex
	var errs []error
	var submitErr error

	for i, s := range sources {
		if !f.visited.Add(s.URL) {
			f.logger.Debug("[insideairbnb] Skipping duplicate: %s", s.URL)
			continue
		}
		i, s := i, s
		err := f.pool.Submit(ctx, func(ctx context.Context) {
			dest := filepath.Join(dir, s.FileName())
			err := f.retry.Do(ctx, "download-"+s.City, func(ctx context.Context) error {
				return f.fetchFile(ctx, s.URL, dest)
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			paths[i] = dest
			f.logger.Info("[insideairbnb] Saved %s snapshot %s -> %s",
				s.City, s.Date.Format(snapshotLayout), dest)
		})
		if err != nil {
			submitErr = err
			break
		}
	}
	f.pool.Wait()

	// Jobs skipped by a cancelled pool never report back.
	if submitErr == nil {
		submitErr = ctx.Err()
	}
	errs = append(errs, submitErr)

	var out []string
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out, errors.Join(errs...)
}

// fetchFile streams rawURL into dest through a temp file so a failed
// download never leaves a truncated CSV behind.
func (f *Fetcher) fetchFile(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %s", rawURL, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return os.Rename(tmp.Name(), dest)
}
