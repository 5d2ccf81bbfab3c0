package engine

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

var ErrMissingColumn = errors.New("missing required column")

// LoadError reports a dataset that could not be fetched or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type loadConfig struct {
	client *http.Client
}

// LoadOption customises Load.
type LoadOption func(*loadConfig)

// WithHTTPClient sets the client used for remote sources.
func WithHTTPClient(c *http.Client) LoadOption {
	return func(cfg *loadConfig) { cfg.client = c }
}

// Load reads the customer CSV from an http(s) URL or a local path.
// Any failure is returned as a *LoadError.
func Load(ctx context.Context, source string, opts ...LoadOption) (*Dataset, error) {
	cfg := &loadConfig{client: http.DefaultClient}
	for _, opt := range opts {
		opt(cfg)
	}

	start := time.Now()
	log.Infof("Loading dataset from %s", source)

	rc, err := open(ctx, cfg.client, source)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	defer rc.Close()

	ds, err := parse(ctx, rc)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	log.Infof("Load Complete. Rows: %d. Distinct countries: %d. Time: %v",
		ds.Len(), len(ds.columns[Country].Dict), time.Since(start))
	return ds, nil
}

// LoadReader parses an already open CSV stream.
func LoadReader(r io.Reader) (*Dataset, error) {
	ds, err := parse(context.Background(), r)
	if err != nil {
		return nil, &LoadError{Source: "reader", Err: err}
	}
	return ds, nil
}

func open(ctx context.Context, client *http.Client, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.Open(source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

func parse(ctx context.Context, r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	// Header names are trimmed and unquoted before matching.
	positions := make(map[Attribute]int, len(RequiredAttributes))
	for i, h := range header {
		name := strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
		if a, err := ParseAttribute(name); err == nil {
			if _, dup := positions[a]; !dup {
				positions[a] = i
			}
		}
	}
	var missing []string
	for _, a := range RequiredAttributes {
		if _, ok := positions[a]; !ok {
			missing = append(missing, string(a))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	raw := make(map[Attribute][]string, len(RequiredAttributes))
	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rows+1, err)
		}
		for _, a := range RequiredAttributes {
			pos := positions[a]
			if pos >= len(record) {
				return nil, fmt.Errorf("row %d: %w: %s", rows+1, ErrMissingColumn, a)
			}
			raw[a] = append(raw[a], strings.TrimSpace(record[pos]))
		}
		rows++
	}

	return encodeParallel(ctx, rows, raw)
}

// encodeParallel builds one dictionary per column, each on its own goroutine.
func encodeParallel(ctx context.Context, rows int, raw map[Attribute][]string) (*Dataset, error) {
	ds := &Dataset{rows: rows, columns: make(map[Attribute]*column, len(raw))}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, a := range RequiredAttributes {
		a := a
		vals := raw[a]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c := encodeColumn(vals)
			mu.Lock()
			ds.columns[a] = c
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds.fingerprint = ds.digest()
	return ds, nil
}
