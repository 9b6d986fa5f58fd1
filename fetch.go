package rigview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned by fetchers when an asset does not exist.
var ErrNotFound = errors.New("rigview: asset not found")

// Fetcher retrieves raw asset bytes by path. Paths use forward slashes and
// are relative to the fetcher's root.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// maxAssetSize bounds a single fetched asset.
const maxAssetSize = 256 << 20

// HTTPFetcher fetches assets with plain HTTP GET requests relative to
// BaseURL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher returns a fetcher rooted at baseURL with a 30s timeout.
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	u, err := f.resolve(name)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("rigview: fetch %s: %w", name, err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rigview: fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("rigview: fetch %s: %w", name, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("rigview: fetch %s: unexpected status %s", name, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("rigview: fetch %s: %w", name, err)
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("rigview: fetch %s: asset exceeds %d bytes", name, maxAssetSize)
	}
	return data, nil
}

func (f *HTTPFetcher) resolve(name string) (string, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return "", fmt.Errorf("rigview: fetch %s: %w", name, err)
	}
	if ref.IsAbs() || f.BaseURL == "" {
		return ref.String(), nil
	}
	base, err := url.Parse(strings.TrimSuffix(f.BaseURL, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("rigview: base url: %w", err)
	}
	ref.Path = strings.TrimPrefix(ref.Path, "/")
	return base.ResolveReference(ref).String(), nil
}

// DirFetcher reads assets from a local directory.
type DirFetcher struct {
	Root string
}

// Fetch implements Fetcher. Names escaping Root are rejected.
func (f DirFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := path.Clean("/" + name)
	full := filepath.Join(f.Root, filepath.FromSlash(clean))
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("rigview: fetch %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("rigview: fetch %s: %w", name, err)
	}
	return data, nil
}

// FetchAll fetches names concurrently. The result is keyed by name; the
// first error cancels the remaining fetches.
func FetchAll(ctx context.Context, f Fetcher, names ...string) (map[string][]byte, error) {
	results := make([][]byte, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			data, err := f.Fetch(ctx, name)
			if err != nil {
				return err
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, nil
}
