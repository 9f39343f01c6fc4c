package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/matzehuels/reqcheck/pkg/cache"
	"github.com/matzehuels/reqcheck/pkg/requirements"
)

const httpTimeout = 10 * time.Second

var (
	depNameRE   = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)`)
	extraNameRE = regexp.MustCompile(`extra\s*==\s*["']([^"']+)["']`)
)

// PackageInfo holds the metadata reqcheck needs from one PyPI package.
//
// RuntimeDeps lists the unconditional requires_dist names; dependencies
// guarded by an `extra == "name"` marker are grouped under Extras instead.
// All names are normalized.
type PackageInfo struct {
	Name        string              `json:"name"`
	Version     string              `json:"version"`
	Summary     string              `json:"summary"`
	RuntimeDeps []string            `json:"runtime_deps"`
	Extras      map[string][]string `json:"extras"`
}

// Client provides access to the PyPI package registry API.
// All methods are safe for concurrent use.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	baseURL string
}

// NewClient creates a PyPI client with the given cache backend.
// Use cache.NewNullCache() to disable caching.
func NewClient(backend cache.Cache, ttl time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   backend,
		ttl:     ttl,
		baseURL: "https://pypi.org/pypi",
	}
}

// FetchPackage retrieves metadata for pkg, which is normalized first.
// If refresh is true the cache is bypassed.
//
// Returns cache.ErrNotFound if the package does not exist and
// cache.ErrNetwork for HTTP failures after retries are exhausted.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = requirements.Normalize(pkg)
	if pkg == "" {
		return nil, fmt.Errorf("empty package name")
	}
	key := cache.Key("pypi", pkg)

	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			var info PackageInfo
			if err := json.Unmarshal(data, &info); err == nil {
				return &info, nil
			}
			// Corrupt entry; fall through and refetch.
		}
	}

	var info *PackageInfo
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		info, err = c.fetch(ctx, pkg)
		return err
	})
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(info); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string) (*PackageInfo, error) {
	url := fmt.Sprintf("%s/%s/json", c.baseURL, pkg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "reqcheck")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: pypi package %s", cache.ErrNotFound, pkg)
	case resp.StatusCode >= 500:
		return nil, cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode))
	default:
		return nil, fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	runtime, extras := splitRequiresDist(data.Info.RequiresDist)
	return &PackageInfo{
		Name:        requirements.Normalize(data.Info.Name),
		Version:     data.Info.Version,
		Summary:     data.Info.Summary,
		RuntimeDeps: runtime,
		Extras:      extras,
	}, nil
}

// IsNotFound reports whether err means the package does not exist.
func IsNotFound(err error) bool { return errors.Is(err, cache.ErrNotFound) }

// splitRequiresDist separates requires_dist entries into unconditional
// runtime dependencies and extra-conditioned groups. Markers other than
// `extra == ...` (python_version, sys_platform, ...) do not disqualify a
// dependency: whether the condition holds is unknowable statically, so the
// split over-approximates like the import extractor does.
func splitRequiresDist(requires []string) ([]string, map[string][]string) {
	var runtime []string
	extras := make(map[string][]string)
	seen := make(map[string]bool)

	for _, req := range requires {
		req = strings.TrimSpace(req)
		if req == "" {
			continue
		}

		m := depNameRE.FindString(req)
		if m == "" {
			continue
		}
		dep := requirements.Normalize(m)

		if marker, hasMarker := cutMarker(req); hasMarker && strings.Contains(marker, "extra") {
			if em := extraNameRE.FindStringSubmatch(marker); em != nil {
				extras[em[1]] = append(extras[em[1]], dep)
				continue
			}
		}

		if !seen[dep] {
			seen[dep] = true
			runtime = append(runtime, dep)
		}
	}

	if len(extras) == 0 {
		extras = nil
	}
	return runtime, extras
}

func cutMarker(req string) (string, bool) {
	if i := strings.Index(req, ";"); i >= 0 {
		return strings.TrimSpace(req[i+1:]), true
	}
	return "", false
}

type apiResponse struct {
	Info apiInfo `json:"info"`
}

type apiInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Summary      string   `json:"summary"`
	RequiresDist []string `json:"requires_dist"`
}
