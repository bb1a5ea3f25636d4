// Package upstream compares the installed gsd build against the latest
// published release.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/module"

	"github.com/kingrea/gsd/internal/version"
)

// ModulePath is the module checked for new releases.
const ModulePath = "github.com/kingrea/gsd"

// DefaultProxy is used when GOPROXY names no http proxy.
const DefaultProxy = "https://proxy.golang.org"

// Timeout bounds a proxy lookup.
const Timeout = 15 * time.Second

// Comparison results.
const (
	Behind   = "behind"
	Ahead    = "ahead"
	UpToDate = "up-to-date"
)

var ErrNoVersion = errors.New("upstream: no version")

// Comparison is the outcome of Compare.
type Comparison struct {
	NeedsUpdate bool
	Current     string
	Latest      string
	Result      string
}

// Compare orders two major.minor.patch versions numerically. Missing
// segments count as zero and a leading "v" is ignored. Pre-release and build
// suffixes are dropped, and a segment that is not a number compares equal.
func Compare(current, latest string) Comparison {
	c := Comparison{Current: current, Latest: latest, Result: UpToDate}
	cur, lat := segments(current), segments(latest)
	for i := range 3 {
		if cur[i] < 0 || lat[i] < 0 {
			continue
		}
		if cur[i] < lat[i] {
			c.Result = Behind
			c.NeedsUpdate = true
			return c
		}
		if cur[i] > lat[i] {
			c.Result = Ahead
			return c
		}
	}
	return c
}

// segments returns the first three numeric parts; -1 marks a part that does
// not parse.
func segments(v string) [3]int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var out [3]int
	parts := strings.Split(v, ".")
	for i := range 3 {
		if i >= len(parts) {
			continue
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			n = -1
		}
		out[i] = n
	}
	return out
}

// Installed returns the running binary's version. A version injected at link
// time wins over the module version recorded in the build info.
func Installed() (string, error) {
	if version.Version != "" && version.Version != "dev" {
		return version.Version, nil
	}
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "", fmt.Errorf("%w: binary carries no release version", ErrNoVersion)
	}
	return info.Main.Version, nil
}

// Client looks up releases on a Go module proxy.
type Client struct {
	Proxy string
	HTTP  *http.Client
}

// NewClient uses the first http entry of GOPROXY, or DefaultProxy.
func NewClient() *Client {
	return &Client{Proxy: proxyFromEnv(os.Getenv("GOPROXY")), HTTP: &http.Client{Timeout: Timeout}}
}

func proxyFromEnv(env string) string {
	for _, entry := range strings.FieldsFunc(env, func(r rune) bool { return r == ',' || r == '|' }) {
		if strings.HasPrefix(entry, "http://") || strings.HasPrefix(entry, "https://") {
			return strings.TrimRight(entry, "/")
		}
	}
	return DefaultProxy
}

type latestInfo struct {
	Version string    `json:"Version"`
	Time    time.Time `json:"Time"`
}

// Latest asks the proxy for the newest release of modulePath.
func (c *Client) Latest(ctx context.Context, modulePath string) (string, error) {
	escaped, err := module.EscapePath(modulePath)
	if err != nil {
		return "", fmt.Errorf("upstream: escape %q: %w", modulePath, err)
	}
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Proxy+"/"+escaped+"/@latest", nil)
	if err != nil {
		return "", fmt.Errorf("upstream: build request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream: check latest version: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream: check latest version: proxy returned %s", resp.Status)
	}
	var info latestInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("upstream: decode proxy response: %w", err)
	}
	if info.Version == "" {
		return "", fmt.Errorf("%w: empty version returned for %s", ErrNoVersion, modulePath)
	}
	return info.Version, nil
}

// Check compares the installed build against the latest release.
func (c *Client) Check(ctx context.Context) (Comparison, error) {
	current, err := Installed()
	if err != nil {
		return Comparison{}, err
	}
	latest, err := c.Latest(ctx, ModulePath)
	if err != nil {
		return Comparison{}, err
	}
	return Compare(current, latest), nil
}
