// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultAPIURL is the public GitHub REST API endpoint.
	DefaultAPIURL = "https://api.github.com"

	// DefaultUserAgent is sent when no WithUserAgent option is given.
	DefaultUserAgent = "pysetup/dev"

	// defaultCacheSize bounds the number of memoized contents responses.
	defaultCacheSize = 64

	// maxJSONResponseBytes is the upper bound on JSON API response size (10 MB).
	maxJSONResponseBytes = 10 << 20

	// listKey is the cache key for the root directory listing.
	listKey = "\x00list"
)

type (
	// RateLimitError is returned when the GitHub API rate limit is exceeded.
	RateLimitError struct {
		Limit     int
		Remaining int
		ResetAt   time.Time
	}

	// GitHubReader reads artifacts through the GitHub contents API.
	// Responses, including "not found" answers, are memoized per path so the
	// cascade and the shebang scan never fetch the same file twice.
	GitHubReader struct {
		httpClient *http.Client
		loc        Locator
		baseURL    string // API base URL (default: DefaultAPIURL, overridable for tests)
		token      string // Optional token for authenticated requests
		userAgent  string
		cacheSize  int
		cache      *lru.Cache[string, cachedResponse]
		logger     *log.Logger
	}

	// GitHubOption configures a GitHubReader during construction.
	GitHubOption func(*GitHubReader)

	cachedResponse struct {
		body []byte
		err  error
	}

	// contentsItem is the JSON wire format of a contents API object.
	contentsItem struct {
		Type     string `json:"type"`
		Name     string `json:"name"`
		Path     string `json:"path"`
		Size     int64  `json:"size"`
		Encoding string `json:"encoding"`
		Content  string `json:"content"`
	}
)

// Error formats the rate limit details as a human-readable message.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded (%d remaining, resets at %s)",
		e.Remaining, e.ResetAt.UTC().Format("15:04 UTC"))
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) GitHubOption {
	return func(g *GitHubReader) {
		g.httpClient = c
	}
}

// WithBaseURL overrides the GitHub API base URL, primarily for test servers.
func WithBaseURL(base string) GitHubOption {
	return func(g *GitHubReader) {
		if base != "" {
			g.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithToken sets a GitHub personal access token for authenticated requests.
// Authenticated requests have a higher rate limit (5000/hour vs 60/hour).
func WithToken(token string) GitHubOption {
	return func(g *GitHubReader) {
		g.token = token
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) GitHubOption {
	return func(g *GitHubReader) {
		if ua != "" {
			g.userAgent = ua
		}
	}
}

// WithCacheSize sets how many responses are memoized.
func WithCacheSize(n int) GitHubOption {
	return func(g *GitHubReader) {
		if n > 0 {
			g.cacheSize = n
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) GitHubOption {
	return func(g *GitHubReader) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGitHubReader creates a reader for a remote locator.
func NewGitHubReader(loc Locator, opts ...GitHubOption) (*GitHubReader, error) {
	if !loc.IsRemote() {
		return nil, &InvalidLocatorError{Value: loc.String(), Reason: "not a remote repository"}
	}

	g := &GitHubReader{
		httpClient: http.DefaultClient,
		loc:        loc,
		baseURL:    DefaultAPIURL,
		userAgent:  DefaultUserAgent,
		cacheSize:  defaultCacheSize,
		logger:     log.Default().WithPrefix("github"),
	}
	for _, opt := range opts {
		opt(g)
	}

	cache, err := lru.New[string, cachedResponse](g.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating response cache: %w", err)
	}
	g.cache = cache
	return g, nil
}

// Locator returns the remote locator.
func (g *GitHubReader) Locator() Locator { return g.loc }

// Read fetches a single file through the contents API and decodes it.
func (g *GitHubReader) Read(ctx context.Context, name string) ([]byte, error) {
	clean := path.Clean("/" + name)[1:]
	if clean == "" || clean != strings.TrimPrefix(name, "./") {
		return nil, &NotFoundError{Name: name, Reason: ReasonOutsideRoot}
	}

	body, err := g.fetch(ctx, clean, clean)
	if err != nil {
		return nil, err
	}

	// A JSON array means the path is a directory.
	if trimmed := strings.TrimSpace(string(body)); strings.HasPrefix(trimmed, "[") {
		return nil, &NotFoundError{Name: name, Reason: ReasonMissing}
	}

	var item contentsItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, &NotFoundError{Name: name, Reason: ReasonDecode, Cause: err}
	}
	if item.Type != "" && item.Type != "file" {
		return nil, &NotFoundError{Name: name, Reason: ReasonMissing}
	}
	if item.Size > maxArtifactBytes {
		return nil, &NotFoundError{Name: name, Reason: ReasonTooLarge}
	}
	if item.Encoding != "base64" {
		return nil, &NotFoundError{
			Name:   name,
			Reason: ReasonDecode,
			Cause:  fmt.Errorf("unsupported content encoding %q", item.Encoding),
		}
	}

	data, err := base64.StdEncoding.DecodeString(stripNewlines(item.Content))
	if err != nil {
		return nil, &NotFoundError{Name: name, Reason: ReasonDecode, Cause: err}
	}
	return data, nil
}

// List returns the top-level entries of the repository.
func (g *GitHubReader) List(ctx context.Context) ([]Entry, error) {
	body, err := g.fetch(ctx, listKey, "")
	if err != nil {
		return nil, err
	}

	var items []contentsItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &NotFoundError{Name: ".", Reason: ReasonDecode, Cause: err}
	}

	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		p := it.Path
		if p == "" {
			p = it.Name
		}
		entries = append(entries, Entry{Path: p, Size: it.Size, IsDir: it.Type == "dir"})
	}
	return entries, nil
}

// fetch returns the raw JSON body for a contents path, consulting the cache
// first. Successful bodies and plain 404s are cached; transient failures are not.
func (g *GitHubReader) fetch(ctx context.Context, key, p string) ([]byte, error) {
	if cached, ok := g.cache.Get(key); ok {
		return cached.body, cached.err
	}

	body, err := g.fetchUncached(ctx, p)
	if err == nil || ReasonOf(err) == ReasonMissing {
		g.cache.Add(key, cachedResponse{body: body, err: err})
	}
	return body, err
}

func (g *GitHubReader) fetchUncached(ctx context.Context, p string) ([]byte, error) {
	name := p
	if name == "" {
		name = "."
	}

	reqURL := g.contentsURL(p)
	resp, err := g.doRequest(ctx, reqURL)
	if err != nil {
		return nil, &NotFoundError{Name: name, Reason: ReasonNetwork, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	g.logger.Debug("contents request", "path", name, "status", resp.StatusCode)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &NotFoundError{Name: name, Reason: ReasonMissing}
	case http.StatusForbidden, http.StatusTooManyRequests:
		if rlErr := checkRateLimit(resp); rlErr != nil {
			return nil, &NotFoundError{Name: name, Reason: ReasonRateLimit, Cause: rlErr}
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, &NotFoundError{
				Name:   name,
				Reason: ReasonRateLimit,
				Cause:  fmt.Errorf("unexpected status %d", resp.StatusCode),
			}
		}
		return nil, &NotFoundError{
			Name:   name,
			Reason: ReasonAuth,
			Cause:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	case http.StatusUnauthorized:
		return nil, &NotFoundError{
			Name:   name,
			Reason: ReasonAuth,
			Cause:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	default:
		return nil, &NotFoundError{
			Name:   name,
			Reason: ReasonNetwork,
			Cause:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONResponseBytes))
	if err != nil {
		return nil, &NotFoundError{Name: name, Reason: ReasonNetwork, Cause: err}
	}
	return body, nil
}

// contentsURL builds /repos/{owner}/{repo}/contents[/{path}][?ref=...].
func (g *GitHubReader) contentsURL(p string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/repos/%s/%s/contents", g.baseURL,
		url.PathEscape(g.loc.Owner()), url.PathEscape(g.loc.Name()))
	if p != "" {
		for seg := range strings.SplitSeq(p, "/") {
			b.WriteByte('/')
			b.WriteString(url.PathEscape(seg))
		}
	}
	if ref := g.loc.Ref(); ref != "" {
		b.WriteString("?ref=")
		b.WriteString(url.QueryEscape(ref))
	}
	return b.String()
}

// doRequest creates and executes an HTTP request with common GitHub API headers.
func (g *GitHubReader) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", g.userAgent)

	// Only attach the auth token when the request targets the configured API host.
	if g.token != "" && isAPIHost(req.URL, g.baseURL) {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("executing request: %w", err)
	}
	return resp, nil
}

// checkRateLimit inspects the X-RateLimit-* headers of a rejected response and
// returns a RateLimitError when the remaining quota is zero. A successful
// response that spends the last unit of quota is still a success.
func checkRateLimit(resp *http.Response) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}

	rem, err := strconv.Atoi(remaining)
	if err != nil || rem > 0 {
		return nil //nolint:nilerr // Non-numeric header is non-fatal.
	}

	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))                 //nolint:errcheck // Best-effort header parsing.
	resetUnix, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64) //nolint:errcheck // Best-effort header parsing.

	return &RateLimitError{
		Limit:     limit,
		Remaining: 0,
		ResetAt:   time.Unix(resetUnix, 0),
	}
}

// isAPIHost reports whether reqURL targets the configured API host.
func isAPIHost(reqURL *url.URL, baseURL string) bool {
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(reqURL.Host, base.Host)
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}
