package research

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticlesEnhancer/internal/search"
)

const (
	googleEndpoint     = "https://www.google.com/search"
	duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"
)

// RedirectEngine scrapes a search result page whose outbound links are wrapped
// in an engine-local redirect such as /url?q=<target>.
type RedirectEngine struct {
	name        string
	domain      string
	endpoint    string
	queryParam  string
	wrapperPath string
	targetParam string
	client      *http.Client
}

var _ search.Engine = (*RedirectEngine)(nil)

// NewGoogleEngine scrapes google.com result pages; endpoint defaults to the public one.
func NewGoogleEngine(client *http.Client, endpoint string) *RedirectEngine {
	if endpoint == "" {
		endpoint = googleEndpoint
	}
	return &RedirectEngine{
		name:        "google",
		domain:      "google.com",
		endpoint:    endpoint,
		queryParam:  "q",
		wrapperPath: "/url",
		targetParam: "q",
		client:      defaultClient(client),
	}
}

// NewDuckDuckGoEngine scrapes the HTML-only DuckDuckGo frontend.
func NewDuckDuckGoEngine(client *http.Client, endpoint string) *RedirectEngine {
	if endpoint == "" {
		endpoint = duckDuckGoEndpoint
	}
	return &RedirectEngine{
		name:        "duckduckgo",
		domain:      "duckduckgo.com",
		endpoint:    endpoint,
		queryParam:  "q",
		wrapperPath: "/l",
		targetParam: "uddg",
		client:      defaultClient(client),
	}
}

func defaultClient(client *http.Client) *http.Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return client
}

// Name identifies the engine inside the registry.
func (e *RedirectEngine) Name() string {
	return e.name
}

// Domain is the engine's own domain.
func (e *RedirectEngine) Domain() string {
	return e.domain
}

// Search fetches the result page for the query and unwraps every redirect link.
func (e *RedirectEngine) Search(ctx context.Context, req search.Request) ([]string, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%s: empty query", e.name)
	}

	pageURL, err := buildSearchURL(e.endpoint, e.queryParam, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}

	doc, err := fetchDocument(ctx, e.client, pageURL, req.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}

	return e.extractLinks(doc), nil
}

func (e *RedirectEngine) extractLinks(doc *goquery.Document) []string {
	var (
		links []string
		seen  = map[string]struct{}{}
	)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		target, ok := unwrapRedirect(href, e.wrapperPath, e.targetParam)
		if !ok {
			return
		}
		if _, dup := seen[target]; dup {
			return
		}
		seen[target] = struct{}{}
		links = append(links, target)
	})

	return links
}

// unwrapRedirect returns the target of a redirect-wrapper href.
// Only absolute http(s) targets are accepted.
func unwrapRedirect(href, wrapperPath, targetParam string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if strings.TrimSuffix(parsed.Path, "/") != wrapperPath {
		return "", false
	}

	raw := parsed.Query().Get(targetParam)
	if raw == "" {
		return "", false
	}

	target, err := url.Parse(raw)
	if err != nil || target.Host == "" {
		return "", false
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return "", false
	}

	return target.String(), true
}

func fetchDocument(ctx context.Context, client *http.Client, pageURL, userAgent string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(limitBody(resp))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func buildSearchURL(base, param, query string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid search endpoint %s: %w", base, err)
	}

	values := parsed.Query()
	values.Set(param, query)
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}
