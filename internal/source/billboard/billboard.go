// Package billboard scrapes year-end chart pages from billboard.com.
package billboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"chartsync/internal/source"
)

const (
	titleSelector = "h3.c-title"
	labelSelector = "span.c-label"
)

// Client fetches one chart page. The page is always returned whole, so the
// client does not implement source.Seeker.
type Client struct {
	pageURL    string
	userAgent  string
	httpClient *http.Client
}

var _ source.Source = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with page requests.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(agent)
	}
}

// New creates a client for the chart page at pageURL.
func New(pageURL string, opts ...Option) (*Client, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, fmt.Errorf("billboard page url required")
	}
	client := &Client{
		pageURL:    pageURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name identifies the source in logs.
func (c *Client) Name() string { return "billboard" }

// Open fetches and parses the page.
func (c *Client) Open(ctx context.Context) (source.Iterator, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return nil, source.Unavailable(c.Name(), "build request", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, source.Unavailable(c.Name(), "fetch", fmt.Errorf("execute request (latency=%v): %w", latency, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, source.Malformed(c.Name(), "chart page returned %d (latency=%v)", resp.StatusCode, latency)
	}

	entries, err := Parse(resp.Body)
	if err != nil {
		return nil, err
	}
	return source.NewSliceIterator(entries), nil
}

type node struct {
	title bool
	text  string
}

// Parse extracts entries from chart page markup. Every title heading is an
// entry; its rank is the nearest label before it and its artist the nearest
// label after it, in document order. A missing label leaves the field absent.
// A page with no title headings at all is malformed.
func Parse(r io.Reader) ([]source.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, source.Unavailable("billboard", "parse", err)
	}

	var nodes []node
	doc.Find(titleSelector + ", " + labelSelector).Each(func(_ int, sel *goquery.Selection) {
		nodes = append(nodes, node{
			title: goquery.NodeName(sel) == "h3",
			text:  strings.Join(strings.Fields(sel.Text()), " "),
		})
	})

	var entries []source.Entry
	for i, n := range nodes {
		if !n.title {
			continue
		}
		entry := source.Entry{Track: n.text}
		for j := i - 1; j >= 0; j-- {
			if !nodes[j].title {
				entry.Rank = source.Present(nodes[j].text)
				break
			}
		}
		for j := i + 1; j < len(nodes); j++ {
			if !nodes[j].title {
				entry.Artist = source.Present(nodes[j].text)
				break
			}
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, source.Malformed("billboard", "page contains no %s elements", titleSelector)
	}
	return entries, nil
}
