package source

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"civic_ingest/internal/model"
	"civic_ingest/internal/textnorm"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	maxFeedBytes   = 5 * 1024 * 1024
	maxDescription = 600
	userAgent      = "CivicIngest/1.0"
)

// RSS reads posts from an RSS or Atom feed. Every item becomes a
// social-short-form post.
type RSS struct {
	client  HTTPClient
	url     string
	timeout time.Duration
}

// NewRSS creates an RSS feed reader for url.
func NewRSS(client HTTPClient, url string) *RSS {
	return &RSS{
		client:  client,
		url:     url,
		timeout: 30 * time.Second,
	}
}

// Name implements Feed.
func (r *RSS) Name() string { return r.url }

// Posts implements Feed.
func (r *RSS) Posts(ctx context.Context) ([]model.RawPost, error) {
	feed, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}

	posts := make([]model.RawPost, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		posts = append(posts, itemPost(feed, item))
	}
	return posts, nil
}

func (r *RSS) fetch(ctx context.Context) (*gofeed.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

func itemPost(feed *gofeed.Feed, item *gofeed.Item) model.RawPost {
	desc := PlainText(item.Description)
	if d, cut := textnorm.Truncate(desc, maxDescription); cut {
		desc = d + "..."
	}

	text := strings.TrimSpace(item.Title)
	if desc != "" {
		text += "\n\n" + desc
	}

	post := model.RawPost{
		ID:           ItemGUID(item),
		Source:       model.SourceSocial,
		OriginHandle: itemHandle(feed, item),
		Text:         text,
	}
	if item.PublishedParsed != nil {
		post.ReceivedLabel = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else {
		post.ReceivedLabel = item.Published
	}
	return post
}

func itemHandle(feed *gofeed.Feed, item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
		return item.Authors[0].Name
	}
	if feed.Title != "" {
		return feed.Title
	}
	return feed.Link
}

// ItemGUID returns the GUID for an RSS item.
// If the item has no GUID, a SHA-256 hash of title+link is used.
func ItemGUID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	h := sha256.Sum256([]byte(item.Title + "|" + item.Link))
	return fmt.Sprintf("sha256:%x", h[:16])
}

// PlainText strips markup from an item description.
func PlainText(s string) string {
	if !strings.Contains(s, "<") {
		return textnorm.Collapse(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return textnorm.Collapse(s)
	}
	return textnorm.Collapse(doc.Text())
}
