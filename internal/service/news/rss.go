package news

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	xhttp "TradeLLM/pkg/http"

	"github.com/mmcdole/gofeed"
)

// RSSSource reads one RSS or Atom feed. Feeds are fetched once, no retries.
type RSSSource struct {
	name   string
	url    string
	client *xhttp.Client
}

func NewRSSSource(feedURL string, timeout time.Duration) *RSSSource {
	return &RSSSource{
		name:   feedName(feedURL),
		url:    feedURL,
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// NewRSSSources builds one source per configured feed, preserving order.
func NewRSSSources(feeds []string, timeout time.Duration) []domrepo.NewsSource {
	out := make([]domrepo.NewsSource, 0, len(feeds))
	for _, f := range feeds {
		out = append(out, NewRSSSource(f, timeout))
	}
	return out
}

func (s *RSSSource) Name() string { return s.name }

// Fetch returns feed items in feed order.
func (s *RSSSource) Fetch(ctx context.Context) ([]models.Article, error) {
	var body []byte
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     s.url,
		Headers: map[string]string{"Accept": "application/rss+xml, application/atom+xml, application/xml, text/xml"},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", s.name, err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", s.name, err)
	}

	out := make([]models.Article, 0, len(feed.Items))
	for _, it := range feed.Items {
		a := models.Article{
			Source:      s.name,
			Title:       strings.TrimSpace(it.Title),
			Description: strings.TrimSpace(it.Description),
			Link:        it.Link,
		}
		switch {
		case it.PublishedParsed != nil:
			a.Published = it.PublishedParsed.UTC()
		case it.UpdatedParsed != nil:
			a.Published = it.UpdatedParsed.UTC()
		}
		out = append(out, a)
	}
	return out, nil
}

func feedName(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return feedURL
	}
	return strings.TrimPrefix(u.Host, "www.") + strings.TrimRight(u.Path, "/")
}

var _ domrepo.NewsSource = (*RSSSource)(nil)
