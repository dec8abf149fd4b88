package finnhub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	"TradeLLM/pkg/config"
	xhttp "TradeLLM/pkg/http"
)

// Client is a NewsSource backed by the Finnhub market news endpoint.
type Client struct {
	apiKey   string
	baseURL  string
	category string
	client   *xhttp.Client
}

// New creates a Finnhub news source.
func New(cfg *config.Config) *Client {
	fc := cfg.News.Finnhub
	return &Client{
		apiKey:   fc.APIKey,
		baseURL:  strings.TrimRight(fc.BaseURL, "/"),
		category: fc.Category,
		client:   xhttp.NewClient(xhttp.WithTimeout(cfg.News.Timeout)),
	}
}

type fhNews struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"` // unix seconds
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

func (c *Client) Name() string { return "finnhub" }

// Fetch returns the latest news for the configured category.
func (c *Client) Fetch(ctx context.Context) ([]models.Article, error) {
	var items []fhNews
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/news",
		QueryParams: map[string][]string{
			"category": {c.category},
			"token":    {c.apiKey},
		},
	}, &items)
	if err != nil {
		return nil, fmt.Errorf("finnhub news: %w", err)
	}

	out := make([]models.Article, 0, len(items))
	for _, it := range items {
		a := models.Article{
			Source:      c.Name(),
			Title:       strings.TrimSpace(it.Headline),
			Description: strings.TrimSpace(it.Summary),
			Link:        it.URL,
		}
		if it.Datetime > 0 {
			a.Published = time.Unix(it.Datetime, 0).UTC()
		}
		out = append(out, a)
	}
	return out, nil
}

var _ domrepo.NewsSource = (*Client)(nil)
