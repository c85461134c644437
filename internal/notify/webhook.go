// Package notify posts newly enriched items to a configured webhook.
// Notification is best effort: callers log errors and move on.
package notify

import (
	"fmt"
	"time"

	"github.com/bennokress/rss-feeds/internal/scraper"
	"github.com/go-resty/resty/v2"
)

const notifyTimeout = 30 * time.Second

type payload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageURL"`
	// Unix seconds, null when the item has no parseable date.
	Timestamp *int64 `json:"timestamp"`
}

type Client struct {
	http  *resty.Client
	token string
}

func New(token string) *Client {
	return &Client{
		http:  resty.New().SetTimeout(notifyTimeout).SetHeader("User-Agent", "rss-feeds-bot/1.0"),
		token: token,
	}
}

// Send posts one item to the endpoint.
func (c *Client) Send(url string, it scraper.Item) error {
	body := payload{
		Title:       it.Title,
		Description: it.Description,
		URL:         it.URL,
		ImageURL:    it.Image,
	}
	if t, ok := it.PublishedAt(); ok {
		ts := t.Unix()
		body.Timestamp = &ts
	}

	resp, err := c.http.R().
		SetHeader("x-make-apikey", c.token).
		SetBody(body).
		Post(url)
	if err != nil {
		return fmt.Errorf("notify: post %q: %w", it.Title, err)
	}
	if resp.IsError() {
		return fmt.Errorf("notify: post %q: status %d", it.Title, resp.StatusCode())
	}
	return nil
}
