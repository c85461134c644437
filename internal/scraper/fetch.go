package scraper

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/gocolly/colly/v2"
)

const (
	fetchTimeout = 60 * time.Second
	userAgent    = "rss-feeds-bot/1.0"
)

func newHTTPClient() *resty.Client {
	return resty.New().
		SetTimeout(fetchTimeout).
		SetHeader("User-Agent", userAgent)
}

func newListingCollector() *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(userAgent))
	c.SetRequestTimeout(fetchTimeout)
	return c
}

// fetchDoc GETs a page and parses it into a goquery document.
func fetchDoc(client *resty.Client, url string) (*goquery.Document, error) {
	resp, err := client.R().Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("status %d", resp.StatusCode())
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
}

// absolutize prefixes site-relative hrefs with the base URL.
func absolutize(base, u string) string {
	if u == "" || strings.HasPrefix(u, "http") {
		return u
	}
	return base + u
}
