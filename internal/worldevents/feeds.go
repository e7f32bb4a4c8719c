package worldevents

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-cosmic-codex/internal/codex"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
	"github.com/tidwall/gjson"
)

// Feed is one source of historical events.
type Feed interface {
	Name() string
	Lookup(ctx context.Context, date time.Time) (codex.WorldEvent, error)
}

var (
	errEmpty      = errors.New(config.ErrFeedEmpty)
	errKeyMissing = errors.New(config.ErrFeedKeyMissing)
)

// WikipediaFeed reads the encyclopedia "on this day" feed.
type WikipediaFeed struct {
	BaseURL string
	Fetcher Fetcher
}

// Name implements Feed.
func (WikipediaFeed) Name() string { return "wikipedia" }

// Lookup returns the event of the same year when the feed has one, else the first event of that day.
func (f WikipediaFeed) Lookup(ctx context.Context, date time.Time) (codex.WorldEvent, error) {
	endpoint := fmt.Sprintf("%s/%02d/%02d", strings.TrimRight(f.BaseURL, "/"), int(date.Month()), date.Day())
	body, err := f.Fetcher.Fetch(ctx, endpoint)
	if err != nil {
		return codex.WorldEvent{}, err
	}
	ev, ok := pickByYear(gjson.GetBytes(body, "events").Array(), date.Year(), "text", "pages.0.content_urls.desktop.page")
	if !ok {
		return codex.WorldEvent{}, errEmpty
	}
	return ev, nil
}

// HistoryFeed reads a generic historical-events feed keyed by month and day.
type HistoryFeed struct {
	BaseURL string
	Fetcher Fetcher
}

// Name implements Feed.
func (HistoryFeed) Name() string { return "history" }

// Lookup returns the event of the same year when the feed has one, else the first event of that day.
func (f HistoryFeed) Lookup(ctx context.Context, date time.Time) (codex.WorldEvent, error) {
	endpoint := fmt.Sprintf("%s/%d/%d", strings.TrimRight(f.BaseURL, "/"), int(date.Month()), date.Day())
	body, err := f.Fetcher.Fetch(ctx, endpoint)
	if err != nil {
		return codex.WorldEvent{}, err
	}
	ev, ok := pickByYear(gjson.GetBytes(body, "data.Events").Array(), date.Year(), "text", "links.0.link")
	if !ok {
		return codex.WorldEvent{}, errEmpty
	}
	return ev, nil
}

// NewsArchiveFeed reads a monthly news archive and keeps the first article
// published on the exact date. It needs an API key.
type NewsArchiveFeed struct {
	BaseURL string
	APIKey  string
	Fetcher Fetcher
}

// Name implements Feed.
func (NewsArchiveFeed) Name() string { return "news_archive" }

// Lookup implements Feed.
func (f NewsArchiveFeed) Lookup(ctx context.Context, date time.Time) (codex.WorldEvent, error) {
	if f.APIKey == "" {
		return codex.WorldEvent{}, errKeyMissing
	}
	endpoint := fmt.Sprintf("%s/%d/%d.json?api-key=%s",
		strings.TrimRight(f.BaseURL, "/"), date.Year(), int(date.Month()), url.QueryEscape(f.APIKey))
	body, err := f.Fetcher.Fetch(ctx, endpoint)
	if err != nil {
		return codex.WorldEvent{}, err
	}

	day := date.Format(config.DateFormatFullDash)
	for _, doc := range gjson.GetBytes(body, "response.docs").Array() {
		if !strings.HasPrefix(doc.Get("pub_date").String(), day) {
			continue
		}
		text := strings.TrimSpace(doc.Get("headline.main").String())
		if text == "" {
			continue
		}
		return codex.WorldEvent{Text: text, URL: doc.Get("web_url").String()}, nil
	}
	return codex.WorldEvent{}, errEmpty
}

// pickByYear chooses the item whose "year" equals year, else the first item
// with text. Years may be encoded as numbers or strings.
func pickByYear(items []gjson.Result, year int, textPath, urlPath string) (codex.WorldEvent, bool) {
	var first *gjson.Result
	want := strconv.Itoa(year)
	for i := range items {
		if strings.TrimSpace(items[i].Get(textPath).String()) == "" {
			continue
		}
		if first == nil {
			first = &items[i]
		}
		if items[i].Get("year").String() == want {
			return toWorldEvent(items[i], textPath, urlPath), true
		}
	}
	if first == nil {
		return codex.WorldEvent{}, false
	}
	return toWorldEvent(*first, textPath, urlPath), true
}

func toWorldEvent(item gjson.Result, textPath, urlPath string) codex.WorldEvent {
	return codex.WorldEvent{
		Text: strings.TrimSpace(item.Get(textPath).String()),
		URL:  item.Get(urlPath).String(),
	}
}
