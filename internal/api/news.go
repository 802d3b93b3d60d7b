package api

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"net/url"
	"strconv"
	"time"

	"stockwatch/internal/domain"
)

// NewsOptions are the query parameters accepted by the news endpoints.
type NewsOptions struct {
	Range    string // "1d", "7d", "30d", ...
	Language string // hl, defaults to "vi"
	Region   string // gl, defaults to "VN"
	Limit    int
	Enrich   *bool
}

func (o NewsOptions) values() url.Values {
	q := url.Values{}
	if o.Range != "" {
		q.Set("range", o.Range)
	}
	hl := o.Language
	if hl == "" {
		hl = "vi"
	}
	q.Set("hl", hl)
	gl := o.Region
	if gl == "" {
		gl = "VN"
	}
	q.Set("gl", gl)
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Enrich != nil {
		if *o.Enrich {
			q.Set("enrich", "1")
		} else {
			q.Set("enrich", "0")
		}
	}
	return q
}

// newsSource tolerates both `"source": "Reuters"` and
// `"source": {"name": "Reuters", "url": "..."}`.
type newsSource struct {
	Name string
	URL  string
}

func (s *newsSource) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		s.Name = plain
		return nil
	}
	var obj struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Name = obj.Name
	s.URL = obj.URL
	return nil
}

// newsItemPayload is one article as the backend's JSON endpoint returns it.
type newsItemPayload struct {
	Title    string     `json:"title"`
	Link     string     `json:"link"`
	PubDate  string     `json:"pubDate"`
	Source   newsSource `json:"source"`
	ImageURL string     `json:"imageUrl"`
}

// newsResponse wraps /news/json responses.
type newsResponse struct {
	Status
	Items []newsItemPayload `json:"items"`
}

// NewsBySymbol fetches JSON news for one ticker symbol.
func (c *Client) NewsBySymbol(ctx context.Context, symbol string, opts NewsOptions) ([]domain.NewsItem, error) {
	if symbol == "" {
		return nil, validationError("Thiếu mã cổ phiếu")
	}
	var resp newsResponse
	if err := c.get(ctx, "/news/json/"+url.PathEscape(symbol), opts.values(), &resp); err != nil {
		return nil, err
	}
	return convertNewsItems(resp.Items), nil
}

// NewsByQuery fetches JSON news for a free-text query.
func (c *Client) NewsByQuery(ctx context.Context, q string, opts NewsOptions) ([]domain.NewsItem, error) {
	if q == "" {
		return nil, validationError("Thiếu tham số q")
	}
	vals := opts.values()
	vals.Set("q", q)
	var resp newsResponse
	if err := c.get(ctx, "/news/json", vals, &resp); err != nil {
		return nil, err
	}
	return convertNewsItems(resp.Items), nil
}

func convertNewsItems(payloads []newsItemPayload) []domain.NewsItem {
	items := make([]domain.NewsItem, 0, len(payloads))
	for _, p := range payloads {
		t, ok := parseNewsTime(p.PubDate)
		if !ok {
			continue
		}
		items = append(items, domain.NewsItem{
			Link:         NormalizeNewsLink(p.Link),
			Title:        p.Title,
			PubDate:      t,
			Source:       p.Source.Name,
			ThumbnailURL: p.ImageURL,
		})
	}
	return items
}

// parseNewsTime tries the timestamp layouts seen across news feeds.
func parseNewsTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeNewsLink unwraps aggregator redirect links that carry the original
// article URL in a "url" query parameter. Used as the dedupe identity.
func NormalizeNewsLink(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	if orig := u.Query().Get("url"); orig != "" {
		return orig
	}
	return link
}

// ---------------------------------------------------------------------------
// RSS XML fallback
// ---------------------------------------------------------------------------

type rssResponse struct {
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title     string   `xml:"title"`
	Link      string   `xml:"link"`
	PubDate   string   `xml:"pubDate"`
	Source    string   `xml:"source"`
	Media     rssMedia `xml:"content"`
	Thumbnail rssMedia `xml:"thumbnail"`
	Enclosure rssMedia `xml:"enclosure"`
}

type rssMedia struct {
	URL string `xml:"url,attr"`
}

// ParseNewsRSS converts a Google-News-style RSS document into news items.
// Items without a parseable pubDate are skipped.
func ParseNewsRSS(raw []byte) ([]domain.NewsItem, error) {
	var rss rssResponse
	if err := xml.Unmarshal(raw, &rss); err != nil {
		return nil, err
	}

	var items []domain.NewsItem
	for _, it := range rss.Channel.Items {
		t, ok := parseNewsTime(it.PubDate)
		if !ok {
			continue
		}
		thumb := it.Media.URL
		if thumb == "" {
			thumb = it.Thumbnail.URL
		}
		if thumb == "" {
			thumb = it.Enclosure.URL
		}
		items = append(items, domain.NewsItem{
			Link:         NormalizeNewsLink(it.Link),
			Title:        it.Title,
			PubDate:      t,
			Source:       it.Source,
			ThumbnailURL: thumb,
		})
	}
	return items, nil
}

// NewsRSSBySymbol fetches the RSS XML variant of per-symbol news and parses
// it. Kept for backends that only expose the XML endpoints.
func (c *Client) NewsRSSBySymbol(ctx context.Context, symbol string, opts NewsOptions) ([]domain.NewsItem, error) {
	if symbol == "" {
		return nil, validationError("Thiếu mã cổ phiếu")
	}
	raw, err := c.getRaw(ctx, "/news/"+url.PathEscape(symbol), opts.values())
	if err != nil {
		return nil, err
	}
	return ParseNewsRSS(raw)
}
