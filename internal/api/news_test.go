package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeNewsLink(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"https://news.google.com/rss/articles/abc?url=https%3A%2F%2Fvnexpress.net%2Fbai-viet&oc=5",
			"https://vnexpress.net/bai-viet",
		},
		{"https://vnexpress.net/bai-viet", "https://vnexpress.net/bai-viet"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeNewsLink(tt.in); got != tt.want {
			t.Errorf("NormalizeNewsLink(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNewsRSS(t *testing.T) {
	raw := []byte(`<?xml version="1.0"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>FPT - Google News</title>
    <item>
      <title>FPT tăng trần phiên thứ hai</title>
      <link>https://news.google.com/rss/articles/x?url=https%3A%2F%2Fcafef.vn%2Ffpt</link>
      <pubDate>Mon, 31 Aug 2026 08:30:00 +0700</pubDate>
      <source url="https://cafef.vn">CafeF</source>
      <media:content url="https://cafef.vn/thumb.jpg"/>
    </item>
    <item>
      <title>No date, skipped</title>
      <link>https://example.com/a</link>
      <pubDate>invalid</pubDate>
    </item>
  </channel>
</rss>`)

	items, err := ParseNewsRSS(raw)
	if err != nil {
		t.Fatalf("ParseNewsRSS() error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	it := items[0]
	if it.Link != "https://cafef.vn/fpt" {
		t.Errorf("Link = %q, want unwrapped original URL", it.Link)
	}
	if it.Source != "CafeF" {
		t.Errorf("Source = %q, want CafeF", it.Source)
	}
	if it.ThumbnailURL != "https://cafef.vn/thumb.jpg" {
		t.Errorf("ThumbnailURL = %q, want media:content url", it.ThumbnailURL)
	}
}

func TestNewsBySymbolSourceShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("hl"); got != "vi" {
			t.Errorf("hl = %q, want vi default", got)
		}
		if got := r.URL.Query().Get("gl"); got != "VN" {
			t.Errorf("gl = %q, want VN default", got)
		}
		w.Write([]byte(`{"success":true,"items":[
			{"title":"A","link":"https://a.vn/1","pubDate":"Mon, 31 Aug 2026 08:30:00 +0700","source":"Reuters"},
			{"title":"B","link":"https://b.vn/2","pubDate":"Mon, 31 Aug 2026 09:00:00 +0700","source":{"name":"Bloomberg","url":"https://bloomberg.com"}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{Tokens: StaticToken("tok")})
	items, err := c.NewsBySymbol(t.Context(), "FPT", NewsOptions{})
	if err != nil {
		t.Fatalf("NewsBySymbol() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Source != "Reuters" {
		t.Errorf("items[0].Source = %q, want Reuters", items[0].Source)
	}
	if items[1].Source != "Bloomberg" {
		t.Errorf("items[1].Source = %q, want Bloomberg", items[1].Source)
	}
}
