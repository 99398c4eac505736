package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/scanner"
)

func message(id int, datetime, body string) string {
	return fmt.Sprintf(`
	<div class="tgme_widget_message" data-post="supremecourt/%d">
	  <div class="tgme_widget_message_text">%s</div>
	  <a class="tgme_widget_message_date"><time datetime="%s">x</time></a>
	</div>`, id, body, datetime)
}

func TestBuildPageURL(t *testing.T) {
	t.Parallel()

	u, err := buildPageURL("https://t.me/s/", "supremecourt", 120)
	if err != nil {
		t.Fatalf("buildPageURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if parsed.Host != "t.me" || parsed.Path != "/s/supremecourt" {
		t.Fatalf("unexpected url: %s", u)
	}
	if parsed.Query().Get("before") != "120" {
		t.Fatalf("expected before=120, got %s", parsed.Query().Get("before"))
	}

	first, err := buildPageURL("https://t.me/s/", "supremecourt", 0)
	if err != nil {
		t.Fatalf("buildPageURL returned error: %v", err)
	}
	if strings.Contains(first, "before") {
		t.Fatalf("first page must not carry before: %s", first)
	}
}

func TestParsePostID(t *testing.T) {
	t.Parallel()

	id, err := parsePostID("supremecourt/4521")
	if err != nil || id != 4521 {
		t.Fatalf("unexpected id %d, err %v", id, err)
	}

	for _, raw := range []string{"", "supremecourt", "supremecourt/", "supremecourt/abc"} {
		if _, err := parsePostID(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseMessage(t *testing.T) {
	t.Parallel()

	html := message(42, "2024-03-05T10:15:00+00:00", "<b>Вирок</b> за ст. 185<br>ч. 2 КК")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	sc := NewChannelScanner(nil, "", nil)
	post, err := sc.parseMessage(doc.Find("div.tgme_widget_message").First(), "supremecourt")
	if err != nil {
		t.Fatalf("parseMessage error: %v", err)
	}

	if post.ID != 42 || post.Channel != "supremecourt" {
		t.Fatalf("unexpected post identity: %+v", post)
	}
	if post.Text != "Вирок за ст. 185\nч. 2 КК" {
		t.Fatalf("unexpected text: %q", post.Text)
	}
	if !strings.Contains(post.Markdown, "**Вирок**") {
		t.Fatalf("expected bold markdown, got %q", post.Markdown)
	}
	if got := post.PublishedAt().Format("2006-01-02"); got != "2024-03-05" {
		t.Fatalf("unexpected date: %s", got)
	}
}

func TestChannelScannerScan(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/s/supremecourt" {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("before") {
		case "":
			_, _ = w.Write([]byte(message(5, "2024-03-05T10:00:00Z", "ст. 185") +
				message(6, "2024-03-06T10:00:00Z", "ст. 186") +
				message(7, "2024-03-07T10:00:00Z", "ст. 187")))
		case "5":
			_, _ = w.Write([]byte(message(3, "2024-03-03T10:00:00Z", "ст. 121") +
				message(4, "2024-03-04T10:00:00Z", "ст. 115")))
		default:
			_, _ = w.Write([]byte(`<div class="tgme_channel_history"></div>`))
		}
	}))
	defer server.Close()

	sc := NewChannelScanner(server.Client(), server.URL+"/s", nil)

	posts, err := sc.Scan(context.Background(), scanner.Request{Channel: "@supremecourt", Limit: 4})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(posts) != 4 {
		t.Fatalf("expected 4 posts, got %d", len(posts))
	}
	for i, want := range []int64{4, 5, 6, 7} {
		if posts[i].ID != want {
			t.Fatalf("post %d: expected id %d, got %d", i, want, posts[i].ID)
		}
	}
	if posts[0].Text != "ст. 115" {
		t.Fatalf("unexpected text: %q", posts[0].Text)
	}
}

func TestChannelScannerStopsOnEmptyPage(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("before") == "" {
			_, _ = w.Write([]byte(message(10, "2024-03-05T10:00:00Z", "ст. 185")))
			return
		}
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer server.Close()

	sc := NewChannelScanner(server.Client(), server.URL+"/s/", nil)
	posts, err := sc.Scan(context.Background(), scanner.Request{Channel: "court", Limit: 50})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(posts) != 1 || calls != 2 {
		t.Fatalf("expected 1 post in 2 calls, got %d posts in %d calls", len(posts), calls)
	}
}

func TestChannelScannerErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	defer server.Close()

	sc := NewChannelScanner(server.Client(), server.URL+"/s/", nil)
	if _, err := sc.Scan(context.Background(), scanner.Request{Channel: "court"}); err == nil {
		t.Fatalf("expected error for bad status")
	}
	if _, err := sc.Scan(context.Background(), scanner.Request{Channel: " "}); err == nil {
		t.Fatalf("expected error for empty channel")
	}
}
