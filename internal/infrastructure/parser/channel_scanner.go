package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/scanner"
)

const (
	// DefaultPreviewURL is the public web preview of Telegram channels.
	DefaultPreviewURL = "https://t.me/s/"
	defaultLimit      = 100
	defaultMaxPages   = 20
)

// ChannelScanner reads public channel posts from the t.me web preview.
type ChannelScanner struct {
	client   *http.Client
	baseURL  string
	maxPages int
	markdown *md.Converter
	logger   *slog.Logger
}

// NewChannelScanner wires an HTTP client; baseURL defaults to DefaultPreviewURL.
func NewChannelScanner(client *http.Client, baseURL string, log *slog.Logger) *ChannelScanner {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultPreviewURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &ChannelScanner{
		client:   client,
		baseURL:  baseURL,
		maxPages: defaultMaxPages,
		markdown: md.NewConverter("", true, nil),
		logger:   log,
	}
}

// Name identifies the strategy inside the registry.
func (c *ChannelScanner) Name() string {
	return "web"
}

// Scan walks preview pages from the newest post backwards until limit posts are collected.
func (c *ChannelScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Post, error) {
	channel := strings.TrimPrefix(strings.TrimSpace(req.Channel), "@")
	if channel == "" {
		return nil, fmt.Errorf("no channel provided for web scanner")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		posts  []domain.Post
		seen   = map[int64]struct{}{}
		before int64
	)

	for page := 0; page < c.maxPages && len(posts) < limit; page++ {
		pageURL, err := buildPageURL(c.baseURL, channel, before)
		if err != nil {
			return nil, err
		}

		doc, err := c.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", channel, err)
		}

		oldest := before
		added := 0
		for _, post := range c.extractPosts(doc, channel) {
			if _, ok := seen[post.ID]; ok {
				continue
			}
			seen[post.ID] = struct{}{}
			posts = append(posts, post)
			added++
			if oldest == 0 || post.ID < oldest {
				oldest = post.ID
			}
		}

		c.debug("preview page scanned", "channel", channel, "before", before, "added", added)
		if added == 0 || oldest <= 1 {
			break
		}
		before = oldest
	}

	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	if len(posts) > limit {
		posts = posts[len(posts)-limit:]
	}
	return posts, nil
}

func (c *ChannelScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "SudPraktika/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request preview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram preview returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (c *ChannelScanner) extractPosts(doc *goquery.Document, channel string) []domain.Post {
	var posts []domain.Post

	doc.Find("div.tgme_widget_message[data-post]").Each(func(_ int, sel *goquery.Selection) {
		post, err := c.parseMessage(sel, channel)
		if err != nil {
			c.debug("skip preview message", "error", err)
			return
		}
		posts = append(posts, post)
	})

	return posts
}

func (c *ChannelScanner) parseMessage(sel *goquery.Selection, channel string) (domain.Post, error) {
	dataPost, _ := sel.Attr("data-post")
	id, err := parsePostID(dataPost)
	if err != nil {
		return domain.Post{}, err
	}

	post := domain.Post{ID: id, Channel: channel}

	if raw, ok := sel.Find("time[datetime]").First().Attr("datetime"); ok {
		if published, err := time.Parse(time.RFC3339, raw); err == nil {
			post.Date = published.Unix()
		}
	}

	textSel := sel.Find(".tgme_widget_message_text").First()
	if textSel.Length() == 0 {
		return post, nil
	}

	if html, err := textSel.Html(); err == nil {
		if markdown, err := c.markdown.ConvertString(html); err == nil {
			post.Markdown = strings.TrimSpace(markdown)
		} else {
			c.debug("markdown conversion failed", "post", id, "error", err)
		}
	}

	textSel.Find("br").ReplaceWithHtml("\n")
	post.Text = strings.TrimSpace(textSel.Text())

	return post, nil
}

func parsePostID(dataPost string) (int64, error) {
	idx := strings.LastIndex(dataPost, "/")
	if idx < 0 || idx == len(dataPost)-1 {
		return 0, fmt.Errorf("malformed data-post %q", dataPost)
	}
	id, err := strconv.ParseInt(dataPost[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse post id %q: %w", dataPost, err)
	}
	return id, nil
}

func buildPageURL(base, channel string, before int64) (string, error) {
	parsed, err := url.Parse(base + url.PathEscape(channel))
	if err != nil {
		return "", fmt.Errorf("invalid preview url %s: %w", base, err)
	}

	if before > 0 {
		query := parsed.Query()
		query.Set("before", strconv.FormatInt(before, 10))
		parsed.RawQuery = query.Encode()
	}
	return parsed.String(), nil
}

func (c *ChannelScanner) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
