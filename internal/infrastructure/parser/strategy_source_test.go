package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/config"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/scanner"
)

type stubScanner struct {
	posts []domain.Post
	err   error
	req   scanner.Request
}

func (s *stubScanner) Name() string { return "stub" }

func (s *stubScanner) Scan(_ context.Context, req scanner.Request) ([]domain.Post, error) {
	s.req = req
	return s.posts, s.err
}

func TestStrategySourceFetchPosts(t *testing.T) {
	t.Parallel()

	stub := &stubScanner{posts: []domain.Post{
		{ID: 9, Text: "ст. 185"},
		{ID: 3, Text: "  "},
		{ID: 4, Text: "ст. 115", Channel: "other"},
		{ID: 9, Text: "duplicate"},
	}}
	reg := scanner.NewRegistry()
	reg.Register(stub)

	src := NewStrategySource(reg, config.IngestConfig{Scanner: "stub", Channel: "@court", Limit: 7}, nil)
	posts, err := src.FetchPosts(context.Background())
	if err != nil {
		t.Fatalf("FetchPosts error: %v", err)
	}

	if stub.req.Channel != "@court" || stub.req.Limit != 7 {
		t.Fatalf("unexpected request: %+v", stub.req)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != 4 || posts[1].ID != 9 {
		t.Fatalf("posts must be ordered by id: %+v", posts)
	}
	if posts[1].Text != "ст. 185" {
		t.Fatalf("first copy must win, got %q", posts[1].Text)
	}
	if posts[0].Channel != "other" || posts[1].Channel != "court" {
		t.Fatalf("unexpected channels: %q %q", posts[0].Channel, posts[1].Channel)
	}
}

func TestStrategySourceErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewStrategySource(nil, config.IngestConfig{}, nil).FetchPosts(context.Background()); err == nil {
		t.Fatalf("expected error without registry")
	}

	reg := scanner.NewRegistry()
	if _, err := NewStrategySource(reg, config.IngestConfig{Scanner: "web"}, nil).FetchPosts(context.Background()); err == nil {
		t.Fatalf("expected error for unregistered scanner")
	}

	boom := errors.New("boom")
	reg.Register(&stubScanner{err: boom})
	_, err := NewStrategySource(reg, config.IngestConfig{Scanner: "stub"}, nil).FetchPosts(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped scan error, got %v", err)
	}
}
