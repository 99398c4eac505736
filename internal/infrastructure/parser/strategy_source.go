package parser

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/config"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/ports"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/scanner"
)

// StrategySource implements PostSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	ingest   config.IngestConfig
	logger   *slog.Logger
}

var _ ports.PostSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with the configured channel.
func NewStrategySource(reg *scanner.Registry, ingest config.IngestConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		ingest:   ingest,
		logger:   log,
	}
}

// FetchPosts runs the configured scanner and returns posts with text, ordered by id.
func (s *StrategySource) FetchPosts(ctx context.Context) ([]domain.Post, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch posts", "scanner", s.ingest.Scanner, "channel", s.ingest.Channel, "limit", s.ingest.Limit)

	strategy, err := s.registry.Resolve(s.ingest.Scanner)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", s.ingest.Channel, err)
	}

	req := scanner.Request{
		Channel: s.ingest.Channel,
		Limit:   s.ingest.Limit,
		Options: s.ingest.Options,
	}

	results, err := strategy.Scan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("scan channel %s: %w", s.ingest.Channel, err)
	}

	seen := make(map[int64]struct{}, len(results))
	posts := make([]domain.Post, 0, len(results))
	for _, post := range results {
		if strings.TrimSpace(post.Text) == "" {
			s.debug("skip post without text", "post", post.ID)
			continue
		}
		if _, dup := seen[post.ID]; dup {
			continue
		}
		seen[post.ID] = struct{}{}
		if post.Channel == "" {
			post.Channel = strings.TrimPrefix(s.ingest.Channel, "@")
		}
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })

	s.debug("strategy source done", "scanned", len(results), "posts", len(posts))
	return posts, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
