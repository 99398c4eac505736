package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
)

type fakeSource struct {
	posts []domain.Post
	err   error
}

func (f *fakeSource) FetchPosts(context.Context) ([]domain.Post, error) {
	return f.posts, f.err
}

type fakeLedger struct {
	loaded  domain.Ledger
	saved   domain.Ledger
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeLedger) Load(context.Context) (domain.Ledger, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.loaded == nil {
		f.loaded = domain.NewLedger()
	}
	return f.loaded, nil
}

func (f *fakeLedger) Save(_ context.Context, l domain.Ledger) error {
	f.saves++
	f.saved = domain.NewLedger(l.IDs()...)
	return f.saveErr
}

// tableCitator maps exact post text onto article numbers.
type tableCitator map[string][]int

func (c tableCitator) Classify(text string) []int {
	return c[text]
}

type fakeDecisionSink struct {
	failFor map[int64]bool
	written []int64
}

func (f *fakeDecisionSink) WriteDecision(_ context.Context, post domain.Post, _ domain.CitationMatch) (string, error) {
	if f.failFor[post.ID] {
		return "", fmt.Errorf("disk full")
	}
	f.written = append(f.written, post.ID)
	return fmt.Sprintf("_decisions/post-%d.md", post.ID), nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) PublishDigest(_ context.Context, digest string) error {
	f.messages = append(f.messages, digest)
	return f.err
}

type fakeMetrics struct {
	articles, fetched, skipped, uncited, written, failed int
	runs                                                 []string
	runErrs                                              []error
	flushes                                              int
}

func (m *fakeMetrics) ArticlesSegmented(n int) { m.articles += n }
func (m *fakeMetrics) PostsFetched(n int)      { m.fetched += n }
func (m *fakeMetrics) PostsSkipped(n int)      { m.skipped += n }
func (m *fakeMetrics) PostsUncited(n int)      { m.uncited += n }
func (m *fakeMetrics) DecisionsWritten(n int)  { m.written += n }
func (m *fakeMetrics) DecisionsFailed(n int)   { m.failed += n }
func (m *fakeMetrics) Flush() error            { m.flushes++; return nil }

func (m *fakeMetrics) RunFinished(job string, _ time.Time, err error) {
	m.runs = append(m.runs, job)
	m.runErrs = append(m.runErrs, err)
}

type fakeDocument struct {
	text string
	err  error
}

func (f fakeDocument) ExtractText(context.Context) (string, error) {
	return f.text, f.err
}

type fakeArticleSink struct {
	articles []domain.Article
	sections []domain.Section
	indexed  bool
	err      error
}

func (f *fakeArticleSink) WriteArticles(_ context.Context, articles []domain.Article) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.articles = articles
	paths := make([]string, len(articles))
	for i, a := range articles {
		paths[i] = fmt.Sprintf("_articles/%03d-%s.md", a.Number, a.Slug)
	}
	return paths, nil
}

func (f *fakeArticleSink) WriteIndex(_ context.Context, _ []domain.Article, sections []domain.Section) error {
	f.indexed = true
	f.sections = sections
	return nil
}

type manualDriver struct {
	mu      sync.Mutex
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.job = job
	return nil
}

func (d *manualDriver) Stop(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	return nil
}

func (d *manualDriver) tick() {
	d.mu.Lock()
	job := d.job
	d.mu.Unlock()
	job(time.Now())
}

// cancellingSink writes like fakeDecisionSink and cancels the run after the first write.
type cancellingSink struct {
	fakeDecisionSink
	cancel context.CancelFunc
}

func (s *cancellingSink) WriteDecision(ctx context.Context, post domain.Post, match domain.CitationMatch) (string, error) {
	path, err := s.fakeDecisionSink.WriteDecision(ctx, post, match)
	s.cancel()
	return path, err
}
