package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/ports"
)

const namespace = "sudpraktika"

// Recorder keeps batch counters in a private registry and dumps them as a
// node-exporter textfile, since a run-once job has nothing to scrape.
type Recorder struct {
	registry *prometheus.Registry
	textfile string

	articles  prometheus.Counter
	fetched   prometheus.Counter
	skipped   prometheus.Counter
	uncited   prometheus.Counter
	written   prometheus.Counter
	failed    prometheus.Counter
	lastRun   *prometheus.GaugeVec
	lastState *prometheus.GaugeVec
}

var _ ports.Metrics = (*Recorder)(nil)

// NewRecorder registers all collectors; an empty textfile path disables Flush.
func NewRecorder(textfile string) *Recorder {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		textfile: textfile,
		articles: counter("articles_segmented_total", "Articles extracted from the code document."),
		fetched:  counter("posts_fetched_total", "Channel posts returned by the post source."),
		skipped:  counter("posts_skipped_total", "Posts skipped because the ledger already had them."),
		uncited:  counter("posts_uncited_total", "Fresh posts without any recognised article citation."),
		written:  counter("decisions_written_total", "Decision documents written to the site."),
		failed:   counter("decisions_failed_total", "Decision documents that could not be written."),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the job last finished.",
		}, []string{"job"}),
		lastState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 when the last job run succeeded, 0 otherwise.",
		}, []string{"job"}),
	}

	r.registry.MustRegister(r.articles, r.fetched, r.skipped, r.uncited, r.written, r.failed, r.lastRun, r.lastState)
	return r
}

// Registry exposes the collectors for tests and embedding.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ArticlesSegmented(n int) { r.articles.Add(float64(n)) }
func (r *Recorder) PostsFetched(n int)      { r.fetched.Add(float64(n)) }
func (r *Recorder) PostsSkipped(n int)      { r.skipped.Add(float64(n)) }
func (r *Recorder) PostsUncited(n int)      { r.uncited.Add(float64(n)) }
func (r *Recorder) DecisionsWritten(n int)  { r.written.Add(float64(n)) }
func (r *Recorder) DecisionsFailed(n int)   { r.failed.Add(float64(n)) }

// RunFinished stamps the job's last run time and outcome.
func (r *Recorder) RunFinished(job string, at time.Time, err error) {
	r.lastRun.WithLabelValues(job).Set(float64(at.Unix()))
	success := 1.0
	if err != nil {
		success = 0
	}
	r.lastState.WithLabelValues(job).Set(success)
}

// Flush writes the textfile atomically; it is a no-op without a path.
func (r *Recorder) Flush() error {
	if r.textfile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.textfile), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(r.textfile, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
