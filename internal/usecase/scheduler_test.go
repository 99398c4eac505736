package usecase

import (
	"context"
	"testing"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
)

func TestSchedulerRunsIngestPerTick(t *testing.T) {
	t.Parallel()

	source := &fakeSource{posts: []domain.Post{{ID: 1, Text: "cites"}}}
	ledger := &fakeLedger{}
	sink := &fakeDecisionSink{}
	pipeline := NewIngestPipeline(IngestDeps{
		Source:  source,
		Ledger:  ledger,
		Citator: tableCitator{"cites": {185}},
		Sink:    sink,
	})

	driver := &manualDriver{}
	sched := NewScheduler(driver, pipeline, nil)
	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	driver.tick()
	ledger.loaded = ledger.saved
	source.posts = append(source.posts, domain.Post{ID: 2, Text: "cites"})
	driver.tick()

	if len(sink.written) != 2 || sink.written[0] != 1 || sink.written[1] != 2 {
		t.Fatalf("each tick must ingest only fresh posts, got %v", sink.written)
	}

	if err := sched.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if !driver.stopped {
		t.Fatalf("driver was not stopped")
	}
}

func TestSchedulerWithoutDriver(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(nil, nil, nil)
	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := sched.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
}
