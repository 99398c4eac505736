package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
)

func TestPartition(t *testing.T) {
	t.Parallel()

	posts := []domain.Post{{ID: 3}, {ID: 1}, {ID: 2}, {ID: 3}}
	seen := domain.NewLedger(1)

	fresh, skipped := Partition(posts, seen)

	assert.Equal(t, []domain.Post{{ID: 3}, {ID: 2}}, fresh)
	assert.Equal(t, []domain.Post{{ID: 1}, {ID: 3}}, skipped)
	assert.Equal(t, 1, seen.Len(), "partition must not mutate the ledger")
}

func TestPartitionRerunEmitsNothing(t *testing.T) {
	t.Parallel()

	posts := []domain.Post{{ID: 10, Text: "ст. 185"}, {ID: 11, Text: "ст. 186"}}
	ledger := domain.NewLedger()

	fresh, _ := Partition(posts, ledger)
	Record(ledger, fresh...)

	again, skipped := Partition(posts, ledger)
	assert.Empty(t, again)
	assert.Len(t, skipped, 2)
	assert.Equal(t, []int64{10, 11}, ledger.IDs())
}

func TestPartitionEmpty(t *testing.T) {
	t.Parallel()

	fresh, skipped := Partition(nil, nil)
	assert.Empty(t, fresh)
	assert.Empty(t, skipped)
}
