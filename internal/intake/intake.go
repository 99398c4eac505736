// Package intake separates fresh channel posts from the ones already processed.
package intake

import "github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"

// Partition splits posts into those not yet in seen and those to skip.
// Input order is preserved; a post repeated within the batch is fresh only once.
func Partition(posts []domain.Post, seen domain.Ledger) (fresh, skipped []domain.Post) {
	batch := make(map[int64]struct{}, len(posts))
	for _, post := range posts {
		_, dup := batch[post.ID]
		if dup || seen.Has(post.ID) {
			skipped = append(skipped, post)
			continue
		}
		batch[post.ID] = struct{}{}
		fresh = append(fresh, post)
	}
	return fresh, skipped
}

// Record marks every post as processed in the ledger.
func Record(ledger domain.Ledger, posts ...domain.Post) {
	for _, post := range posts {
		ledger.Mark(post.ID)
	}
}
