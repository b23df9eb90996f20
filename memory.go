package orin

import (
	"context"
	"strings"
	"time"
)

// MemoryRecord is one timestamped fragment of prior conversation. Records are
// append-only and never mutated.
type MemoryRecord struct {
	ID        string
	Timestamp time.Time
	Role      string
	Content   string
	Tags      []string
}

// RecordStore is the persistent-store surface the core needs: append one
// record, scan records most-recent-first.
type RecordStore interface {
	AppendRecord(ctx context.Context, record MemoryRecord) error

	// RecentRecords returns up to limit records in time-descending order.
	RecentRecords(ctx context.Context, limit int) ([]MemoryRecord, error)
}

const (
	// recencyWindow is the age under which a record scores as "recent".
	recencyWindow = 5 * time.Minute

	// minKeptRecords guarantees a floor of recent context even when no
	// keyword overlaps the query.
	minKeptRecords = 3

	// minKeywordLen filters out short stop-word-ish tokens.
	minKeywordLen = 4
)

// Retriever ranks stored records against a query by recency and keyword
// overlap and returns a bounded, chronologically ordered context.
type Retriever struct {
	store RecordStore
	now   func() time.Time
}

// NewRetriever creates a retriever over the given store.
func NewRetriever(store RecordStore) *Retriever {
	return &Retriever{store: store, now: time.Now}
}

func queryKeywords(query string) []string {
	var keywords []string
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if len(token) >= minKeywordLen {
			keywords = append(keywords, token)
		}
	}
	return keywords
}

func (r *Retriever) score(record MemoryRecord, keywords []string) int {
	score := 0
	if r.now().Sub(record.Timestamp) < recencyWindow {
		score += 2
	}
	content := strings.ToLower(record.Content)
	for _, keyword := range keywords {
		if strings.Contains(content, keyword) {
			score++
		}
	}
	return score
}

// Retrieve returns up to limit record contents relevant to the query, oldest
// first so the resulting context block reads chronologically. At most 2x
// limit candidates are examined. A store failure yields an empty result; it
// is never surfaced to the caller.
func (r *Retriever) Retrieve(ctx context.Context, query string, limit int) []string {
	if r == nil || r.store == nil || limit <= 0 {
		return nil
	}

	records, err := r.store.RecentRecords(ctx, 2*limit)
	if err != nil {
		LoggerFromContext(ctx).Warn("memory retrieval degraded to empty context", "error", err)
		return nil
	}

	keywords := queryKeywords(query)

	var kept []MemoryRecord
	for _, record := range records {
		if r.score(record, keywords) > 0 || len(kept) < minKeptRecords {
			kept = append(kept, record)
		}
	}
	if len(kept) > limit {
		kept = kept[:limit]
	}

	// The scan is time-descending; reverse so the output reads oldest first.
	contents := make([]string, len(kept))
	for i, record := range kept {
		contents[len(kept)-1-i] = record.Content
	}
	return contents
}
