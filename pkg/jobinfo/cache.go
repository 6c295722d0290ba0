package jobinfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quatton/qjob/pkg/backend"
	"github.com/quatton/qjob/pkg/jobrec"
	"github.com/quatton/qjob/pkg/kv"
)

const DefaultCacheTTL = 24 * time.Hour

// RecordCache keeps finished job records. A record is only stored once its state is terminal,
// after which the accounting data no longer changes.
type RecordCache struct {
	store kv.Store
	ttl   time.Duration
}

func NewRecordCache(store kv.Store, ttl time.Duration) *RecordCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RecordCache{store: store, ttl: ttl}
}

func CacheKey(s backend.Scheduler, jobID string) string {
	return fmt.Sprintf("qjob:%s:record:%s", s, jobID)
}

// Get returns the cached records for ids, keyed by job ID. Undecodable entries are skipped.
func (c *RecordCache) Get(ctx context.Context, s backend.Scheduler, ids []string) (map[string]jobrec.JobRecord, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = CacheKey(s, id)
	}

	values, err := c.store.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("reading record cache: %w", err)
	}

	hits := make(map[string]jobrec.JobRecord, len(values))
	for i, key := range keys {
		raw, ok := values[key]
		if !ok {
			continue
		}
		var r jobrec.JobRecord
		if err := json.Unmarshal(raw, &r); err != nil || r.JobID != ids[i] {
			continue
		}
		hits[ids[i]] = r
	}
	return hits, nil
}

// Put stores every terminal record. It returns the number stored.
func (c *RecordCache) Put(ctx context.Context, s backend.Scheduler, records []jobrec.JobRecord) (int, error) {
	var errs []error
	stored := 0
	for _, r := range records {
		if !r.State.IsTerminal() {
			continue
		}
		raw, err := json.Marshal(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := c.store.Set(ctx, CacheKey(s, r.JobID), raw, c.ttl); err != nil {
			errs = append(errs, fmt.Errorf("caching job %s: %w", r.JobID, err))
			continue
		}
		stored++
	}
	return stored, errors.Join(errs...)
}
