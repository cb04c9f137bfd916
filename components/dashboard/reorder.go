package dashboard

import (
	"slices"
	"sync"
	"time"
)

// DefaultMoveTimeout bounds how long a started move blocks others.
const DefaultMoveTimeout = 30 * time.Second

// Reorderer owns the canonical widget order and the single active move.
// Every committed order change goes through CommitMove.
type Reorderer struct {
	mu        sync.Mutex
	order     []string
	active    string
	startedAt time.Time
	timeout   time.Duration
	now       func() time.Time
	partition func(id string) string
}

// ReordererOption customizes a Reorderer.
type ReordererOption func(*Reorderer)

// WithMoveTimeout expires an active move after d. Zero or less keeps moves
// active until they are dropped or cancelled.
func WithMoveTimeout(d time.Duration) ReordererOption {
	return func(r *Reorderer) { r.timeout = d }
}

// WithReorderClock sets the time source used for move expiry.
func WithReorderClock(now func() time.Time) ReordererOption {
	return func(r *Reorderer) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReorderer builds a controller over the initial order. partition may be
// nil; when set, moves are only committed between ids of the same partition.
func NewReorderer(order []string, partition func(id string) string, opts ...ReordererOption) *Reorderer {
	r := &Reorderer{
		order:     slices.Clone(order),
		partition: partition,
		timeout:   DefaultMoveTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// expireLocked drops an active move older than the timeout.
func (r *Reorderer) expireLocked() {
	if r.active == "" || r.timeout <= 0 {
		return
	}
	if r.now().Sub(r.startedAt) >= r.timeout {
		r.active = ""
	}
}

// Order returns a copy of the committed order.
func (r *Reorderer) Order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// Active returns the id being moved, if any.
func (r *Reorderer) Active() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expireLocked()
	return r.active, r.active != ""
}

// Append adds an id at the end of the order. Existing ids are ignored.
func (r *Reorderer) Append(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.order, id) {
		return false
	}
	r.order = append(r.order, id)
	return true
}

// Prepend inserts unknown ids at the front, keeping their relative order,
// and returns how many were added.
func (r *Reorderer) Prepend(ids ...string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	fresh := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(r.order, id) && !slices.Contains(fresh, id) {
			fresh = append(fresh, id)
		}
	}
	r.order = append(fresh, r.order...)
	return len(fresh)
}

// Remove drops an id from the order, clearing it as the active move.
func (r *Reorderer) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := slices.Index(r.order, id)
	if idx < 0 {
		return false
	}
	r.order = slices.Delete(r.order, idx, idx+1)
	if r.active == id {
		r.active = ""
	}
	return true
}

// BeginMove marks id as the active move. A second move is rejected while one
// is active and not yet expired; unknown ids are ignored.
func (r *Reorderer) BeginMove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expireLocked()
	if r.active != "" {
		return ErrMoveInProgress
	}
	if slices.Contains(r.order, id) {
		r.active = id
		r.startedAt = r.now()
	}
	return nil
}

// ProposeMove previews the order a drop over overID would produce. It never
// changes the committed order.
func (r *Reorderer) ProposeMove(overID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	preview := slices.Clone(r.order)
	r.expireLocked()
	if r.active == "" {
		return preview
	}
	if next, ok := r.moved(r.active, overID); ok {
		return next
	}
	return preview
}

// Drop commits the active move onto overID.
func (r *Reorderer) Drop(overID string) (bool, error) {
	r.mu.Lock()
	r.expireLocked()
	source := r.active
	r.mu.Unlock()
	if source == "" {
		return false, ErrNoActiveMove
	}
	return r.CommitMove(source, overID), nil
}

// CancelMove clears the active move without touching the order.
func (r *Reorderer) CancelMove() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = ""
}

// CommitMove removes sourceID and reinserts it at the index targetID held.
// Equal ids, absent ids or ids from different partitions are no-ops. The
// active move is cleared either way.
func (r *Reorderer) CommitMove(sourceID, targetID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = ""
	next, ok := r.moved(sourceID, targetID)
	if !ok {
		return false
	}
	r.order = next
	return true
}

// MoveBy commits a move between id and its neighbour delta steps away within
// the same partition. Moves past either edge are no-ops.
func (r *Reorderer) MoveBy(id string, delta int) bool {
	if delta == 0 {
		return false
	}
	r.mu.Lock()
	idx := slices.Index(r.order, id)
	target := ""
	if idx >= 0 {
		step := 1
		if delta < 0 {
			step = -1
		}
		remaining := delta * step
		for i := idx + step; i >= 0 && i < len(r.order); i += step {
			if !r.samePartition(id, r.order[i]) {
				continue
			}
			remaining--
			if remaining == 0 {
				target = r.order[i]
				break
			}
		}
	}
	r.mu.Unlock()
	if target == "" {
		return false
	}
	return r.CommitMove(id, target)
}

// Sync replaces the order with ids, keeping the relative order of ids that
// were already known and appending new ones.
func (r *Reorderer) Sync(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = applyOrderOverride(ids, r.order)
	if r.active != "" && !slices.Contains(r.order, r.active) {
		r.active = ""
	}
}

func (r *Reorderer) moved(sourceID, targetID string) ([]string, bool) {
	if sourceID == targetID {
		return nil, false
	}
	from := slices.Index(r.order, sourceID)
	to := slices.Index(r.order, targetID)
	if from < 0 || to < 0 || !r.samePartition(sourceID, targetID) {
		return nil, false
	}
	return arrayMove(r.order, from, to), true
}

func (r *Reorderer) samePartition(a, b string) bool {
	if r.partition == nil {
		return true
	}
	return r.partition(a) == r.partition(b)
}

func arrayMove(items []string, from, to int) []string {
	out := slices.Clone(items)
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}

// applyOrderOverride orders ids by preferred, appending ids preferred does
// not mention. Ids missing from ids are dropped.
func applyOrderOverride(ids []string, preferred []string) []string {
	if len(preferred) == 0 {
		return slices.Clone(ids)
	}
	present := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		present[id] = struct{}{}
	}
	result := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range preferred {
		if _, ok := present[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		result = append(result, id)
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			result = append(result, id)
			seen[id] = struct{}{}
		}
	}
	return result
}
