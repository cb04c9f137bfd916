package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-sales-dashboard/components/dashboard"
	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
)

// SnapshotInput is the empty request for the current snapshot.
type SnapshotInput struct{}

type snapshotService interface {
	Snapshot() (aggregate.Snapshot, bool)
}

// SnapshotQuery returns the last successfully loaded snapshot.
type SnapshotQuery struct {
	service snapshotService
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(service snapshotService) *SnapshotQuery {
	return &SnapshotQuery{service: service}
}

var _ gocommand.Querier[SnapshotInput, aggregate.Snapshot] = (*SnapshotQuery)(nil)

// Query returns dashboard.ErrNoSnapshot until the first refresh succeeds.
func (q *SnapshotQuery) Query(_ context.Context, _ SnapshotInput) (aggregate.Snapshot, error) {
	snap, ok := q.service.Snapshot()
	if !ok {
		return aggregate.Snapshot{}, dashboard.ErrNoSnapshot
	}
	return snap, nil
}
