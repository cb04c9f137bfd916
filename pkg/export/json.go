package export

import (
	"encoding/json"
	"time"

	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
)

type jsonDocument struct {
	*aggregate.Snapshot
	ExportedAt time.Time `json:"exportedAt"`
}

func writeJSON(snap *aggregate.Snapshot, at time.Time) ([]byte, error) {
	return json.MarshalIndent(jsonDocument{Snapshot: snap, ExportedAt: at.UTC()}, "", "  ")
}
