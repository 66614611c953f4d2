package ports

import (
	"context"

	"github.com/bnema/quotabar/internal/domain"
)

// SnapshotStore persists the last successful snapshot between runs. Load
// reports ok=false when no snapshot has been stored yet.
type SnapshotStore interface {
	Load(ctx context.Context) (domain.UsageSnapshot, bool, error)
	Save(ctx context.Context, snapshot domain.UsageSnapshot) error
}
