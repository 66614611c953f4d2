package ports

import (
	"context"

	"github.com/bnema/quotabar/internal/domain"
)

// UsageFetcher runs one full fetch cycle: invoke the external script, parse
// its output, classify any failure. A non-nil error is always a
// *domain.FetchError.
type UsageFetcher interface {
	Fetch(ctx context.Context) (domain.UsageSnapshot, error)
}
