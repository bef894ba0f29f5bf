package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// ListByRange returns holidays with from <= date <= to.
	ListByRange(ctx context.Context, from, to time.Time) ([]Holiday, error)
}
