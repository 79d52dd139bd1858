package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	GetBetween(ctx context.Context, from, to time.Time) ([]Holiday, error)
}
