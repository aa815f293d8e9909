package domain

import (
	"time"

	"github.com/segyhp/tontine-ledger/pkg/utils"
)

// DefaultDeadlineDay is used when a month has no explicit deadline day
const DefaultDeadlineDay = 10

// MonthlyDeadline is the day of month by which that month's shares are due
type MonthlyDeadline struct {
	ID          int64     `json:"id" db:"id"`
	Month       time.Time `json:"month" db:"month"`
	DeadlineDay int       `json:"deadline_day" db:"deadline_day"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// DeadlineDate resolves the deadline into a date in loc
func (d *MonthlyDeadline) DeadlineDate(loc *time.Location) time.Time {
	month := time.Date(d.Month.Year(), d.Month.Month(), 1, 0, 0, 0, 0, loc)
	return utils.ResolveDeadline(month, d.DeadlineDay)
}

type SetDeadlineRequest struct {
	DeadlineDay int `json:"deadline_day" validate:"required,min=1,max=31"`
}
