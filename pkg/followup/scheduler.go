// Package followup computes follow-up reminder dates for activities.
package followup

import (
	"time"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
)

// CalculateNextFollowUp returns the reminder date described by cfg.
//
// before_* types subtract Days from their anchor, after_* types add Interval.
// The anchor is startDate for *_start and endDate for *_end. The result is absent
// when the follow-up is disabled, the anchor is missing or unparsable, or the
// offset for the type is not set. Offsets are used as given; range checks belong
// to the validator.
func CalculateNextFollowUp(cfg models.FollowUpConfig, startDate, endDate string) (time.Time, bool) {
	if !cfg.Enabled {
		return time.Time{}, false
	}

	var (
		anchor string
		offset *int
		sign   int
	)

	switch cfg.Type {
	case models.FollowUpBeforeStart:
		anchor, offset, sign = startDate, cfg.Days, -1
	case models.FollowUpBeforeEnd:
		anchor, offset, sign = endDate, cfg.Days, -1
	case models.FollowUpAfterStart:
		anchor, offset, sign = startDate, cfg.Interval, 1
	case models.FollowUpAfterEnd:
		anchor, offset, sign = endDate, cfg.Interval, 1
	default:
		return time.Time{}, false
	}

	if anchor == "" || offset == nil {
		return time.Time{}, false
	}

	base, err := models.ParseDate(anchor)
	if err != nil {
		return time.Time{}, false
	}

	return base.AddDate(0, 0, sign*(*offset)), true
}

// NextFollowUpDate is CalculateNextFollowUp formatted as a calendar date, or nil
// when no follow-up applies.
func NextFollowUpDate(cfg models.FollowUpConfig, startDate, endDate string) *string {
	next, ok := CalculateNextFollowUp(cfg, startDate, endDate)
	if !ok {
		return nil
	}

	formatted := next.Format(models.DateLayout)

	return &formatted
}
