// Package perdiem computes free-time-based daily charges for equipment
// held past its allowance. All functions are pure: identical inputs and
// rate table always produce identical output, which billing audits rely on.
package perdiem

import (
	"time"

	"draytrack-backend/internal/domain"
)

// RateSource provides the free-time and daily-rate lookups for one
// equipment class. Lookups never fail; unknown codes resolve to a default.
type RateSource interface {
	FreeTimeDays(code string) int
	DailyRateCents(code string) int64
}

// Calculate produces the charge statement for one piece of equipment held
// from start until end. A nil end means "still out": the reference end is
// now and the result status is ACCRUING.
//
// Weekends inside the span are exempt by policy. Public holidays are not
// modeled; the exemption rule is Saturday/Sunday only.
//
// Elapsed days are duration-based while exempt days are date-based, so an
// end time crossing into a Saturday midnight can raise the exemption before
// the elapsed ceiling moves. Charges are therefore monotone in the end date
// over whole-date spans, which is all the transports accept; sub-day end
// times can dip at that boundary.
func Calculate(equipmentID, operatorCode string, start time.Time, end *time.Time, src RateSource) domain.PerDiemResult {
	referenceEnd := time.Now().UTC()
	status := domain.PerDiemStatusAccruing
	if end != nil {
		referenceEnd = *end
		status = domain.PerDiemStatusStopped
	}

	elapsed := ElapsedDays(start, referenceEnd)
	exempt := weekendDays(start, referenceEnd)
	free := src.FreeTimeDays(operatorCode)

	chargeable := elapsed - free - exempt
	if chargeable < 0 {
		chargeable = 0
	}

	rate := src.DailyRateCents(operatorCode)

	return domain.PerDiemResult{
		EquipmentID:      equipmentID,
		OperatorCode:     operatorCode,
		ElapsedDays:      elapsed,
		ExemptDays:       exempt,
		FreeDays:         free,
		ChargeableDays:   chargeable,
		DailyRateCents:   rate,
		TotalChargeCents: int64(chargeable) * rate,
		Status:           status,
	}
}

// MarkBilled stamps a result that has been attached to a closed, invoiced
// move.
func MarkBilled(r domain.PerDiemResult) domain.PerDiemResult {
	r.Status = domain.PerDiemStatusBilled
	return r
}

// ElapsedDays returns the elapsed calendar days between start and end,
// rounded up to whole days, minimum 0. A move out for ten days and one
// hour is billed for eleven days.
func ElapsedDays(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// UsedDays is the billing signal applied at move completion: elapsed days
// past the snapshotted free-time allowance, without the weekend credit that
// external-facing per-diem reports apply. The two rules are deliberately
// separate billing policies.
func UsedDays(elapsedDays, freeDays int) int {
	used := elapsedDays - freeDays
	if used < 0 {
		return 0
	}
	return used
}

// weekendDays counts Saturdays and Sundays between start and end, both
// endpoint dates included.
func weekendDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())

	count := 0
	for !day.After(last) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}
