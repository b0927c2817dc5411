package models

import "time"

// RenewalEntry is one append-only row of a member's renewal history.
// Plan duration and price are snapshotted so later plan edits do not
// retroactively alter past renewals.
type RenewalEntry struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	MemberID           uint      `gorm:"not null;index:idx_renewals_member_date,priority:1" json:"member_id"`
	Date               time.Time `gorm:"type:timestamp;not null;index:idx_renewals_member_date,priority:2" json:"date"`
	DaysLate           int       `gorm:"not null;default:0" json:"days_late"`
	PlanID             uint      `gorm:"not null" json:"plan_id"`
	PlanDurationMonths int       `gorm:"not null" json:"plan_duration_months"`
	PlanPrice          float64   `gorm:"type:decimal(10,2);not null" json:"plan_price"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// WasLate reports whether the renewal came after the bill date.
func (r *RenewalEntry) WasLate() bool {
	return r.DaysLate > 0
}
