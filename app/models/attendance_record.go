package models

import (
	"strings"
	"time"
)

const (
	AttendanceStatusPresent  = "present"
	AttendanceStatusAbsent   = "absent"
	AttendanceStatusUnmarked = "unmarked"
)

// AttendanceRecord is one member-day in the attendance ledger. The unique
// (member_id, date) index enforces the at-most-one-record-per-day rule at
// the store level; the service enforces it with a day-keyed upsert.
type AttendanceRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MemberID  uint      `gorm:"not null;index:ux_attendance_member_date,unique,priority:1" json:"member_id"`
	Date      time.Time `gorm:"type:date;not null;index:ux_attendance_member_date,unique,priority:2;index" json:"date"`
	Status    string    `gorm:"type:varchar(16);not null;default:'unmarked'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NormalizeAttendanceStatus maps free-form input onto the three-way
// status enum. "hasnt checked in" is the legacy wire spelling of the
// implicit unmarked state and must stay distinct from absent.
func NormalizeAttendanceStatus(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case AttendanceStatusPresent:
		return AttendanceStatusPresent, true
	case AttendanceStatusAbsent:
		return AttendanceStatusAbsent, true
	case AttendanceStatusUnmarked, "hasnt checked in", "hasn't checked in":
		return AttendanceStatusUnmarked, true
	default:
		return "", false
	}
}
