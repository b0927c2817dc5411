package membership

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/FitBaseHQ/FitBase/app/models"
	"github.com/FitBaseHQ/FitBase/internal/pkg/calendar"
	"github.com/gofiber/fiber/v2/log"
)

// TodayStatusNotCheckedIn is reported for members with no ledger record
// for the day. It is the implicit default, distinct from absent: absent
// is only written by an explicit mark or the daily sweep.
const TodayStatusNotCheckedIn = "hasnt checked in"

// MarkAttendance upserts a member's attendance for one day. A nil day
// means "now". Repeated calls with the same day and status converge to a
// single record; the current-month cache mirrors the result.
func (s *Service) MarkAttendance(ctx context.Context, ownerID uint, memberUUID string, day *time.Time, status string) (*models.AttendanceRecord, error) {
	_ = ctx
	normalized, ok := models.NormalizeAttendanceStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	member, err := s.repo.GetMemberByUUID(ownerID, memberUUID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(member.ID)
	defer unlock()

	target := s.clock()
	if day != nil {
		target = *day
	}
	target = calendar.StartOfDay(target)

	record := &models.AttendanceRecord{
		MemberID: member.ID,
		Date:     target,
		Status:   normalized,
	}
	if err := s.repo.UpsertAttendance(record); err != nil {
		return nil, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	s.mirrorToMonthCache(member.ID, target, normalized)
	return record, nil
}

// BulkAttendanceUpdate is one member's entry in a bulk mark.
type BulkAttendanceUpdate struct {
	MemberUUID string `json:"member_uuid"`
	Status     string `json:"status"`
}

// BulkAttendanceFailure records one member that could not be updated.
type BulkAttendanceFailure struct {
	MemberUUID string `json:"member_uuid"`
	Error      string `json:"error"`
}

// BulkAttendanceResult aggregates a bulk mark. Bulk marking is
// best-effort: one member's failure never blocks the rest.
type BulkAttendanceResult struct {
	Updated  int                     `json:"updated"`
	Failed   int                     `json:"failed"`
	Failures []BulkAttendanceFailure `json:"failures,omitempty"`
}

// BulkMarkAttendance applies the single-member upsert across a batch for
// one day. Each member is independent; failures are collected, logged
// and reported in the aggregate.
func (s *Service) BulkMarkAttendance(ctx context.Context, ownerID uint, day *time.Time, updates []BulkAttendanceUpdate) *BulkAttendanceResult {
	result := &BulkAttendanceResult{}
	for _, update := range updates {
		if _, err := s.MarkAttendance(ctx, ownerID, update.MemberUUID, day, update.Status); err != nil {
			log.Errorf("[Attendance] bulk mark failed for member %s: %v", update.MemberUUID, err)
			result.Failed++
			result.Failures = append(result.Failures, BulkAttendanceFailure{
				MemberUUID: update.MemberUUID,
				Error:      err.Error(),
			})
			continue
		}
		result.Updated++
	}
	return result
}

// MonthlySummary is the attendance report for one member-month.
type MonthlySummary struct {
	Records        []models.AttendanceRecord `json:"records"`
	PresentDays    int                       `json:"present_days"`
	AbsentDays     int                       `json:"absent_days"`
	TotalDays      int                       `json:"total_days"`
	AttendanceRate float64                   `json:"attendance_rate"`
}

// MonthlyAttendance returns the ledger slice for a month plus a summary.
// The rate is present/total as a percentage over recorded days only; a
// month with no records reports 0.
func (s *Service) MonthlyAttendance(ctx context.Context, ownerID uint, memberUUID string, month time.Month, year int) (*MonthlySummary, error) {
	_ = ctx
	member, err := s.repo.GetMemberByUUID(ownerID, memberUUID)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListAttendanceForMonth(member.ID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	if records == nil {
		records = []models.AttendanceRecord{}
	}
	summary := &MonthlySummary{Records: records}
	for _, record := range records {
		switch record.Status {
		case models.AttendanceStatusPresent:
			summary.PresentDays++
		case models.AttendanceStatusAbsent:
			summary.AbsentDays++
		}
	}
	summary.TotalDays = len(records)
	if summary.TotalDays > 0 {
		rate := float64(summary.PresentDays) / float64(summary.TotalDays) * 100
		summary.AttendanceRate = math.Round(rate*100) / 100
	}
	return summary, nil
}

// TodayEntry is one member's line in the daily attendance overview.
type TodayEntry struct {
	MemberUUID string `json:"member_uuid"`
	Name       string `json:"name"`
	Status     string `json:"status"`
}

// TodaySummary is the tenant-wide attendance picture for one day.
type TodaySummary struct {
	Date         string       `json:"date"`
	Entries      []TodayEntry `json:"entries"`
	Present      int          `json:"present"`
	Absent       int          `json:"absent"`
	NotCheckedIn int          `json:"not_checked_in"`
}

// TodaysAttendance reports every member of the tenant with their status
// for today. Members without a record (or with an unmarked one) report
// the implicit not-checked-in state.
func (s *Service) TodaysAttendance(ctx context.Context, ownerID uint) (*TodaySummary, error) {
	_ = ctx
	members, err := s.repo.ListMembersByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	today := calendar.StartOfDay(s.clock())

	ids := make([]uint, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.ID)
	}
	records, err := s.repo.ListAttendanceByDay(ids, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list today's attendance: %w", err)
	}
	byMember := make(map[uint]string, len(records))
	for _, record := range records {
		byMember[record.MemberID] = record.Status
	}

	summary := &TodaySummary{
		Date:    today.Format(DayKeyLayout),
		Entries: make([]TodayEntry, 0, len(members)),
	}
	for _, member := range members {
		status, ok := byMember[member.ID]
		if !ok || status == models.AttendanceStatusUnmarked {
			status = TodayStatusNotCheckedIn
		}
		switch status {
		case models.AttendanceStatusPresent:
			summary.Present++
		case models.AttendanceStatusAbsent:
			summary.Absent++
		default:
			summary.NotCheckedIn++
		}
		summary.Entries = append(summary.Entries, TodayEntry{
			MemberUUID: member.UUID,
			Name:       member.Name,
			Status:     status,
		})
	}
	return summary, nil
}

// CurrentMonthAttendance returns the member's day-keyed status map for
// the current month, served cache-aside: on a miss the month is rebuilt
// from the ledger and written back. The cache is never authoritative.
func (s *Service) CurrentMonthAttendance(ctx context.Context, ownerID uint, memberUUID string) (map[string]string, error) {
	_ = ctx
	member, err := s.repo.GetMemberByUUID(ownerID, memberUUID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	year, month := now.Year(), now.Month()

	if s.cache != nil {
		if days, hit, err := s.cache.GetMonth(member.ID, year, month); err == nil && hit {
			return days, nil
		} else if err != nil {
			log.Errorf("[Attendance] month cache read failed for member %d: %v", member.ID, err)
		}
	}

	records, err := s.repo.ListAttendanceForMonth(member.ID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild month index: %w", err)
	}
	days := make(map[string]string, len(records))
	for _, record := range records {
		days[record.Date.Format(DayKeyLayout)] = record.Status
	}

	if s.cache != nil {
		if err := s.cache.PutMonth(member.ID, year, month, days); err != nil {
			log.Errorf("[Attendance] month cache rebuild write failed for member %d: %v", member.ID, err)
		}
	}
	return days, nil
}

// mirrorToMonthCache keeps the derived index in step with a single-day
// write. Cache errors are logged, never surfaced: the ledger row already
// committed and the index is rebuildable.
func (s *Service) mirrorToMonthCache(memberID uint, day time.Time, status string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetDayStatus(memberID, day, status); err != nil {
		log.Errorf("[Attendance] month cache mirror failed for member %d: %v", memberID, err)
	}
}
