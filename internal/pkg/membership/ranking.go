package membership

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/FitBaseHQ/FitBase/app/models"
	"github.com/FitBaseHQ/FitBase/internal/pkg/calendar"
)

// Renewal consistency tiers, ordered best to worst.
const (
	ConsistencyConsistent       = "Consistent"
	ConsistencyOccasionallyLate = "Occasionally Late"
	ConsistencyOftenLate        = "Often Late"
)

const rankingWindowMonths = 3

// AttendeeRanking is one member's score in the reliability ranking.
type AttendeeRanking struct {
	MemberUUID      string  `json:"member_uuid"`
	Name            string  `json:"name"`
	AttendanceRate  float64 `json:"attendance_rate"`
	PresentDays     int     `json:"present_days"`
	Consistency     string  `json:"consistency"`
	AverageDaysLate float64 `json:"average_days_late"`
}

// TopAttendee ranks the tenant's active members over the trailing three
// calendar months and returns the best one, or nil when no member has a
// present day in the window. Ranking keys, in order: attendance rate
// (desc), renewal consistency tier (best first), average days late
// (asc). The sort is stable so deeper ties keep traversal order.
func (s *Service) TopAttendee(ctx context.Context, ownerID uint, now time.Time) (*AttendeeRanking, error) {
	rankings, err := s.RankAttendees(ctx, ownerID, now)
	if err != nil {
		return nil, err
	}
	if len(rankings) == 0 {
		return nil, nil
	}
	return &rankings[0], nil
}

// RankAttendees computes the full reliability ranking for a tenant.
func (s *Service) RankAttendees(ctx context.Context, ownerID uint, now time.Time) ([]AttendeeRanking, error) {
	_ = ctx
	if now.IsZero() {
		now = s.clock()
	}
	windowStart := calendar.AddMonths(-rankingWindowMonths, now)

	members, err := s.repo.ListMembersByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	var rankings []AttendeeRanking
	for _, member := range members {
		if !member.IsActive() {
			continue
		}

		analysisStart := windowStart
		if member.JoiningDate.After(analysisStart) {
			analysisStart = member.JoiningDate
		}
		daysInWindow := calendar.DaysBetweenCeil(analysisStart, now)

		records, err := s.repo.ListAttendanceInRange(member.ID, calendar.StartOfDay(windowStart), calendar.StartOfDay(now))
		if err != nil {
			return nil, fmt.Errorf("failed to list attendance for member %d: %w", member.ID, err)
		}
		presentDays := 0
		for _, record := range records {
			if record.Status == models.AttendanceStatusPresent {
				presentDays++
			}
		}
		if presentDays == 0 {
			// A member who never showed up cannot be top attendee.
			continue
		}

		rate := 0.0
		if daysInWindow > 0 {
			rate = float64(presentDays) / float64(daysInWindow) * 100
			rate = math.Round(rate*100) / 100
		}

		renewals, err := s.repo.ListRenewals(member.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list renewals for member %d: %w", member.ID, err)
		}
		consistency, avgDaysLate := classifyRenewals(renewals)

		rankings = append(rankings, AttendeeRanking{
			MemberUUID:      member.UUID,
			Name:            member.Name,
			AttendanceRate:  rate,
			PresentDays:     presentDays,
			Consistency:     consistency,
			AverageDaysLate: avgDaysLate,
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.AttendanceRate != b.AttendanceRate {
			return a.AttendanceRate > b.AttendanceRate
		}
		if consistencyRank(a.Consistency) != consistencyRank(b.Consistency) {
			return consistencyRank(a.Consistency) < consistencyRank(b.Consistency)
		}
		return a.AverageDaysLate < b.AverageDaysLate
	})
	return rankings, nil
}

// classifyRenewals derives the consistency tier and average lateness
// from a member's renewal history. No history reads as consistent.
func classifyRenewals(renewals []models.RenewalEntry) (string, float64) {
	if len(renewals) == 0 {
		return ConsistencyConsistent, 0
	}

	late := 0
	totalLateDays := 0
	for _, entry := range renewals {
		if entry.WasLate() {
			late++
		}
		totalLateDays += entry.DaysLate
	}

	lateRatio := float64(late) / float64(len(renewals))
	avg := float64(totalLateDays) / float64(len(renewals))

	switch {
	case lateRatio > 0.5:
		return ConsistencyOftenLate, avg
	case lateRatio > 0:
		return ConsistencyOccasionallyLate, avg
	default:
		return ConsistencyConsistent, avg
	}
}

func consistencyRank(tier string) int {
	switch tier {
	case ConsistencyConsistent:
		return 1
	case ConsistencyOccasionallyLate:
		return 2
	default:
		return 3
	}
}
