package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/FitBaseHQ/FitBase/app/models"
	"github.com/FitBaseHQ/FitBase/internal/pkg/calendar"
)

// Freeze pauses a member's billing clock. The pre-freeze next bill date
// is snapshotted so the paused projection can be restored (and extended
// by the frozen days) on unfreeze.
func (s *Service) Freeze(ctx context.Context, ownerID uint, memberUUID string, reason string) (*models.Member, error) {
	_ = ctx
	member, err := s.repo.GetMemberByUUID(ownerID, memberUUID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(member.ID)
	defer unlock()

	member, err = s.repo.GetMemberByUUID(ownerID, memberUUID)
	if err != nil {
		return nil, err
	}

	if member.IsFrozen {
		return nil, ErrAlreadyFrozen
	}

	now := s.clock()
	original := member.NextBillDate

	member.IsFrozen = true
	member.FreezeStartDate = &now
	member.FreezeEndDate = nil
	member.FreezeReason = reason
	member.OriginalNextBillDate = &original

	if err := s.repo.SaveMember(member); err != nil {
		return nil, fmt.Errorf("failed to save frozen member: %w", err)
	}
	return member, nil
}

// UnfreezeResult is returned by Unfreeze.
type UnfreezeResult struct {
	Member             *models.Member `json:"member"`
	FrozenDays         int            `json:"frozen_days"`
	NewExpirationDate  time.Time      `json:"new_expiration_date"`
	WasSameDayUnfreeze bool           `json:"was_same_day_unfreeze"`
}

// Unfreeze resumes the billing clock. Frozen days are added back onto
// the snapshotted bill date, with one guard: a freeze and unfreeze on
// the same calendar day counts as zero frozen days, so a brief pause
// cannot extend billing by a spurious day through rounding.
func (s *Service) Unfreeze(ctx context.Context, ownerID uint, memberUUID string) (*UnfreezeResult, error) {
	_ = ctx
	member, err := s.repo.GetMemberByUUID(ownerID, memberUUID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(member.ID)
	defer unlock()

	member, err = s.repo.GetMemberByUUID(ownerID, memberUUID)
	if err != nil {
		return nil, err
	}

	if !member.IsFrozen || member.FreezeStartDate == nil {
		return nil, ErrNotFrozen
	}

	now := s.clock()
	start := *member.FreezeStartDate

	original := member.NextBillDate
	if member.OriginalNextBillDate != nil {
		original = *member.OriginalNextBillDate
	}

	sameDay := calendar.SameDay(start, now)
	frozenDays := 0
	newBillDate := original
	if !sameDay {
		frozenDays = calendar.DaysBetweenCeil(start, now)
		newBillDate = original.AddDate(0, 0, frozenDays)
	}

	member.NextBillDate = newBillDate
	member.ClearFreeze()
	member.FreezeEndDate = &now
	member.LastUnfreezeDate = &now

	if err := s.repo.SaveMember(member); err != nil {
		return nil, fmt.Errorf("failed to save unfrozen member: %w", err)
	}

	return &UnfreezeResult{
		Member:             member,
		FrozenDays:         frozenDays,
		NewExpirationDate:  newBillDate,
		WasSameDayUnfreeze: sameDay,
	}, nil
}
