package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/FitBaseHQ/FitBase/app/models"
	"github.com/FitBaseHQ/FitBase/internal/pkg/calendar"
	"github.com/FitBaseHQ/FitBase/internal/pkg/env"
	"gorm.io/gorm"
)

// Clock supplies the current time; injectable so tests can pin "now".
type Clock func() time.Time

// Config carries the engine's policy switches.
type Config struct {
	// UnfreezeOnRenew clears a member's freeze state when they renew.
	// Off by default: renewing a frozen member leaves the freeze alone.
	UnfreezeOnRenew bool
}

// ConfigFromEnv reads the engine configuration from the environment.
func ConfigFromEnv() Config {
	return Config{
		UnfreezeOnRenew: env.GetEnv("BILLING_UNFREEZE_ON_RENEW", "false") == "true",
	}
}

// Service is the membership lifecycle engine: billing renewal, freeze
// control, the attendance ledger, the daily sweep and reliability
// ranking all run through it.
type Service struct {
	repo  Repository
	cache MonthCache
	clock Clock
	cfg   Config
	locks *memberLocks
}

// NewService creates an engine from an injected repository and cache.
func NewService(repo Repository, cache MonthCache, clock Clock, cfg Config) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:  repo,
		cache: cache,
		clock: clock,
		cfg:   cfg,
		locks: newMemberLocks(),
	}
}

// NewServiceFromDB creates an engine from a GORM DB handle with the
// Redis-backed month cache and environment configuration.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), NewRedisMonthCache(), time.Now, ConfigFromEnv())
}

// CreateMember registers a member and seeds the billing fields: the next
// bill date is the joining date projected forward by the plan duration.
func (s *Service) CreateMember(ctx context.Context, ownerID, planID uint, name, contact string, joiningDate time.Time) (*models.Member, error) {
	_ = ctx
	plan, err := s.repo.GetPlan(ownerID, planID)
	if err != nil {
		return nil, err
	}

	joining := calendar.StartOfDay(joiningDate)
	member := models.NewMember(ownerID, planID, name, contact, joining)
	member.LastPaymentDate = joining
	member.NextBillDate = calendar.AddMonths(plan.DurationMonths, joining)

	if err := member.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateMember(member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

// RenewalResult is returned by Renew.
type RenewalResult struct {
	Member   *models.Member `json:"member"`
	DaysLate int            `json:"days_late"`
}

// Renew records a payment/plan change. Lateness is measured against the
// pre-renewal next bill date; the new bill date is projected from the
// renewal time under the new plan. Freeze state is untouched unless the
// unfreeze-on-renew policy is enabled.
func (s *Service) Renew(ctx context.Context, ownerID uint, memberUUID string, newPlanID uint, at time.Time) (*RenewalResult, error) {
	_ = ctx
	plan, err := s.repo.GetPlan(ownerID, newPlanID)
	if err != nil {
		return nil, err
	}

	member, err := s.repo.GetMemberByUUID(ownerID, memberUUID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(member.ID)
	defer unlock()

	// Re-read under the lock so the lateness computation sees the latest
	// committed bill date.
	member, err = s.repo.GetMemberByUUID(ownerID, memberUUID)
	if err != nil {
		return nil, err
	}

	if at.IsZero() {
		at = s.clock()
	}
	daysLate := calendar.DaysBetweenCeil(member.NextBillDate, at)

	entry := &models.RenewalEntry{
		MemberID:           member.ID,
		Date:               at,
		DaysLate:           daysLate,
		PlanID:             plan.ID,
		PlanDurationMonths: plan.DurationMonths,
		PlanPrice:          plan.Price,
	}
	member.PlanID = plan.ID
	member.LastPaymentDate = calendar.StartOfDay(at)
	member.NextBillDate = calendar.AddMonths(plan.DurationMonths, at)
	member.Status = models.MEMBER_STATUS_ACTIVE
	if s.cfg.UnfreezeOnRenew && member.IsFrozen {
		now := s.clock()
		member.ClearFreeze()
		member.FreezeEndDate = &now
		member.LastUnfreezeDate = &now
	}

	// History entry and member state commit as one unit: a failed renew
	// must not leave a renewal entry behind a stale bill date.
	if err := s.repo.RenewMember(member, entry); err != nil {
		return nil, fmt.Errorf("failed to commit renewal: %w", err)
	}

	return &RenewalResult{Member: member, DaysLate: daysLate}, nil
}

// UpdateJoiningDate corrects the original billing anchor. The next bill
// date is recomputed from the corrected joining date and the member's
// current plan; renewal history is not touched.
func (s *Service) UpdateJoiningDate(ctx context.Context, ownerID uint, memberUUID string, joiningDate time.Time) (*models.Member, error) {
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

	plan, err := s.repo.GetPlan(ownerID, member.PlanID)
	if err != nil {
		return nil, err
	}

	joining := calendar.StartOfDay(joiningDate)
	member.JoiningDate = joining
	member.NextBillDate = calendar.AddMonths(plan.DurationMonths, joining)

	if err := s.repo.SaveMember(member); err != nil {
		return nil, fmt.Errorf("failed to save member after joining date change: %w", err)
	}
	return member, nil
}

// RenewalHistory returns the member's renewal entries, oldest first.
// Each entry carries the plan snapshot taken at renewal time, so the
// history stays truthful when plans are edited or deleted later.
func (s *Service) RenewalHistory(ctx context.Context, ownerID uint, memberUUID string) ([]models.RenewalEntry, error) {
	_ = ctx
	member, err := s.repo.GetMemberByUUID(ownerID, memberUUID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRenewals(member.ID)
}

// SetMemberStatus toggles a member between active and inactive.
func (s *Service) SetMemberStatus(ctx context.Context, ownerID uint, memberUUID string, status string) (*models.Member, error) {
	_ = ctx
	if status != models.MEMBER_STATUS_ACTIVE && status != models.MEMBER_STATUS_INACTIVE {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

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

	member.Status = status
	if err := s.repo.SaveMember(member); err != nil {
		return nil, fmt.Errorf("failed to save member status: %w", err)
	}
	return member, nil
}
