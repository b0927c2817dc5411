package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MEMBER_STATUS_ACTIVE   = "active"
	MEMBER_STATUS_INACTIVE = "inactive"
)

// Member is the aggregate the lifecycle engine operates on. All date
// fields are normalized to a day boundary; time-of-day carries no meaning.
type Member struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UUID      string `gorm:"type:char(36);uniqueIndex" json:"uuid"`
	OwnerID   uint   `gorm:"not null;index:idx_members_owner_status,priority:1;index:idx_members_owner_frozen,priority:1" json:"owner_id"`
	PlanID    uint   `gorm:"not null;index" json:"plan_id"`
	Name      string `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Contact   string `gorm:"type:varchar(50)" json:"contact" validate:"max=50"`
	Email     string `gorm:"type:varchar(200);default:null" json:"email" validate:"omitempty,email,max=200"`
	Address   string `gorm:"type:varchar(255);default:null" json:"address" validate:"max=255"`
	Status    string `gorm:"type:varchar(20);default:'active';index:idx_members_owner_status,priority:2" json:"status" validate:"oneof=active inactive"`

	JoiningDate     time.Time `gorm:"type:date;not null" json:"joining_date"`
	LastPaymentDate time.Time `gorm:"type:date;not null" json:"last_payment_date"`
	NextBillDate    time.Time `gorm:"type:date;not null;index" json:"next_bill_date"`

	// Freeze block. When IsFrozen is false the start/reason/original
	// fields are cleared; LastUnfreezeDate survives across cycles.
	// FreezeStartDate keeps its time-of-day: frozen-day accounting is a
	// ceiling over the real elapsed duration, not over calendar dates.
	IsFrozen             bool       `gorm:"default:false;index:idx_members_owner_frozen,priority:2" json:"is_frozen"`
	FreezeStartDate      *time.Time `gorm:"type:timestamp;default:null" json:"freeze_start_date,omitempty"`
	FreezeEndDate        *time.Time `gorm:"type:timestamp;default:null" json:"freeze_end_date,omitempty"`
	FreezeReason         string     `gorm:"type:varchar(255);default:''" json:"freeze_reason,omitempty"`
	OriginalNextBillDate *time.Time `gorm:"type:date;default:null" json:"original_next_bill_date,omitempty"`
	LastUnfreezeDate     *time.Time `gorm:"type:timestamp;default:null" json:"last_unfreeze_date,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Member) Validate() error {
	v := validator.New()

	return v.Struct(m)
}

// NewMember builds an unsaved member with a fresh UUID. Billing fields
// (LastPaymentDate, NextBillDate) are seeded by the membership service,
// which owns the calendar arithmetic.
func NewMember(ownerID, planID uint, name, contact string, joiningDate time.Time) *Member {
	return &Member{
		UUID:        uuid.New().String(),
		OwnerID:     ownerID,
		PlanID:      planID,
		Name:        name,
		Contact:     contact,
		Status:      MEMBER_STATUS_ACTIVE,
		JoiningDate: joiningDate,
	}
}

// IsActive reports whether the member status is active
func (m *Member) IsActive() bool {
	return m.Status == MEMBER_STATUS_ACTIVE
}

// ClearFreeze resets the freeze block after an unfreeze. LastUnfreezeDate
// is set by the caller since it doubles as freeze history.
func (m *Member) ClearFreeze() {
	m.IsFrozen = false
	m.FreezeStartDate = nil
	m.FreezeReason = ""
	m.OriginalNextBillDate = nil
}
