package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// MembershipPlan is a tenant's recurring plan. One plan per distinct
// duration per owner. Price edits never rewrite renewal history because
// renewal entries snapshot the plan at renewal time.
type MembershipPlan struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OwnerID        uint           `gorm:"not null;index:ux_plans_owner_duration,unique,priority:1" json:"owner_id"`
	Name           string         `gorm:"type:varchar(100)" json:"name" validate:"required,min=2,max=100"`
	DurationMonths int            `gorm:"not null;index:ux_plans_owner_duration,unique,priority:2" json:"duration_months" validate:"required,gt=0"`
	Price          float64        `gorm:"type:decimal(10,2);not null" json:"price" validate:"gte=0"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *MembershipPlan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
