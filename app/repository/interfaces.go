package repository

import (
	"github.com/FitBaseHQ/FitBase/app/models"
)

// OwnerRepository defines the interface for tenant-related database operations
type OwnerRepository interface {
	Create(owner *models.Owner) error
	GetByID(id uint) (*models.Owner, error)
	GetByEmail(email string) (*models.Owner, error)
	GetByAPIKeyHash(hash string) (*models.Owner, error)
	Update(owner *models.Owner) error
	Count() (int64, error)
}

// PlanRepository defines the interface for membership-plan database operations
type PlanRepository interface {
	Create(plan *models.MembershipPlan) error
	GetByID(ownerID, id uint) (*models.MembershipPlan, error)
	GetByDuration(ownerID uint, durationMonths int) (*models.MembershipPlan, error)
	ListByOwner(ownerID uint) ([]models.MembershipPlan, error)
	Update(plan *models.MembershipPlan) error
	Delete(ownerID, id uint) error
}

// MemberRepository defines the interface for member list/detail operations
// used by the API layer. Lifecycle mutations go through the membership
// engine, not this repository.
type MemberRepository interface {
	GetByUUID(ownerID uint, memberUUID string) (*models.Member, error)
	List(ownerID uint, offset, limit int) ([]models.Member, error)
	Count(ownerID uint) (int64, error)
	Search(ownerID uint, query string) ([]models.Member, error)
	Update(member *models.Member) error
}
