package repository

import (
	"fmt"

	"github.com/FitBaseHQ/FitBase/app/models"
	"gorm.io/gorm"
)

// memberRepository implements the MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository instance
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// GetByUUID retrieves a member by UUID, scoped to its owner
func (r *memberRepository) GetByUUID(ownerID uint, memberUUID string) (*models.Member, error) {
	var member models.Member
	err := r.db.Where("owner_id = ? AND uuid = ?", ownerID, memberUUID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// List returns a page of the tenant's members
func (r *memberRepository) List(ownerID uint, offset, limit int) ([]models.Member, error) {
	var members []models.Member
	err := r.db.Where("owner_id = ?", ownerID).Offset(offset).Limit(limit).Order("id").Find(&members).Error
	return members, err
}

// Count returns the total number of the tenant's members
func (r *memberRepository) Count(ownerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

// Search finds members by name or contact
func (r *memberRepository) Search(ownerID uint, query string) ([]models.Member, error) {
	var members []models.Member
	pattern := fmt.Sprintf("%%%s%%", query)
	err := r.db.
		Where("owner_id = ? AND (name LIKE ? OR contact LIKE ?)", ownerID, pattern, pattern).
		Order("id").
		Find(&members).Error
	return members, err
}

// Update saves changes to an existing member
func (r *memberRepository) Update(member *models.Member) error {
	return r.db.Save(member).Error
}
