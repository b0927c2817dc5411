package repository

import (
	"github.com/FitBaseHQ/FitBase/app/models"
	"gorm.io/gorm"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// Create creates a new membership plan
func (r *planRepository) Create(plan *models.MembershipPlan) error {
	return r.db.Create(plan).Error
}

// GetByID retrieves a plan by id, scoped to its owner
func (r *planRepository) GetByID(ownerID, id uint) (*models.MembershipPlan, error) {
	var plan models.MembershipPlan
	err := r.db.Where("owner_id = ? AND id = ?", ownerID, id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetByDuration retrieves the owner's plan for a given duration
func (r *planRepository) GetByDuration(ownerID uint, durationMonths int) (*models.MembershipPlan, error) {
	var plan models.MembershipPlan
	err := r.db.Where("owner_id = ? AND duration_months = ?", ownerID, durationMonths).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListByOwner returns all plans of a tenant ordered by duration
func (r *planRepository) ListByOwner(ownerID uint) ([]models.MembershipPlan, error) {
	var plans []models.MembershipPlan
	err := r.db.Where("owner_id = ?", ownerID).Order("duration_months").Find(&plans).Error
	return plans, err
}

// Update saves changes to an existing plan
func (r *planRepository) Update(plan *models.MembershipPlan) error {
	return r.db.Save(plan).Error
}

// Delete soft-deletes a plan
func (r *planRepository) Delete(ownerID, id uint) error {
	return r.db.Where("owner_id = ?", ownerID).Delete(&models.MembershipPlan{}, id).Error
}
