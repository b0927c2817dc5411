package repository

import (
	"strings"

	"github.com/FitBaseHQ/FitBase/app/models"
	"gorm.io/gorm"
)

// ownerRepository implements the OwnerRepository interface
type ownerRepository struct {
	db *gorm.DB
}

// NewOwnerRepository creates a new owner repository instance
func NewOwnerRepository(db *gorm.DB) OwnerRepository {
	return &ownerRepository{db: db}
}

// Create creates a new owner in the database
func (r *ownerRepository) Create(owner *models.Owner) error {
	return r.db.Create(owner).Error
}

// GetByID retrieves an owner by their ID
func (r *ownerRepository) GetByID(id uint) (*models.Owner, error) {
	var owner models.Owner
	err := r.db.First(&owner, id).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

// GetByEmail retrieves an owner by their email address
func (r *ownerRepository) GetByEmail(email string) (*models.Owner, error) {
	var owner models.Owner
	err := r.db.Where("email = ?", email).First(&owner).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

// GetByAPIKeyHash resolves an active API key hash to its owner.
func (r *ownerRepository) GetByAPIKeyHash(hash string) (*models.Owner, error) {
	trimmed := strings.TrimSpace(hash)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var owner models.Owner
	err := r.db.
		Where("api_key_hash = ? AND api_key_hash <> '' AND api_key_revoked_at IS NULL", trimmed).
		First(&owner).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

// Update saves changes to an existing owner
func (r *ownerRepository) Update(owner *models.Owner) error {
	return r.db.Save(owner).Error
}

// Count returns the total number of owners
func (r *ownerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Owner{}).Count(&count).Error
	return count, err
}
