package membership

import (
	"errors"
	"time"

	"github.com/FitBaseHQ/FitBase/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the lifecycle engine.
type Repository interface {
	CreateMember(member *models.Member) error
	SaveMember(member *models.Member) error
	GetMemberByUUID(ownerID uint, memberUUID string) (*models.Member, error)
	ListMembersByOwner(ownerID uint) ([]models.Member, error)
	// ListSweepCandidates returns active, unfrozen members across all
	// tenants. The daily sweep is the only caller that crosses tenants.
	ListSweepCandidates() ([]models.Member, error)

	GetPlan(ownerID, planID uint) (*models.MembershipPlan, error)

	// RenewMember commits a renewal entry together with the member's new
	// billing state; the two writes are all-or-nothing.
	RenewMember(member *models.Member, entry *models.RenewalEntry) error
	ListRenewals(memberID uint) ([]models.RenewalEntry, error)

	UpsertAttendance(record *models.AttendanceRecord) error
	// GetAttendanceForDay returns (nil, nil) when no record exists for
	// that member-day.
	GetAttendanceForDay(memberID uint, day time.Time) (*models.AttendanceRecord, error)
	ListAttendanceForMonth(memberID uint, year int, month time.Month) ([]models.AttendanceRecord, error)
	ListAttendanceInRange(memberID uint, from, to time.Time) ([]models.AttendanceRecord, error)
	ListAttendanceByDay(memberIDs []uint, day time.Time) ([]models.AttendanceRecord, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a membership repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateMember(member *models.Member) error {
	return r.db.Create(member).Error
}

func (r *gormRepository) SaveMember(member *models.Member) error {
	return r.db.Save(member).Error
}

func (r *gormRepository) GetMemberByUUID(ownerID uint, memberUUID string) (*models.Member, error) {
	var member models.Member
	err := r.db.Where("owner_id = ? AND uuid = ?", ownerID, memberUUID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *gormRepository) ListMembersByOwner(ownerID uint) ([]models.Member, error) {
	var members []models.Member
	err := r.db.Where("owner_id = ?", ownerID).Order("id").Find(&members).Error
	return members, err
}

func (r *gormRepository) ListSweepCandidates() ([]models.Member, error) {
	var members []models.Member
	err := r.db.
		Where("status = ? AND is_frozen = ?", models.MEMBER_STATUS_ACTIVE, false).
		Order("id").
		Find(&members).Error
	return members, err
}

func (r *gormRepository) GetPlan(ownerID, planID uint) (*models.MembershipPlan, error) {
	var plan models.MembershipPlan
	err := r.db.Where("owner_id = ? AND id = ?", ownerID, planID).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) RenewMember(member *models.Member, entry *models.RenewalEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Save(member).Error
	})
}

func (r *gormRepository) ListRenewals(memberID uint) ([]models.RenewalEntry, error) {
	var entries []models.RenewalEntry
	err := r.db.Where("member_id = ?", memberID).Order("date").Find(&entries).Error
	return entries, err
}

func (r *gormRepository) UpsertAttendance(record *models.AttendanceRecord) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "member_id"},
			{Name: "date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"status",
			"updated_at",
		}),
	}).Create(record).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("member_id = ? AND date = ?", record.MemberID, record.Date).
		First(record).Error
}

func (r *gormRepository) GetAttendanceForDay(memberID uint, day time.Time) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.Where("member_id = ? AND date = ?", memberID, day).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *gormRepository) ListAttendanceForMonth(memberID uint, year int, month time.Month) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.
		Where("member_id = ? AND YEAR(date) = ? AND MONTH(date) = ?", memberID, year, int(month)).
		Order("date").
		Find(&records).Error
	return records, err
}

func (r *gormRepository) ListAttendanceInRange(memberID uint, from, to time.Time) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.
		Where("member_id = ? AND date >= ? AND date <= ?", memberID, from, to).
		Order("date").
		Find(&records).Error
	return records, err
}

func (r *gormRepository) ListAttendanceByDay(memberIDs []uint, day time.Time) ([]models.AttendanceRecord, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}
	var records []models.AttendanceRecord
	err := r.db.Where("member_id IN ? AND date = ?", memberIDs, day).Find(&records).Error
	return records, err
}
