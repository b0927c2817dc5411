package membership

import (
	"context"
	"sync"
	"time"

	"github.com/FitBaseHQ/FitBase/app/models"
)

// memoryRepository is an in-memory Repository used by the engine tests.
// It mimics store behavior: reads hand out copies, the attendance map is
// keyed by day, and the (member, day) uniqueness rule holds by
// construction.
type memoryRepository struct {
	mu         sync.Mutex
	members    map[uint]*models.Member
	plans      map[uint]*models.MembershipPlan
	renewals   map[uint][]models.RenewalEntry
	attendance map[uint]map[string]*models.AttendanceRecord

	nextMemberID uint
	nextRecordID uint

	// attendanceErr simulates a per-member store failure on attendance
	// reads, for best-effort batch tests.
	attendanceErr map[uint]error

	// renewErr fails the next RenewMember commit, for atomicity tests.
	renewErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		members:       make(map[uint]*models.Member),
		plans:         make(map[uint]*models.MembershipPlan),
		renewals:      make(map[uint][]models.RenewalEntry),
		attendance:    make(map[uint]map[string]*models.AttendanceRecord),
		attendanceErr: make(map[uint]error),
	}
}

func (r *memoryRepository) addPlan(plan *models.MembershipPlan) *models.MembershipPlan {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.ID] = plan
	return plan
}

// seedRenewal plants a history entry directly, bypassing the renew
// commit, for ranking fixtures.
func (r *memoryRepository) seedRenewal(entry *models.RenewalEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renewals[entry.MemberID] = append(r.renewals[entry.MemberID], *entry)
}

func copyMember(m *models.Member) *models.Member {
	c := *m
	return &c
}

func (r *memoryRepository) CreateMember(member *models.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextMemberID++
	member.ID = r.nextMemberID
	r.members[member.ID] = copyMember(member)
	return nil
}

func (r *memoryRepository) SaveMember(member *models.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[member.ID] = copyMember(member)
	return nil
}

func (r *memoryRepository) GetMemberByUUID(ownerID uint, memberUUID string) (*models.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.OwnerID == ownerID && m.UUID == memberUUID {
			return copyMember(m), nil
		}
	}
	return nil, ErrMemberNotFound
}

func (r *memoryRepository) ListMembersByOwner(ownerID uint) ([]models.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Member
	for id := uint(1); id <= r.nextMemberID; id++ {
		if m, ok := r.members[id]; ok && m.OwnerID == ownerID {
			out = append(out, *copyMember(m))
		}
	}
	return out, nil
}

func (r *memoryRepository) ListSweepCandidates() ([]models.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Member
	for id := uint(1); id <= r.nextMemberID; id++ {
		if m, ok := r.members[id]; ok && m.Status == models.MEMBER_STATUS_ACTIVE && !m.IsFrozen {
			out = append(out, *copyMember(m))
		}
	}
	return out, nil
}

func (r *memoryRepository) GetPlan(ownerID, planID uint) (*models.MembershipPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[planID]
	if !ok || plan.OwnerID != ownerID {
		return nil, ErrPlanNotFound
	}
	c := *plan
	return &c, nil
}

// RenewMember mirrors the store's transactional commit: on failure
// neither the entry nor the member state is written.
func (r *memoryRepository) RenewMember(member *models.Member, entry *models.RenewalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renewErr != nil {
		return r.renewErr
	}
	r.renewals[entry.MemberID] = append(r.renewals[entry.MemberID], *entry)
	r.members[member.ID] = copyMember(member)
	return nil
}

func (r *memoryRepository) ListRenewals(memberID uint) ([]models.RenewalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.RenewalEntry(nil), r.renewals[memberID]...), nil
}

func (r *memoryRepository) UpsertAttendance(record *models.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	days, ok := r.attendance[record.MemberID]
	if !ok {
		days = make(map[string]*models.AttendanceRecord)
		r.attendance[record.MemberID] = days
	}
	key := record.Date.Format(DayKeyLayout)
	if existing, ok := days[key]; ok {
		existing.Status = record.Status
		record.ID = existing.ID
		return nil
	}
	r.nextRecordID++
	record.ID = r.nextRecordID
	c := *record
	days[key] = &c
	return nil
}

func (r *memoryRepository) GetAttendanceForDay(memberID uint, day time.Time) (*models.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.attendanceErr[memberID]; ok {
		return nil, err
	}
	rec, ok := r.attendance[memberID][day.Format(DayKeyLayout)]
	if !ok {
		return nil, nil
	}
	c := *rec
	return &c, nil
}

func (r *memoryRepository) ListAttendanceForMonth(memberID uint, year int, month time.Month) ([]models.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AttendanceRecord
	for _, rec := range r.attendance[memberID] {
		if rec.Date.Year() == year && rec.Date.Month() == month {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memoryRepository) ListAttendanceInRange(memberID uint, from, to time.Time) ([]models.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AttendanceRecord
	for _, rec := range r.attendance[memberID] {
		if !rec.Date.Before(from) && !rec.Date.After(to) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memoryRepository) ListAttendanceByDay(memberIDs []uint, day time.Time) ([]models.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := day.Format(DayKeyLayout)
	var out []models.AttendanceRecord
	for _, id := range memberIDs {
		if rec, ok := r.attendance[id][key]; ok {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memoryRepository) countAttendance(memberID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attendance[memberID])
}

// memoryMonthCache is an in-process MonthCache for tests.
type memoryMonthCache struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func newMemoryMonthCache() *memoryMonthCache {
	return &memoryMonthCache{data: make(map[string]map[string]string)}
}

func (c *memoryMonthCache) SetDayStatus(memberID uint, day time.Time, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := monthCacheKey(memberID, day.Year(), day.Month())
	if c.data[key] == nil {
		c.data[key] = make(map[string]string)
	}
	c.data[key][day.Format(DayKeyLayout)] = status
	return nil
}

func (c *memoryMonthCache) GetMonth(memberID uint, year int, month time.Month) (map[string]string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	days, ok := c.data[monthCacheKey(memberID, year, month)]
	if !ok {
		return nil, false, nil
	}
	out := make(map[string]string, len(days))
	for k, v := range days {
		out[k] = v
	}
	return out, true, nil
}

func (c *memoryMonthCache) PutMonth(memberID uint, year int, month time.Month, days map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make(map[string]string, len(days))
	for k, v := range days {
		copied[k] = v
	}
	c.data[monthCacheKey(memberID, year, month)] = copied
	return nil
}

func (c *memoryMonthCache) Invalidate(memberID uint, year int, month time.Month) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, monthCacheKey(memberID, year, month))
	return nil
}

// fixture wiring shared by the engine tests

type testEnv struct {
	svc   *Service
	repo  *memoryRepository
	cache *memoryMonthCache
	now   time.Time
}

func newTestEnv(now time.Time, cfg Config) *testEnv {
	env := &testEnv{
		repo:  newMemoryRepository(),
		cache: newMemoryMonthCache(),
		now:   now,
	}
	env.svc = NewService(env.repo, env.cache, func() time.Time { return env.now }, cfg)
	return env
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (e *testEnv) addPlan(id, ownerID uint, months int, price float64) *models.MembershipPlan {
	return e.repo.addPlan(&models.MembershipPlan{
		ID:             id,
		OwnerID:        ownerID,
		Name:           "plan",
		DurationMonths: months,
		Price:          price,
	})
}

func (e *testEnv) mustMember(ownerID, planID uint, name string, joining time.Time) *models.Member {
	member, err := e.svc.CreateMember(context.Background(), ownerID, planID, name, "555-0100", joining)
	if err != nil {
		panic(err)
	}
	return member
}
