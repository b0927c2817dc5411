package membership

import (
	"context"
	"sync"
	"time"

	"github.com/FitBaseHQ/FitBase/app/models"
	"github.com/FitBaseHQ/FitBase/internal/pkg/calendar"
	"github.com/gofiber/fiber/v2/log"
)

const sweepWorkers = 8

// SweepResult aggregates one daily sweep run.
type SweepResult struct {
	Candidates    int `json:"candidates"`
	MarkedAbsent  int `json:"marked_absent"`
	AlreadyMarked int `json:"already_marked"`
	Failed        int `json:"failed"`
}

// SweepDay finalizes the day's attendance: every active, unfrozen member
// with no record for the day (or an unmarked one) is marked absent
// through the same day-keyed upsert as a manual mark, so reruns are
// idempotent. Per-member failures are logged and counted; they never
// abort the sweep. Only an unreachable member listing fails the run.
func (s *Service) SweepDay(ctx context.Context, day time.Time) (*SweepResult, error) {
	members, err := s.repo.ListSweepCandidates()
	if err != nil {
		return nil, err
	}

	target := calendar.StartOfDay(day)
	result := &SweepResult{Candidates: len(members)}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, sweepWorkers)
	)

	for i := range members {
		member := members[i]

		select {
		case <-ctx.Done():
			log.Errorf("[Sweep] aborted after %d members: %v", i, ctx.Err())
			return result, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			marked, err := s.sweepMember(&member, target)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed++
				log.Errorf("[Sweep] member %d (%s): %v", member.ID, member.UUID, err)
			case marked:
				result.MarkedAbsent++
			default:
				result.AlreadyMarked++
			}
		}()
	}
	wg.Wait()

	log.Infof("[Sweep] day %s: %d candidates, %d marked absent, %d already marked, %d failed",
		target.Format(DayKeyLayout), result.Candidates, result.MarkedAbsent, result.AlreadyMarked, result.Failed)
	return result, nil
}

// sweepMember marks one member absent for the day unless a present or
// absent record already exists. Runs under the member's lock, the same
// discipline as a manual mark.
func (s *Service) sweepMember(member *models.Member, day time.Time) (bool, error) {
	unlock := s.locks.Lock(member.ID)
	defer unlock()

	existing, err := s.repo.GetAttendanceForDay(member.ID, day)
	if err != nil {
		return false, err
	}
	if existing != nil && existing.Status != models.AttendanceStatusUnmarked {
		return false, nil
	}

	record := &models.AttendanceRecord{
		MemberID: member.ID,
		Date:     day,
		Status:   models.AttendanceStatusAbsent,
	}
	if err := s.repo.UpsertAttendance(record); err != nil {
		return false, err
	}

	s.mirrorToMonthCache(member.ID, day, models.AttendanceStatusAbsent)
	return true, nil
}
