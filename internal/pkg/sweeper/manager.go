package sweeper

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/FitBaseHQ/FitBase/internal/pkg/env"
	"github.com/FitBaseHQ/FitBase/internal/pkg/membership"
	"github.com/gofiber/fiber/v2/log"
)

// Manager schedules the daily absence sweep. It owns a single timer that
// fires once per calendar day at the configured local wall-clock hour;
// the engine's SweepDay does the actual work.
type Manager struct {
	service  *membership.Service
	hour     int
	location *time.Location

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	// now is injectable for tests.
	now func() time.Time
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global sweep manager (singleton), configured
// from the environment.
func GetManager(service *membership.Service) *Manager {
	managerOnce.Do(func() {
		globalManager = NewManager(service, sweepHourFromEnv(), locationFromEnv())
	})
	return globalManager
}

// Running reports whether the global manager exists and its loop is
// active. Safe to call before GetManager.
func Running() bool {
	if globalManager == nil {
		return false
	}
	return globalManager.IsRunning()
}

// StopGlobal stops the global manager if it was ever started.
func StopGlobal() {
	if globalManager != nil {
		globalManager.Stop()
	}
}

// NewManager creates a sweep manager for the given trigger hour and
// business timezone.
func NewManager(service *membership.Service, hour int, location *time.Location) *Manager {
	return &Manager{
		service:  service,
		hour:     hour,
		location: location,
		stopCh:   make(chan struct{}),
		now:      time.Now,
	}
}

func sweepHourFromEnv() int {
	raw := env.GetEnv("SWEEP_HOUR", "23")
	hour, err := strconv.Atoi(raw)
	if err != nil || hour < 0 || hour > 23 {
		log.Errorf("[Sweeper] invalid SWEEP_HOUR %q, falling back to 23", raw)
		return 23
	}
	return hour
}

func locationFromEnv() *time.Location {
	name := env.GetEnv("APP_TIMEZONE", "Local")
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Errorf("[Sweeper] unknown APP_TIMEZONE %q, falling back to local time: %v", name, err)
		return time.Local
	}
	return loc
}

// Start launches the scheduling loop. Safe to call more than once.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so the manager can be
	// restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Infof("[Sweeper] Starting daily absence sweep (trigger %02d:00 %s)", m.hour, m.location)

	m.wg.Add(1)
	go m.loop()
}

// Stop halts the scheduling loop and waits for an in-flight sweep.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[Sweeper] Stopping...")
	close(m.stopCh)
	m.running = false
	m.wg.Wait()
	log.Info("[Sweeper] Stopped")
}

// IsRunning reports whether the scheduling loop is active.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Manager) loop() {
	defer m.wg.Done()

	for {
		wait := m.untilNextTrigger()
		timer := time.NewTimer(wait)
		log.Infof("[Sweeper] Next sweep in %s", wait.Round(time.Second))

		select {
		case <-m.stopCh:
			timer.Stop()
			return
		case firedAt := <-timer.C:
			day := firedAt.In(m.location)
			if _, err := m.service.SweepDay(context.Background(), day); err != nil {
				log.Errorf("[Sweeper] sweep for %s failed: %v", day.Format("2006-01-02"), err)
			}
		}
	}
}

// untilNextTrigger computes the wait until the next occurrence of the
// trigger hour in the business timezone.
func (m *Manager) untilNextTrigger() time.Duration {
	now := m.now().In(m.location)
	next := time.Date(now.Year(), now.Month(), now.Day(), m.hour, 0, 0, 0, m.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
