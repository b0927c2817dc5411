package apiv1

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/FitBaseHQ/FitBase/internal/pkg/cache"
	"github.com/FitBaseHQ/FitBase/internal/pkg/membership"
	"github.com/FitBaseHQ/FitBase/internal/pkg/ownercontext"
)

const (
	topAttendeeCacheTTL = 5 * time.Minute
	todayViewCacheTTL   = 30 * time.Second
)

func todayViewCacheKey(ownerID uint) string {
	return fmt.Sprintf("attendance:today:%d", ownerID)
}

type markAttendanceRequest struct {
	Status string `json:"status"`
	Date   string `json:"date"`
}

// PostAttendance marks a member present or absent for a day. The mark
// is an upsert: repeating it for the same day overwrites, it never
// duplicates. Omitting date marks today.
func (s *APIServer) PostAttendance(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)

	var req markAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	var day *time.Time
	if req.Date != "" {
		parsed, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
		if err != nil {
			return badRequest(c, "date must be YYYY-MM-DD")
		}
		day = &parsed
	}

	record, err := s.engine.MarkAttendance(c.Context(), ownerID, c.Params("uuid"), day, req.Status)
	if err != nil {
		return engineError(c, err)
	}
	if err := cache.Delete(todayViewCacheKey(ownerID)); err != nil {
		log.Warnf("[API] failed to invalidate today view for owner %d: %v", ownerID, err)
	}
	return c.JSON(record)
}

type bulkAttendanceRequest struct {
	Date    string                            `json:"date"`
	Updates []membership.BulkAttendanceUpdate `json:"updates"`
}

// PostBulkAttendance applies attendance marks for a batch of members in
// one call. Individual failures are reported per member and never abort
// the batch.
func (s *APIServer) PostBulkAttendance(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)

	var req bulkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.Updates) == 0 {
		return badRequest(c, "updates must not be empty")
	}

	var day *time.Time
	if req.Date != "" {
		parsed, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
		if err != nil {
			return badRequest(c, "date must be YYYY-MM-DD")
		}
		day = &parsed
	}

	result := s.engine.BulkMarkAttendance(c.Context(), ownerID, day, req.Updates)
	if result.Updated > 0 {
		if err := cache.Delete(todayViewCacheKey(ownerID)); err != nil {
			log.Warnf("[API] failed to invalidate today view for owner %d: %v", ownerID, err)
		}
	}
	status := fiber.StatusOK
	if result.Failed > 0 && result.Updated == 0 {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(result)
}

// GetMonthlyAttendance returns one member's ledger for a month plus
// present/absent counts and the attendance rate.
func (s *APIServer) GetMonthlyAttendance(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)

	year, err := c.ParamsInt("year")
	if err != nil || year < 2000 || year > 2200 {
		return badRequest(c, "year must be a four-digit year")
	}
	monthNum, err := c.ParamsInt("month")
	if err != nil || monthNum < 1 || monthNum > 12 {
		return badRequest(c, "month must be 1-12")
	}

	summary, err := s.engine.MonthlyAttendance(c.Context(), ownerID, c.Params("uuid"), time.Month(monthNum), year)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(summary)
}

// GetCurrentMonthAttendance returns the member's day-keyed status map
// for the running month, served from the month cache when warm.
func (s *APIServer) GetCurrentMonthAttendance(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)
	days, err := s.engine.CurrentMonthAttendance(c.Context(), ownerID, c.Params("uuid"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"days": days})
}

// GetTodaysAttendance lists every member with their status for today.
// Members without a mark report "hasnt checked in". The view is cached
// briefly; marking attendance invalidates it.
func (s *APIServer) GetTodaysAttendance(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)
	cacheKey := todayViewCacheKey(ownerID)

	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		var summary membership.TodaySummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return c.JSON(summary)
		}
	}

	summary, err := s.engine.TodaysAttendance(c.Context(), ownerID)
	if err != nil {
		return internalError(c, "Failed to load today's attendance")
	}

	if payload, err := json.Marshal(summary); err == nil {
		if err := cache.Set(cacheKey, payload, todayViewCacheTTL); err != nil {
			log.Warnf("[API] failed to cache today view for owner %d: %v", ownerID, err)
		}
	}
	return c.JSON(summary)
}

// GetTopAttendee returns the best attendee of the trailing three months.
// The ranking walks every member's ledger, so the result is cached for a
// few minutes per tenant.
func (s *APIServer) GetTopAttendee(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)
	cacheKey := fmt.Sprintf("ranking:top:%d", ownerID)

	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		var ranking membership.AttendeeRanking
		if err := json.Unmarshal([]byte(cached), &ranking); err == nil {
			return c.JSON(fiber.Map{"top_attendee": ranking, "cached": true})
		}
	}

	top, err := s.engine.TopAttendee(c.Context(), ownerID, time.Now())
	if err != nil {
		return internalError(c, "Failed to rank attendees")
	}
	if top == nil {
		return c.JSON(fiber.Map{"top_attendee": nil})
	}

	if payload, err := json.Marshal(top); err == nil {
		if err := cache.Set(cacheKey, payload, topAttendeeCacheTTL); err != nil {
			log.Warnf("[API] failed to cache top attendee for owner %d: %v", ownerID, err)
		}
	}
	return c.JSON(fiber.Map{"top_attendee": top})
}
