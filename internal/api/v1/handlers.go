package apiv1

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/FitBaseHQ/FitBase/app/repository"
	"github.com/FitBaseHQ/FitBase/internal/pkg/membership"
	"github.com/FitBaseHQ/FitBase/internal/pkg/ownercontext"
)

const dateLayout = "2006-01-02"

// APIServer exposes the membership lifecycle engine over JSON.
// All routes below /members and /attendance assume the API key
// middleware already resolved the owner into the request context.
type APIServer struct {
	engine *membership.Service
}

// NewAPIServer creates a new API server instance
func NewAPIServer(engine *membership.Service) *APIServer {
	return &APIServer{engine: engine}
}

// RegisterHandlers wires all v1 routes onto the given router group.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)

	plans := router.Group("/plans")
	plans.Post("/", s.PostPlan)
	plans.Get("/", s.ListPlans)
	plans.Put("/:id", s.PutPlan)
	plans.Delete("/:id", s.DeletePlan)

	members := router.Group("/members")
	members.Post("/", s.PostMember)
	members.Get("/", s.ListMembers)
	members.Get("/:uuid", s.GetMember)
	members.Patch("/:uuid/joining-date", s.PatchJoiningDate)
	members.Patch("/:uuid/status", s.PatchMemberStatus)
	members.Post("/:uuid/renew", s.PostRenew)
	members.Get("/:uuid/renewals", s.GetRenewalHistory)
	members.Post("/:uuid/freeze", s.PostFreeze)
	members.Post("/:uuid/unfreeze", s.PostUnfreeze)
	members.Post("/:uuid/attendance", s.PostAttendance)
	members.Get("/:uuid/attendance/current", s.GetCurrentMonthAttendance)
	members.Get("/:uuid/attendance/:year/:month", s.GetMonthlyAttendance)

	attendance := router.Group("/attendance")
	attendance.Post("/bulk", s.PostBulkAttendance)
	attendance.Get("/today", s.GetTodaysAttendance)

	router.Get("/analytics/top-attendee", s.GetTopAttendee)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ping": "pong"})
}

type createMemberRequest struct {
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	PlanID      uint   `json:"plan_id"`
	JoiningDate string `json:"joining_date"`
}

// PostMember enrolls a new member under the authenticated owner.
func (s *APIServer) PostMember(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)

	var req createMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" || req.PlanID == 0 {
		return badRequest(c, "name and plan_id are required")
	}

	joining := time.Now()
	if req.JoiningDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, req.JoiningDate, time.Local)
		if err != nil {
			return badRequest(c, "joining_date must be YYYY-MM-DD")
		}
		joining = parsed
	}

	member, err := s.engine.CreateMember(c.Context(), ownerID, req.PlanID, req.Name, req.Contact, joining)
	if err != nil {
		return engineError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

// ListMembers returns a paginated member list, optionally filtered by a
// name/contact search query.
func (s *APIServer) ListMembers(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)
	repo := repository.GetGlobalFactory().GetMemberRepository()

	if query := c.Query("q"); query != "" {
		members, err := repo.Search(ownerID, query)
		if err != nil {
			return internalError(c, "Failed to search members")
		}
		return c.JSON(fiber.Map{"members": members, "total": len(members)})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 25)
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	members, err := repo.List(ownerID, (page-1)*perPage, perPage)
	if err != nil {
		return internalError(c, "Failed to list members")
	}
	total, err := repo.Count(ownerID)
	if err != nil {
		return internalError(c, "Failed to count members")
	}
	return c.JSON(fiber.Map{
		"members":  members,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// GetMember returns a single member by UUID.
func (s *APIServer) GetMember(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)
	member, err := repository.GetGlobalFactory().GetMemberRepository().GetByUUID(ownerID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Member not found"})
		}
		return internalError(c, "Failed to load member")
	}
	return c.JSON(member)
}

// PatchJoiningDate corrects a member's joining date and recomputes the
// billing anchor from it.
func (s *APIServer) PatchJoiningDate(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)

	var req struct {
		JoiningDate string `json:"joining_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	joining, err := time.ParseInLocation(dateLayout, req.JoiningDate, time.Local)
	if err != nil {
		return badRequest(c, "joining_date must be YYYY-MM-DD")
	}

	member, err := s.engine.UpdateJoiningDate(c.Context(), ownerID, c.Params("uuid"), joining)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(member)
}

// PatchMemberStatus toggles a member between active and inactive.
func (s *APIServer) PatchMemberStatus(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	member, err := s.engine.SetMemberStatus(c.Context(), ownerID, c.Params("uuid"), req.Status)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(member)
}

type renewRequest struct {
	PlanID uint   `json:"plan_id"`
	PaidAt string `json:"paid_at"`
}

// PostRenew records a renewal payment for a member. The plan may differ
// from the member's current one; omitting paid_at uses the current time.
func (s *APIServer) PostRenew(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)

	var req renewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.PlanID == 0 {
		return badRequest(c, "plan_id is required")
	}

	paidAt := time.Now()
	if req.PaidAt != "" {
		parsed, err := time.ParseInLocation(dateLayout, req.PaidAt, time.Local)
		if err != nil {
			return badRequest(c, "paid_at must be YYYY-MM-DD")
		}
		paidAt = parsed
	}

	result, err := s.engine.Renew(c.Context(), ownerID, c.Params("uuid"), req.PlanID, paidAt)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(result)
}

// GetRenewalHistory returns the member's renewal entries with their
// plan snapshots, oldest first.
func (s *APIServer) GetRenewalHistory(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)
	entries, err := s.engine.RenewalHistory(c.Context(), ownerID, c.Params("uuid"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"renewals": entries, "total": len(entries)})
}

// PostFreeze pauses a member's billing clock.
func (s *APIServer) PostFreeze(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return badRequest(c, "Invalid request body")
	}

	member, err := s.engine.Freeze(c.Context(), ownerID, c.Params("uuid"), req.Reason)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(member)
}

// PostUnfreeze resumes a frozen membership and reports the days that
// were added back onto the bill date.
func (s *APIServer) PostUnfreeze(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)
	result, err := s.engine.Unfreeze(c.Context(), ownerID, c.Params("uuid"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(result)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": message})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": message})
}

// engineError maps the lifecycle engine's error taxonomy onto HTTP
// status codes.
func engineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, membership.ErrMemberNotFound),
		errors.Is(err, membership.ErrPlanNotFound),
		errors.Is(err, membership.ErrOwnerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": err.Error()})
	case errors.Is(err, membership.ErrAlreadyFrozen),
		errors.Is(err, membership.ErrNotFrozen):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": err.Error()})
	case errors.Is(err, membership.ErrInvalidStatus),
		errors.Is(err, membership.ErrInvalidDate):
		return badRequest(c, err.Error())
	default:
		return internalError(c, "Unexpected error")
	}
}
