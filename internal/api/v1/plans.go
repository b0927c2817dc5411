package apiv1

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/FitBaseHQ/FitBase/app/models"
	"github.com/FitBaseHQ/FitBase/app/repository"
	"github.com/FitBaseHQ/FitBase/internal/pkg/ownercontext"
)

type planRequest struct {
	Name           string  `json:"name"`
	DurationMonths int     `json:"duration_months"`
	Price          float64 `json:"price"`
}

// PostPlan creates a membership plan for the authenticated owner.
func (s *APIServer) PostPlan(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)

	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	plan := &models.MembershipPlan{
		OwnerID:        ownerID,
		Name:           req.Name,
		DurationMonths: req.DurationMonths,
		Price:          req.Price,
	}
	if err := plan.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	if err := repository.GetGlobalFactory().GetPlanRepository().Create(plan); err != nil {
		return internalError(c, "Failed to create plan")
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// ListPlans returns the owner's plans ordered by duration.
func (s *APIServer) ListPlans(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)
	plans, err := repository.GetGlobalFactory().GetPlanRepository().ListByOwner(ownerID)
	if err != nil {
		return internalError(c, "Failed to list plans")
	}
	return c.JSON(fiber.Map{"plans": plans, "total": len(plans)})
}

// PutPlan updates a plan's name, duration and price. Renewal history is
// unaffected: past entries keep the snapshot taken at renewal time.
func (s *APIServer) PutPlan(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)
	planID, err := c.ParamsInt("id")
	if err != nil || planID < 1 {
		return badRequest(c, "id must be a positive integer")
	}

	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetPlanRepository()
	plan, err := repo.GetByID(ownerID, uint(planID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Plan not found"})
		}
		return internalError(c, "Failed to load plan")
	}

	plan.Name = req.Name
	plan.DurationMonths = req.DurationMonths
	plan.Price = req.Price
	if err := plan.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repo.Update(plan); err != nil {
		return internalError(c, "Failed to update plan")
	}
	return c.JSON(plan)
}

// DeletePlan removes a plan. Members currently on the plan keep their
// billing anchor; only future renewals need a different plan.
func (s *APIServer) DeletePlan(c *fiber.Ctx) error {
	ownerID := ownercontext.GetOwnerID(c)
	planID, err := c.ParamsInt("id")
	if err != nil || planID < 1 {
		return badRequest(c, "id must be a positive integer")
	}

	if err := repository.GetGlobalFactory().GetPlanRepository().Delete(ownerID, uint(planID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Plan not found"})
		}
		return internalError(c, "Failed to delete plan")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
