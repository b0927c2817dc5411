package ownercontext

import "github.com/gofiber/fiber/v2"

// OwnerContext represents the authenticated tenant for a request
type OwnerContext struct {
	OwnerID         uint   `json:"owner_id"`
	Name            string `json:"name"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

// GetOwnerContext retrieves the owner context from fiber context
// Returns a default unauthenticated context if none is set
func GetOwnerContext(c *fiber.Ctx) OwnerContext {
	if ctx := c.Locals("OWNER_CONTEXT"); ctx != nil {
		return ctx.(OwnerContext)
	}
	return OwnerContext{IsAuthenticated: false}
}

// IsAuthenticated checks if the current request carries a valid owner
func IsAuthenticated(c *fiber.Ctx) bool {
	return GetOwnerContext(c).IsAuthenticated
}

// GetOwnerID returns the current owner's ID, or 0 if not authenticated
func GetOwnerID(c *fiber.Ctx) uint {
	return GetOwnerContext(c).OwnerID
}

// GetOwnerName returns the current owner's name, or empty string if not authenticated
func GetOwnerName(c *fiber.Ctx) string {
	return GetOwnerContext(c).Name
}
