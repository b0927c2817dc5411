package ownercontext

// Shared Locals keys used across handlers and middlewares
const (
	KeyOwnerID   = "owner_id"
	KeyOwnerName = "owner_name"
)
