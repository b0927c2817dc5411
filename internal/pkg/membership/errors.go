package membership

import "errors"

// Error taxonomy surfaced by the lifecycle engine. Callers are expected
// to branch with errors.Is; the API layer maps these onto status codes.
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrPlanNotFound   = errors.New("plan not found")
	ErrOwnerNotFound  = errors.New("owner not found")

	ErrAlreadyFrozen = errors.New("membership is already frozen")
	ErrNotFrozen     = errors.New("membership is not frozen")

	ErrInvalidStatus = errors.New("invalid attendance status")
	ErrInvalidDate   = errors.New("invalid date")
)
