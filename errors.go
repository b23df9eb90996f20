package orin

import "errors"

var (
	ErrToolNameConflict = errors.New("tool name conflict")
	ErrNoActivePlan     = errors.New("no active plan")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrPlanTerminal     = errors.New("plan is already in a terminal state")
	ErrInvalidParams    = errors.New("invalid tool parameters")
)
