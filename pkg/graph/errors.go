package graph

import "errors"

var (
	// ErrDuplicateNode is returned when adding an id that already exists.
	ErrDuplicateNode = errors.New("graph: intersection already exists")
	// ErrNodeNotFound is returned when an operation names an unknown id.
	ErrNodeNotFound = errors.New("graph: intersection not found")
	// ErrRouteNotFound is returned by FindEdge when no direct route exists.
	ErrRouteNotFound = errors.New("graph: route not found")
	// ErrInvalidInput covers negative weights and out-of-range arguments.
	ErrInvalidInput = errors.New("graph: invalid input")
)
