package dashboard

import "errors"

var (
	// ErrUnknownWidgetType is returned when adding a type outside the catalog.
	ErrUnknownWidgetType = errors.New("dashboard: unknown widget type")
	// ErrDuplicateWidgetID signals the id generator produced a live id twice.
	ErrDuplicateWidgetID = errors.New("dashboard: duplicate widget id")
	// ErrMoveInProgress rejects a second BeginMove while one is active.
	ErrMoveInProgress = errors.New("dashboard: a move is already in progress")
	// ErrNoActiveMove is returned when dropping without a prior BeginMove.
	ErrNoActiveMove = errors.New("dashboard: no active move")
	// ErrRefreshFailed wraps data provider failures surfaced by Refresh.
	ErrRefreshFailed = errors.New("dashboard: refresh failed")
	// ErrInvalidConfiguration marks widget configuration rejected by its schema.
	ErrInvalidConfiguration = errors.New("dashboard: invalid widget configuration")
	// ErrWidgetNotFound is returned by operations addressing an absent widget.
	ErrWidgetNotFound = errors.New("dashboard: widget not found")
	// ErrInvalidThemeMode is returned for modes other than dark or light.
	ErrInvalidThemeMode = errors.New("dashboard: unknown theme mode")

	// ErrNoSnapshot is returned when no refresh has succeeded yet.
	ErrNoSnapshot = errors.New("dashboard: no snapshot loaded")

	errMissingDataProvider = errors.New("dashboard: data provider not configured")
)
