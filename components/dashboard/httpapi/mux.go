package httpapi

import (
	"net/http"
	"strings"
)

// MuxOptions controls route mounting.
type MuxOptions struct {
	// BasePath defaults to "/admin".
	BasePath string
	// RequireAuth guards dashboard routes with RequireSession. It needs
	// Handlers.Sessions.
	RequireAuth bool
}

// NewMux mounts every dashboard route on a ServeMux.
func NewMux(h *Handlers, opts MuxOptions) *http.ServeMux {
	base := strings.TrimRight(opts.BasePath, "/")
	if base == "" {
		base = "/admin"
	}

	guard := func(fn http.HandlerFunc) http.Handler {
		if opts.RequireAuth && h.Sessions != nil {
			return RequireSession(h.Sessions, fn)
		}
		return fn
	}

	mux := http.NewServeMux()
	route := func(method, path string, handler http.Handler) {
		mux.Handle(method+" "+base+path, handler)
	}

	route(http.MethodGet, "/dashboard", guard(h.HandleDashboard))
	route(http.MethodGet, "/dashboard/_layout", guard(h.HandleLayout))
	route(http.MethodPost, "/dashboard/widgets", guard(h.HandleAddWidget))
	route(http.MethodDelete, "/dashboard/widgets/{id}", guard(h.HandleRemoveWidget))
	route(http.MethodPost, "/dashboard/widgets/{id}/remove", guard(h.HandleRemoveWidget))
	route(http.MethodPost, "/dashboard/widgets/reorder", guard(h.HandleReorderWidgets))
	route(http.MethodPost, "/dashboard/widgets/move", guard(h.HandleMoveWidget))
	route(http.MethodPost, "/dashboard/widgets/drag", guard(h.HandleDragWidget))
	route(http.MethodGet, "/dashboard/widgets/preview", guard(h.HandlePreviewMove))
	route(http.MethodPost, "/dashboard/refresh", guard(h.HandleRefresh))
	route(http.MethodGet, "/dashboard/export/{format}", guard(h.HandleExport))
	route(http.MethodGet, "/dashboard/palette", guard(h.HandlePalette))
	route(http.MethodPost, "/dashboard/theme", guard(h.HandleTheme))
	route(http.MethodGet, "/dashboard/ws", guard(h.HandleWebSocket))
	route(http.MethodGet, "/dashboard/events", guard(h.HandleEvents))
	route(http.MethodPost, "/session/login", http.HandlerFunc(h.HandleLogin))
	route(http.MethodPost, "/session/logout", http.HandlerFunc(h.HandleLogout))

	return mux
}
