// Package httpapi exposes the dashboard over net/http.
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-sales-dashboard/components/dashboard"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
	"github.com/goliatone/go-sales-dashboard/pkg/export"
	"github.com/goliatone/go-sales-dashboard/pkg/palette"
	"github.com/goliatone/go-sales-dashboard/pkg/session"
)

// SessionManager is the login boundary used by the session routes.
type SessionManager interface {
	Login(ctx context.Context, creds session.Credentials) (session.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (session.Session, error)
}

// ThemeReader reports the stored theme of a viewer.
type ThemeReader interface {
	ThemeMode(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ThemeMode, error)
}

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	API        Executor
	Controller *dashboard.Controller
	Snapshot   gocommand.Querier[queries.SnapshotInput, aggregate.Snapshot]
	Preview    gocommand.Querier[queries.PreviewMoveInput, []string]
	Themes     ThemeReader
	Sessions   SessionManager
	Broadcast  *dashboard.BroadcastHook
	// BasePath prefixes palette navigation targets.
	BasePath string
	Now      func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handlers) dashboardPath() string {
	base := strings.TrimRight(h.BasePath, "/")
	if base == "" {
		base = "/admin"
	}
	return base + "/dashboard"
}

// respond writes v as JSON. Browsers posting a form from the dashboard page
// are sent back to it instead.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if isFormPost(r) {
		http.Redirect(w, r, h.dashboardPath(), http.StatusSeeOther)
		return
	}
	writeJSON(w, status, v)
}

func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if h.Controller == nil {
		writeError(w, errors.New("httpapi: controller not configured"))
		return
	}
	var buf bytes.Buffer
	if err := h.Controller.RenderTemplate(r.Context(), ViewerFrom(r.Context()), &buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handlers) HandleLayout(w http.ResponseWriter, r *http.Request) {
	if h.Controller == nil {
		writeError(w, errors.New("httpapi: controller not configured"))
		return
	}
	payload, err := h.Controller.LayoutPayload(r.Context(), ViewerFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handlers) HandleAddWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.AddWidgetInput
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	var created dashboard.Widget
	payload.ActorID = ViewerFrom(r.Context()).UserID
	payload.Result = &created
	if err := h.API.Add(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, r, http.StatusCreated, created)
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	removed := false
	input := commands.RemoveWidgetInput{
		WidgetID: r.PathValue("id"),
		ActorID:  ViewerFrom(r.Context()).UserID,
		Removed:  &removed,
	}
	if err := h.API.Remove(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]any{"removed": removed})
}

func (h *Handlers) HandleReorderWidgets(w http.ResponseWriter, r *http.Request) {
	var payload commands.ReorderWidgetsInput
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	moved := false
	payload.Moved = &moved
	if err := h.API.Reorder(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"moved": moved})
}

func (h *Handlers) HandleMoveWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.MoveWidgetInput
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	moved := false
	payload.Moved = &moved
	if err := h.API.Move(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"moved": moved})
}

func (h *Handlers) HandleDragWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.DragWidgetInput
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	moved := false
	payload.Moved = &moved
	if err := h.API.Drag(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"phase": payload.Phase, "moved": moved})
}

// HandlePreviewMove returns the order a drop on ?over= would produce.
func (h *Handlers) HandlePreviewMove(w http.ResponseWriter, r *http.Request) {
	if h.Preview == nil {
		writeError(w, errCommandNotConfigured)
		return
	}
	order, err := h.Preview.Query(r.Context(), queries.PreviewMoveInput{OverID: r.URL.Query().Get("over")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshDashboardInput
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.Reason == "" {
		payload.Reason = "manual"
	}
	if err := h.API.Refresh(r.Context(), payload); err != nil {
		if isFormPost(r) {
			// the page shows the error state with a retry control
			h.respond(w, r, http.StatusSeeOther, nil)
			return
		}
		writeError(w, err)
		return
	}
	h.respond(w, r, http.StatusAccepted, map[string]string{"status": "refreshed"})
}

func (h *Handlers) HandleTheme(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetThemeInput
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	var mode dashboard.ThemeMode
	payload.Viewer = ViewerFrom(r.Context())
	payload.Result = &mode
	if err := h.API.Theme(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]any{
		"theme":        mode,
		"toggle_label": mode.ToggleLabel(),
	})
}

func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Snapshot == nil {
		writeError(w, dashboard.ErrNoSnapshot)
		return
	}
	snap, err := h.Snapshot.Query(r.Context(), queries.SnapshotInput{})
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := export.Render(&snap, format, h.now())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}

func (h *Handlers) HandlePalette(w http.ResponseWriter, r *http.Request) {
	mode := dashboard.DefaultThemeMode
	if h.Themes != nil {
		if stored, err := h.Themes.ThemeMode(r.Context(), ViewerFrom(r.Context())); err == nil {
			mode = stored
		}
	}
	opts := palette.Options{BasePath: h.BasePath, Dark: mode == dashboard.ThemeDark}
	writeJSON(w, http.StatusOK, map[string]any{
		"groups":    palette.Search(opts, r.URL.Query().Get("q")),
		"shortcuts": palette.Shortcuts(),
	})
}

func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if h.Sessions == nil {
		writeError(w, errors.New("httpapi: sessions not configured"))
		return
	}
	var creds session.Credentials
	if err := decode(r, &creds); err != nil {
		writeError(w, err)
		return
	}
	sess, err := h.Sessions.Login(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"user":       sess.User,
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt,
	})
}

func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if h.Sessions == nil {
		writeError(w, errors.New("httpapi: sessions not configured"))
		return
	}
	token := TokenFromRequest(r)
	if token != "" {
		if err := h.Sessions.Logout(r.Context(), token); err != nil && !errors.Is(err, session.ErrInvalidToken) {
			writeError(w, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.Broadcast == nil {
		http.NotFound(w, r)
		return
	}
	h.Broadcast.ServeWebSocket(w, r)
}

func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if h.Broadcast == nil {
		http.NotFound(w, r)
		return
	}
	h.Broadcast.ServeSSE(w, r)
}
