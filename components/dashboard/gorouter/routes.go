package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-sales-dashboard/components/dashboard"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
	"github.com/goliatone/go-sales-dashboard/pkg/export"
	"github.com/goliatone/go-sales-dashboard/pkg/palette"
	"github.com/goliatone/go-sales-dashboard/pkg/session"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the dashboard controller, commands and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Snapshot       gocommand.Querier[queries.SnapshotInput, aggregate.Snapshot]
	Preview        gocommand.Querier[queries.PreviewMoveInput, []string]
	Themes         httpapi.ThemeReader
	Sessions       httpapi.SessionManager
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	// RequireAuth guards dashboard routes with a session check.
	RequireAuth bool
	Routes      RouteConfig
	Now         func() time.Time
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML         string
	Layout       string
	Widgets      string
	WidgetID     string
	// WidgetRemove is the form-friendly POST variant of the DELETE route.
	WidgetRemove string
	Reorder      string
	Move         string
	Drag         string
	Preview      string
	Refresh      string
	Export       string
	Palette      string
	Theme        string
	Login        string
	Logout       string
	WebSocket    string
	Events       string
}

// Register mounts dashboard routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	resolver := cfg.ViewerResolver
	if resolver == nil {
		resolver = defaultViewerResolver
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	guard := func(h router.HandlerFunc) router.HandlerFunc { return h }
	if cfg.RequireAuth && cfg.Sessions != nil {
		guard = func(h router.HandlerFunc) router.HandlerFunc {
			return requireSession(cfg.Sessions, h)
		}
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, guard(router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), resolver(ctx), &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	})))

	group.Get(routes.Layout, guard(router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.LayoutPayload(ctx.Context(), resolver(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	})))

	group.Get(routes.Palette, guard(router.WrapHandler(func(ctx router.Context) error {
		mode := dashboard.DefaultThemeMode
		if cfg.Themes != nil {
			if stored, err := cfg.Themes.ThemeMode(ctx.Context(), resolver(ctx)); err == nil {
				mode = stored
			}
		}
		opts := palette.Options{BasePath: base, Dark: mode == dashboard.ThemeDark}
		return ctx.JSON(http.StatusOK, map[string]any{
			"groups":    palette.Search(opts, ctx.Query("q")),
			"shortcuts": palette.Shortcuts(),
		})
	})))

	if cfg.Preview != nil {
		group.Get(routes.Preview, guard(router.WrapHandler(func(ctx router.Context) error {
			order, err := cfg.Preview.Query(ctx.Context(), queries.PreviewMoveInput{OverID: ctx.Query("over")})
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, map[string]any{"order": order})
		})))
	}

	if cfg.Snapshot != nil {
		group.Get(routes.Export, guard(router.WrapHandler(func(ctx router.Context) error {
			format, err := export.ParseFormat(ctx.Param("format"))
			if err != nil {
				return respondError(ctx, err)
			}
			snap, err := cfg.Snapshot.Query(ctx.Context(), queries.SnapshotInput{})
			if err != nil {
				return respondError(ctx, err)
			}
			doc, err := export.Render(&snap, format, now())
			if err != nil {
				return respondError(ctx, err)
			}
			ctx.SetHeader("Content-Type", doc.ContentType)
			ctx.SetHeader("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
			ctx.SetHeader("Content-Length", strconv.Itoa(len(doc.Body)))
			return ctx.Send(doc.Body)
		})))
	}

	home := strings.TrimRight(base, "/") + routes.HTML
	if cfg.API != nil {
		registerAPI(group, cfg.API, resolver, routes, guard, home)
	}

	if cfg.Sessions != nil {
		registerSession(group, cfg.Sessions, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
		group.Get(routes.Events, guard(router.WrapHandler(func(ctx router.Context) error {
			return streamEvents(ctx, cfg.Broadcast)
		})))
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig, guard func(router.HandlerFunc) router.HandlerFunc, home string) {
	respond := func(ctx router.Context, status int, v any) error {
		if isFormPost(ctx) {
			return ctx.Redirect(home, http.StatusSeeOther)
		}
		return ctx.JSON(status, v)
	}

	remove := guard(router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, dashboard.ErrWidgetNotFound)
		}
		removed := false
		input := commands.RemoveWidgetInput{WidgetID: id, ActorID: resolver(ctx).UserID, Removed: &removed}
		if err := api.Remove(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return respond(ctx, http.StatusOK, map[string]any{"removed": removed})
	}))
	r.Delete(routes.WidgetID, remove)
	r.Post(routes.WidgetRemove, remove)

	r.Post(routes.Widgets, guard(router.WrapHandler(func(ctx router.Context) error {
		var payload commands.AddWidgetInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		var created dashboard.Widget
		payload.ActorID = resolver(ctx).UserID
		payload.Result = &created
		if err := api.Add(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return respond(ctx, http.StatusCreated, created)
	})))

	r.Post(routes.Reorder, guard(router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ReorderWidgetsInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		moved := false
		payload.Moved = &moved
		if err := api.Reorder(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"moved": moved})
	})))

	r.Post(routes.Move, guard(router.WrapHandler(func(ctx router.Context) error {
		var payload commands.MoveWidgetInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		moved := false
		payload.Moved = &moved
		if err := api.Move(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"moved": moved})
	})))

	r.Post(routes.Drag, guard(router.WrapHandler(func(ctx router.Context) error {
		var payload commands.DragWidgetInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		moved := false
		payload.Moved = &moved
		if err := api.Drag(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"phase": payload.Phase, "moved": moved})
	})))

	r.Post(routes.Refresh, guard(router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshDashboardInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		if payload.Reason == "" {
			payload.Reason = "manual"
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			if isFormPost(ctx) {
				// the page shows the error state with a retry control
				return ctx.Redirect(home, http.StatusSeeOther)
			}
			return respondError(ctx, err)
		}
		return respond(ctx, http.StatusAccepted, map[string]string{"status": "refreshed"})
	})))

	r.Post(routes.Theme, guard(router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetThemeInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		var mode dashboard.ThemeMode
		payload.Viewer = resolver(ctx)
		payload.Result = &mode
		if err := api.Theme(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return respond(ctx, http.StatusOK, map[string]any{"theme": mode, "toggle_label": mode.ToggleLabel()})
	})))
}

func registerSession[T any](r router.Router[T], sessions httpapi.SessionManager, routes RouteConfig) {
	r.Post(routes.Login, router.WrapHandler(func(ctx router.Context) error {
		var creds session.Credentials
		if err := decodeBody(ctx, &creds); err != nil {
			return respondError(ctx, err)
		}
		sess, err := sessions.Login(ctx.Context(), creds)
		if err != nil {
			return respondError(ctx, err)
		}
		ctx.Cookie(&router.Cookie{
			Name:     httpapi.SessionCookie,
			Value:    sess.Token,
			Path:     "/",
			Expires:  sess.ExpiresAt,
			HTTPOnly: true,
			SameSite: router.CookieSameSiteLaxMode,
		})
		return ctx.JSON(http.StatusOK, map[string]any{
			"user":       sess.User,
			"token":      sess.Token,
			"expires_at": sess.ExpiresAt,
		})
	}))

	r.Post(routes.Logout, router.WrapHandler(func(ctx router.Context) error {
		if token := tokenFrom(ctx); token != "" {
			if err := sessions.Logout(ctx.Context(), token); err != nil && !errors.Is(err, session.ErrInvalidToken) {
				return respondError(ctx, err)
			}
		}
		ctx.Cookie(&router.Cookie{Name: httpapi.SessionCookie, Path: "/", MaxAge: -1})
		return ctx.NoContent(http.StatusNoContent)
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// streamEvents relays broadcast events as server-sent events. The stream
// ends when the client goes away and the next write fails.
func streamEvents(ctx router.Context, hook *dashboard.BroadcastHook) error {
	ctx.SetHeader("Content-Type", "text/event-stream")
	ctx.SetHeader("Cache-Control", "no-cache")
	ctx.SetHeader("Connection", "keep-alive")
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(hook.StreamSSE(ctx.Context(), pw, nil))
	}()
	return ctx.SendStream(pr)
}

func requireSession(sessions httpapi.SessionManager, next router.HandlerFunc) router.HandlerFunc {
	return func(ctx router.Context) error {
		sess, err := sessions.Authenticate(ctx.Context(), tokenFrom(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		ctx.Locals("user_id", sess.User.Email)
		ctx.Locals("roles", []string{strings.ToLower(sess.User.Role)})
		return next(ctx)
	}
}

func tokenFrom(ctx router.Context) string {
	if token, ok := strings.CutPrefix(ctx.Header("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	cookies, err := http.ParseCookie(ctx.Header("Cookie"))
	if err != nil {
		return ""
	}
	for _, c := range cookies {
		if c.Name == httpapi.SessionCookie {
			return c.Value
		}
	}
	return ""
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	var viewer dashboard.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	return parseAcceptLanguage(ctx.Header("Accept-Language"))
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token, _, _ = strings.Cut(strings.TrimSpace(token), ";")
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func isFormPost(ctx router.Context) bool {
	mediaType, _, err := mime.ParseMediaType(ctx.Header("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

// decodeBody reads a JSON body, or a urlencoded form posted by the
// dashboard page.
func decodeBody(ctx router.Context, target any) error {
	body := ctx.Body()
	if isFormPost(ctx) {
		return decodeForm(body, target)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return nil
}

func decodeForm(body []byte, target any) error {
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	values := make(map[string]string, len(form))
	for key := range form {
		values[key] = form.Get(key)
	}
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return nil
}

var errMalformedBody = errors.New("gorouter: malformed request body")

func respondError(ctx router.Context, err error) error {
	status := httpapi.StatusFor(err)
	if errors.Is(err, errMalformedBody) {
		status = http.StatusBadRequest
	}
	return ctx.JSON(status, httpapi.ErrorBody(err))
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Layout == "" {
		routes.Layout = "/dashboard/_layout"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/dashboard/widgets"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/dashboard/widgets/:id"
	}
	if routes.WidgetRemove == "" {
		routes.WidgetRemove = "/dashboard/widgets/:id/remove"
	}
	if routes.Reorder == "" {
		routes.Reorder = "/dashboard/widgets/reorder"
	}
	if routes.Move == "" {
		routes.Move = "/dashboard/widgets/move"
	}
	if routes.Drag == "" {
		routes.Drag = "/dashboard/widgets/drag"
	}
	if routes.Preview == "" {
		routes.Preview = "/dashboard/widgets/preview"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/dashboard/refresh"
	}
	if routes.Export == "" {
		routes.Export = "/dashboard/export/:format"
	}
	if routes.Palette == "" {
		routes.Palette = "/dashboard/palette"
	}
	if routes.Theme == "" {
		routes.Theme = "/dashboard/theme"
	}
	if routes.Login == "" {
		routes.Login = "/session/login"
	}
	if routes.Logout == "" {
		routes.Logout = "/session/logout"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	if routes.Events == "" {
		routes.Events = "/dashboard/events"
	}
	return routes
}
