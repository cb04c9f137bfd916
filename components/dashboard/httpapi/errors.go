package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/goliatone/go-sales-dashboard/components/dashboard"
	"github.com/goliatone/go-sales-dashboard/pkg/export"
	"github.com/goliatone/go-sales-dashboard/pkg/session"
)

var errMalformedBody = errors.New("httpapi: malformed request body")

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var verr *session.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errMalformedBody),
		errors.Is(err, dashboard.ErrUnknownWidgetType),
		errors.Is(err, dashboard.ErrInvalidConfiguration),
		errors.Is(err, dashboard.ErrInvalidThemeMode),
		errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrWidgetNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrMoveInProgress),
		errors.Is(err, dashboard.ErrNoActiveMove):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, session.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, dashboard.ErrRefreshFailed):
		return http.StatusBadGateway
	case errors.Is(err, dashboard.ErrNoSnapshot),
		errors.Is(err, export.ErrNoSnapshot):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON error envelope. Fields is set for validation errors.
func ErrorBody(err error) map[string]any {
	body := map[string]any{"error": err.Error()}
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	var cfgErr *dashboard.ConfigError
	if errors.As(err, &cfgErr) && len(cfgErr.Fields) > 0 {
		body["fields"] = cfgErr.Fields
	}
	return body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), ErrorBody(err))
}

// decode reads a JSON body, or a urlencoded form posted by the dashboard
// page. Form values arrive as strings.
func decode(r *http.Request, target any) error {
	if isFormPost(r) {
		return decodeForm(r, target)
	}
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(errMalformedBody, err)
	}
	return nil
}

func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

func decodeForm(r *http.Request, target any) error {
	if err := r.ParseForm(); err != nil {
		return errors.Join(errMalformedBody, err)
	}
	values := make(map[string]string, len(r.PostForm))
	for key, v := range r.PostForm {
		if len(v) > 0 {
			values[key] = v[len(v)-1]
		}
	}
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return errors.Join(errMalformedBody, err)
	}
	return nil
}
