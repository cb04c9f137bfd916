package main

import (
	"net/http"

	"github.com/goliatone/go-sales-dashboard/components/dashboard/httpapi"
)

func newTestMux(app *application) http.Handler {
	return httpapi.NewMux(app.handlers(), httpapi.MuxOptions{BasePath: app.cfg.Server.BasePath})
}
