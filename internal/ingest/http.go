// Copyright (c) 2026 Triply. All rights reserved.

package ingest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/triply-app/triply/internal/platform/middleware"
	requestutil "github.com/triply-app/triply/internal/platform/request"
	"github.com/triply-app/triply/internal/platform/respond"
	"github.com/triply-app/triply/internal/platform/sec"
	"github.com/triply-app/triply/internal/platform/validate"
)

// Handler exposes the catalogue import trigger.
type Handler struct {
	importer *Importer
}

// NewHandler constructs a new [Handler].
func NewHandler(importer *Importer) *Handler {
	return &Handler{importer: importer}
}

// Routes returns a [chi.Router] with the import endpoint.
//
// # Endpoints
//   - POST /run : Executes a synchronous catalogue import. Admin only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth())
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Post("/run", handler.run)

	return router
}

// runRequest parameterises an import run.
type runRequest struct {
	AreaCode       int  `json:"area_code"`
	ContentTypeID  int  `json:"content_type_id"`
	FetchOverviews bool `json:"fetch_overviews"`
}

// run handles POST /api/v1/ingest/run requests.
//
// The import runs synchronously inside the request; runs over Jeju-sized
// areas complete in seconds, and admins want the report in the response.
func (handler *Handler) run(writer http.ResponseWriter, request *http.Request) {
	var input runRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.AreaCode <= 0 {
		respond.Error(writer, request, validate.RequiredError("area_code", "must be a positive area code"))
		return
	}

	report, err := handler.importer.Run(request.Context(), RunOptions{
		AreaCode:       input.AreaCode,
		ContentTypeID:  input.ContentTypeID,
		FetchOverviews: input.FetchOverviews,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, report)
}
