// Copyright (c) 2026 Triply. All rights reserved.

package schedule

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/triply-app/triply/internal/platform/middleware"
	requestutil "github.com/triply-app/triply/internal/platform/request"
	"github.com/triply-app/triply/internal/platform/respond"
	"github.com/triply-app/triply/internal/platform/validate"
	"github.com/triply-app/triply/pkg/pagination"
)

// dateLayout is the wire format for trip dates. Times of day are meaningless
// for whole-day trip planning.
const dateLayout = "2006-01-02"

// Handler implements the trip schedule HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the schedule endpoints.
//
// # Endpoints
//   - GET    /{id}  : Schedule detail with stops. Public.
//   - POST   /      : Create a schedule. Authenticated.
//   - GET    /mine  : The caller's schedules. Authenticated.
//   - PUT    /{id}  : Wholesale replacement. Owner only.
//   - DELETE /{id}  : Removal. Owner only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}", handler.get)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth())
		protected.Post("/", handler.create)
		protected.Get("/mine", handler.listMine)
		protected.Put("/{id}", handler.update)
		protected.Delete("/{id}", handler.remove)
	})

	return router
}

// detailRequest is one stop in a schedule payload.
type detailRequest struct {
	Day       int    `json:"day"`
	Sequence  int    `json:"sequence"`
	ContentID int64  `json:"content_id"`
	Memo      string `json:"memo"`
}

// scheduleRequest is the create/update payload.
type scheduleRequest struct {
	Title     string          `json:"title"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Details   []detailRequest `json:"details"`
}

// toInput parses the wire payload into a service input.
func (payload scheduleRequest) toInput() (Input, error) {
	startDate, err := time.Parse(dateLayout, payload.StartDate)
	if err != nil {
		return Input{}, validate.RequiredError("start_date", "must be a YYYY-MM-DD date")
	}

	endDate, err := time.Parse(dateLayout, payload.EndDate)
	if err != nil {
		return Input{}, validate.RequiredError("end_date", "must be a YYYY-MM-DD date")
	}

	input := Input{
		Title:     payload.Title,
		StartDate: startDate,
		EndDate:   endDate,
	}
	for _, detail := range payload.Details {
		input.Details = append(input.Details, DetailInput{
			Day:       detail.Day,
			Sequence:  detail.Sequence,
			ContentID: detail.ContentID,
			Memo:      detail.Memo,
		})
	}

	return input, nil
}

// create handles POST /api/v1/schedules requests.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload scheduleRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := payload.toInput()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	schedule, err := handler.service.Create(request.Context(), ownerID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, schedule)
}

// get handles GET /api/v1/schedules/{id} requests.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	viewer := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewer = claims.UserID
	}

	schedule, err := handler.service.Get(request.Context(), id, viewer)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, schedule)
}

// listMine handles GET /api/v1/schedules/mine requests.
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	schedules, total, err := handler.service.ListMine(request.Context(), ownerID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, schedules, pagination.NewMeta(params.Page, params.Limit, total))
}

// update handles PUT /api/v1/schedules/{id} requests.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload scheduleRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := payload.toInput()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	schedule, err := handler.service.Update(request.Context(), id, callerID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, schedule)
}

// remove handles DELETE /api/v1/schedules/{id} requests.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id, callerID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
