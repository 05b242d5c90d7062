// Copyright (c) 2026 Triply. All rights reserved.

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/triply-app/triply/internal/platform/middleware"
	requestutil "github.com/triply-app/triply/internal/platform/request"
	"github.com/triply-app/triply/internal/platform/respond"
	"github.com/triply-app/triply/internal/social"
	"github.com/triply-app/triply/pkg/pagination"
)

// Handler implements the comment HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the comment endpoints.
//
// # Endpoints
//   - GET    /{targetType}/{targetID} : Comments on one target. Public.
//   - GET    /mine                    : The caller's own comments. Authenticated.
//   - POST   /                        : Create a comment. Authenticated.
//   - PATCH  /{id}                    : Edit content. Author only.
//   - DELETE /{id}                    : Removal. Author only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{targetType}/{targetID}", handler.listByTarget)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth())
		protected.Get("/mine", handler.listMine)
		protected.Post("/", handler.create)
		protected.Patch("/{id}", handler.update)
		protected.Delete("/{id}", handler.remove)
	})

	return router
}

// createRequest is the new comment payload.
type createRequest struct {
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
	Content    string `json:"content"`
}

// create handles POST /api/v1/comments requests.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Create(request.Context(), authorID, CreateInput{
		TargetType: social.TargetType(input.TargetType),
		TargetID:   input.TargetID,
		Content:    input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

// listByTarget handles GET /api/v1/comments/{targetType}/{targetID} requests.
func (handler *Handler) listByTarget(writer http.ResponseWriter, request *http.Request) {
	targetID, err := requestutil.IntParam(request, "targetID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	targetType := social.TargetType(requestutil.Param(request, "targetType"))

	comments, total, err := handler.service.ListByTarget(request.Context(), targetType, targetID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

// listMine handles GET /api/v1/comments/mine requests.
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	comments, total, err := handler.service.ListMine(request.Context(), authorID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

// updateRequest is the comment edit payload.
type updateRequest struct {
	Content string `json:"content"`
}

// update handles PATCH /api/v1/comments/{id} requests.
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

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Update(request.Context(), id, callerID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// remove handles DELETE /api/v1/comments/{id} requests.
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
