// Copyright (c) 2026 Triply. All rights reserved.

package like

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/triply-app/triply/internal/platform/middleware"
	requestutil "github.com/triply-app/triply/internal/platform/request"
	"github.com/triply-app/triply/internal/platform/respond"
	"github.com/triply-app/triply/internal/social"
	"github.com/triply-app/triply/pkg/pagination"
)

// Handler implements the like HTTP endpoints. All of them require auth;
// anonymous visitors see like counts through the catalogue, not here.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the like endpoints.
//
// # Endpoints
//   - PUT    /{targetType}/{targetID} : Set liked.
//   - DELETE /{targetType}/{targetID} : Set un-liked.
//   - POST   /{targetType}/{targetID}/toggle : Flip the current state.
//   - GET    /mine : The caller's active likes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth())

	router.Put("/{targetType}/{targetID}", handler.set(true))
	router.Delete("/{targetType}/{targetID}", handler.set(false))
	router.Post("/{targetType}/{targetID}/toggle", handler.toggle)
	router.Get("/mine", handler.listMine)

	return router
}

// set returns a handler writing a fixed like state.
func (handler *Handler) set(liked bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		userID, targetType, targetID, err := likeParams(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		like, err := handler.service.Set(request.Context(), userID, targetType, targetID, liked)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, like)
	}
}

// toggle handles POST /api/v1/likes/{targetType}/{targetID}/toggle requests.
func (handler *Handler) toggle(writer http.ResponseWriter, request *http.Request) {
	userID, targetType, targetID, err := likeParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	like, err := handler.service.Toggle(request.Context(), userID, targetType, targetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, like)
}

// listMine handles GET /api/v1/likes/mine requests.
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	likes, total, err := handler.service.ListMine(request.Context(), userID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, likes, pagination.NewMeta(params.Page, params.Limit, total))
}

// likeParams extracts the caller identity and target reference.
func likeParams(request *http.Request) (string, social.TargetType, int64, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return "", "", 0, err
	}

	targetID, err := requestutil.IntParam(request, "targetID")
	if err != nil {
		return "", "", 0, err
	}

	return userID, social.TargetType(requestutil.Param(request, "targetType")), targetID, nil
}
