// Copyright (c) 2026 Triply. All rights reserved.

package destination

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/triply-app/triply/internal/platform/request"
	"github.com/triply-app/triply/internal/platform/respond"
	"github.com/triply-app/triply/pkg/convert"
	"github.com/triply-app/triply/pkg/pagination"
	"github.com/triply-app/triply/pkg/query"
)

// Handler implements the catalogue discovery HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the catalogue endpoints.
//
// # Endpoints
//   - GET /          : Filtered, paginated catalogue search.
//   - GET /ranking   : Popularity leaderboard.
//   - GET /{id}      : Single destination detail.
//
// All endpoints work anonymously; an authenticated caller additionally gets
// a personalised IsLiked flag on every entry.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.search)
	router.Get("/ranking", handler.ranking)
	router.Get("/{id}", handler.get)

	return router
}

// search handles GET /api/v1/destinations requests.
//
// # Query Parameters
//   - category : comma-separated category IDs (e.g. ?category=12,14)
//   - title    : case-insensitive substring match
//   - page     : 1-indexed page number
//   - limit    : page size
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		CategoryIDs: query.IntSlice(query.StringSlice(request.URL.Query().Get("category"))),
		Title:       request.URL.Query().Get("title"),
	}

	destinations, total, err := handler.service.Search(
		request.Context(), filter, viewerID(request), params.Limit, params.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, destinations, pagination.NewMeta(params.Page, params.Limit, total))
}

// ranking handles GET /api/v1/destinations/ranking requests.
func (handler *Handler) ranking(writer http.ResponseWriter, request *http.Request) {
	size := convert.ToIntD(request.URL.Query().Get("size"), DefaultRankingSize)

	entries, err := handler.service.Ranking(request.Context(), size)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

// get handles GET /api/v1/destinations/{id} requests.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	contentID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Get(request.Context(), contentID, viewerID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// viewerID returns the authenticated login ID, or "" for anonymous requests.
func viewerID(request *http.Request) string {
	if claims := requestutil.Claims(request); claims != nil {
		return claims.UserID
	}
	return ""
}
