package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/SanteonNL/sift/cmd/sift/datasource"
	"github.com/SanteonNL/sift/filters"
	"github.com/SanteonNL/sift/models"
)

var errUnknownResource = errors.New("unknown resource")

type ListRouter struct {
	resources  map[string]models.Resource
	dataSource *datasource.DataSourceService
	locales    *LocaleNegotiator
	log        zerolog.Logger
}

type listResponse struct {
	Data  []datasource.Row `json:"data"`
	Count int              `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewListRouter(
	resources []models.Resource,
	dataSource *datasource.DataSourceService,
	locales *LocaleNegotiator,
	log zerolog.Logger,
) *ListRouter {
	byName := make(map[string]models.Resource, len(resources))
	for _, r := range resources {
		byName[r.Name] = r
	}
	return &ListRouter{
		resources:  byName,
		dataSource: dataSource,
		locales:    locales,
		log:        log,
	}
}

func (lr *ListRouter) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", lr.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/{resource}", lr.handleList).Methods(http.MethodGet)
	return r
}

func (lr *ListRouter) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (lr *ListRouter) handleList(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["resource"]
	resource, ok := lr.resources[name]
	if !ok {
		lr.respondWithError(w, http.StatusNotFound, errUnknownResource, name)
		return
	}

	params, err := filters.ParseQuery(r.URL.RawQuery)
	if err != nil {
		lr.respondWithError(w, http.StatusBadRequest, err, name)
		return
	}

	engine := filters.New(resource.Filters, params,
		filters.WithOrderable(resource.Orderable...),
		filters.WithLocale(lr.locales.Negotiate(r)),
		filters.WithLogger(lr.log.With().Str("resource", name).Logger()),
	)

	b, err := engine.Apply(lr.dataSource.NewBuilder(resource.Model))
	if err != nil {
		status := http.StatusInternalServerError
		if filters.IsInputError(err) {
			status = http.StatusBadRequest
		}
		lr.respondWithError(w, status, err, name)
		return
	}

	rows, err := lr.dataSource.Fetch(r.Context(), b)
	if err != nil {
		lr.respondWithError(w, http.StatusInternalServerError, err, name)
		return
	}

	lr.log.Debug().
		Str("resource", name).
		Int("rows", len(rows)).
		Msg("Listed resource")
	respondWithJSON(w, http.StatusOK, listResponse{Data: rows, Count: len(rows)})
}

func (lr *ListRouter) respondWithError(w http.ResponseWriter, status int, err error, resource string) {
	event := lr.log.Warn()
	message := err.Error()
	if status >= http.StatusInternalServerError {
		event = lr.log.Error()
		message = http.StatusText(status)
	}
	event.Err(err).Str("resource", resource).Int("status", status).Msg("Request failed")
	respondWithJSON(w, status, errorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
