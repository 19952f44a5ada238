package controllers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"workd/internal/models"
	"workd/internal/providers"
	"workd/internal/works"
)

type ApiController struct {
	logger  providers.Logger
	service works.ServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service works.ServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

type listResponse struct {
	Success bool               `json:"success"`
	Data    []*models.WorkView `json:"data"`
	Total   int                `json:"total"`
}

type detailResponse struct {
	Success bool             `json:"success"`
	Data    *models.WorkView `json:"data"`
}

type categoriesResponse struct {
	Success bool     `json:"success"`
	Data    []string `json:"data"`
}

type likeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Likes   int    `json:"likes"`
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() any) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	gson, err := json.Marshal(compute())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) Settings(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "settings", func() any {
		return ac.service.Settings()
	})
}

func (ac *ApiController) Works(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "works", func() any {
		data := ac.service.ListWorks()
		return listResponse{Success: true, Data: data, Total: len(data)}
	})
}

// WorkDetail serves a single work. A successful read may count a view, so
// detail responses are never cached.
func (ac *ApiController) WorkDetail(w http.ResponseWriter, r *http.Request) {
	view, err := ac.service.WorkDetail(callerFingerprint(r), r.PathValue("id"), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailResponse{Success: true, Data: view})
}

func (ac *ApiController) Image(w http.ResponseWriter, r *http.Request) {
	ac.serveMedia(w, r, "image")
}

func (ac *ApiController) Video(w http.ResponseWriter, r *http.Request) {
	ac.serveMedia(w, r, "video")
}

func (ac *ApiController) serveMedia(w http.ResponseWriter, r *http.Request, fileType string) {
	path, err := ac.service.MediaPath(r.PathValue("id"), fileType, "", r.PathValue("file"))
	if err != nil {
		writeError(w, err)
		return
	}
	http.ServeFile(w, r, path)
}

// Download serves a platform build as an attachment, counting an eligible
// download first. Serving never depends on the counter outcome.
func (ac *ApiController) Download(w http.ResponseWriter, r *http.Request) {
	workID := r.PathValue("id")
	filename := r.PathValue("file")
	path, err := ac.service.MediaPath(workID, "platform", r.PathValue("platform"), filename)
	if err != nil {
		writeError(w, err)
		return
	}

	ac.service.RecordDownload(callerFingerprint(r), workID, time.Now())

	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeFile(w, r, path)
}

func (ac *ApiController) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	ac.serveFromCacheOrCompute(w, "search:"+query+":"+category, func() any {
		data := ac.service.Search(query, category)
		return listResponse{Success: true, Data: data, Total: len(data)}
	})
}

func (ac *ApiController) Categories(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "categories", func() any {
		return categoriesResponse{Success: true, Data: ac.service.Categories()}
	})
}

func (ac *ApiController) Like(w http.ResponseWriter, r *http.Request) {
	workID := r.PathValue("id")
	likes, err := ac.service.Like(callerFingerprint(r), workID, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	ac.logger.Infof(providers.TypePost, "Work %s liked, total %d", workID, likes)
	writeJSON(w, http.StatusOK, likeResponse{Success: true, Message: "liked", Likes: likes})
}
