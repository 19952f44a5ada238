package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workd/internal/models"
	"workd/internal/providers"
	"workd/internal/works"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache                     { return &mockCache{data: make(map[string][]byte)} }
func (m *mockCache) Get(key string) ([]byte, bool) { v, ok := m.data[key]; return v, ok }
func (m *mockCache) Set(key string, value []byte)  { m.data[key] = value }
func (m *mockCache) Purge()                        { m.data = make(map[string][]byte) }

type mockWorkService struct {
	views      []*models.WorkView
	detail     *models.WorkView
	detailErr  error
	mediaPath  string
	mediaErr   error
	likes      int
	likeErr    error
	settings   *models.SiteSettings
	categories []string

	createErr error
	updateErr error
	deleteErr error
	uploadRes *works.UploadResult
	uploadErr error
	removeErr error

	downloads int
	created   []*models.WorkRecord
	updated   []string
	deleted   []string
	removed   []string
	uploads   []string
}

func (m *mockWorkService) Settings() *models.SiteSettings { return m.settings }
func (m *mockWorkService) ListWorks() []*models.WorkView  { return m.views }
func (m *mockWorkService) WorkDetail(_, _ string, _ time.Time) (*models.WorkView, error) {
	return m.detail, m.detailErr
}
func (m *mockWorkService) Search(_, _ string) []*models.WorkView { return m.views }
func (m *mockWorkService) Categories() []string                  { return m.categories }
func (m *mockWorkService) MediaPath(_, _, _, _ string) (string, error) {
	return m.mediaPath, m.mediaErr
}
func (m *mockWorkService) RecordDownload(_, _ string, _ time.Time) { m.downloads++ }
func (m *mockWorkService) Like(_, _ string, _ time.Time) (int, error) {
	return m.likes, m.likeErr
}
func (m *mockWorkService) CreateWork(rec *models.WorkRecord) error {
	m.created = append(m.created, rec)
	return m.createErr
}
func (m *mockWorkService) UpdateWork(workID string, _ *models.WorkUpdate) error {
	m.updated = append(m.updated, workID)
	return m.updateErr
}
func (m *mockWorkService) DeleteWork(workID string) error {
	m.deleted = append(m.deleted, workID)
	return m.deleteErr
}
func (m *mockWorkService) Upload(workID, fileType, platform, originalName string, src io.Reader) (*works.UploadResult, error) {
	_, _ = io.Copy(io.Discard, src)
	m.uploads = append(m.uploads, workID+"/"+fileType+"/"+platform+"/"+originalName)
	return m.uploadRes, m.uploadErr
}
func (m *mockWorkService) RemoveFile(workID, fileType, platform, filename string) error {
	m.removed = append(m.removed, workID+"/"+fileType+"/"+platform+"/"+filename)
	return m.removeErr
}
func (m *mockWorkService) CountWorks() int { return len(m.views) }

func newApiController(service works.ServiceInterface) *ApiController {
	return NewApiController(&mockLogger{}, service, newMockCache())
}

// mux with real route patterns so r.PathValue works in handlers.
func apiMux(ac *ApiController) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/works", ac.Works)
	mux.HandleFunc("GET /api/works/{id}", ac.WorkDetail)
	mux.HandleFunc("GET /api/image/{id}/{file}", ac.Image)
	mux.HandleFunc("GET /api/download/{id}/{platform}/{file}", ac.Download)
	mux.HandleFunc("GET /api/search", ac.Search)
	mux.HandleFunc("GET /api/categories", ac.Categories)
	mux.HandleFunc("POST /api/like/{id}", ac.Like)
	return mux
}

func demoView(id string) *models.WorkView {
	rec := models.WorkRecord{ID: id, Title: "Demo", Category: "game", Likes: 1, Views: 2}
	rec.Normalize()
	return &models.WorkView{WorkRecord: rec}
}

func TestApiController_WorksList(t *testing.T) {
	svc := &mockWorkService{views: []*models.WorkView{demoView("demo")}}
	rr := httptest.NewRecorder()
	apiMux(newApiController(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/works", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Success bool               `json:"success"`
		Data    []*models.WorkView `json:"data"`
		Total   int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "demo", resp.Data[0].ID)
}

func TestApiController_WorksListCached(t *testing.T) {
	svc := &mockWorkService{views: []*models.WorkView{demoView("demo")}}
	cache := newMockCache()
	ac := NewApiController(&mockLogger{}, svc, cache)
	mux := apiMux(ac)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/works", nil))
	first := rr.Body.String()

	// Second request must be served from cache even after the data changes.
	svc.views = nil
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/works", nil))
	assert.Equal(t, first, rr.Body.String())
}

func TestApiController_WorkDetail(t *testing.T) {
	svc := &mockWorkService{detail: demoView("demo")}
	rr := httptest.NewRecorder()
	apiMux(newApiController(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/works/demo", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"demo"`)
}

func TestApiController_WorkDetailNotFound(t *testing.T) {
	svc := &mockWorkService{detailErr: works.ErrNotFound}
	rr := httptest.NewRecorder()
	apiMux(newApiController(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/works/nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
}

func TestApiController_WorkDetailCorrupted(t *testing.T) {
	svc := &mockWorkService{detailErr: works.ErrCorrupted}
	rr := httptest.NewRecorder()
	apiMux(newApiController(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/works/demo", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestApiController_LikeSuccess(t *testing.T) {
	svc := &mockWorkService{likes: 5}
	rr := httptest.NewRecorder()
	apiMux(newApiController(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/like/demo", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Success bool `json:"success"`
		Likes   int  `json:"likes"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 5, resp.Likes)
}

func TestApiController_LikeThrottled(t *testing.T) {
	svc := &mockWorkService{likeErr: works.ErrRateLimited}
	rr := httptest.NewRecorder()
	apiMux(newApiController(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/like/demo", nil))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
}

func TestApiController_LikeMissingWork(t *testing.T) {
	svc := &mockWorkService{likeErr: works.ErrNotFound}
	rr := httptest.NewRecorder()
	apiMux(newApiController(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/like/nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestApiController_ImageServesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image1.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o644))

	svc := &mockWorkService{mediaPath: path}
	rr := httptest.NewRecorder()
	apiMux(newApiController(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/image/demo/image1.png", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "png-bytes", rr.Body.String())
}

func TestApiController_DownloadCountsAndServesAttachment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo_pc.zip")
	require.NoError(t, os.WriteFile(path, []byte("zip-bytes"), 0o644))

	svc := &mockWorkService{mediaPath: path}
	rr := httptest.NewRecorder()
	apiMux(newApiController(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/download/demo/pc/demo_pc.zip", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, svc.downloads)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
}

func TestApiController_DownloadMissingFile(t *testing.T) {
	svc := &mockWorkService{mediaErr: works.ErrFileNotFound}
	rr := httptest.NewRecorder()
	apiMux(newApiController(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/download/demo/pc/nope.zip", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 0, svc.downloads)
}

func TestApiController_Categories(t *testing.T) {
	svc := &mockWorkService{categories: []string{"game", "utility"}}
	rr := httptest.NewRecorder()
	apiMux(newApiController(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "utility")
}
