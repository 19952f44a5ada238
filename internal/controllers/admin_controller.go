package controllers

import (
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"workd/internal/models"
	"workd/internal/providers"
	"workd/internal/structures"
	"workd/internal/works"
)

const maxRequestBodySize = 1 << 20 // 1 MB, JSON bodies only

type AdminController struct {
	logger  providers.Logger
	service works.ServiceInterface
	conf    *structures.Config
}

func NewAdminController(logger providers.Logger, service works.ServiceInterface, conf *structures.Config) *AdminController {
	return &AdminController{
		logger:  logger,
		service: service,
		conf:    conf,
	}
}

// authorized checks the shared-secret token, accepted from the token query
// parameter or the Authorization header.
func (ac *AdminController) authorized(w http.ResponseWriter, r *http.Request) bool {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("Authorization")
	}
	if token != ac.conf.Admin.Token {
		ac.logger.Warnf(providers.GetLogTypeByRequestType(r.Method), "Rejected admin request to %s", r.URL.Path)
		writeMessage(w, http.StatusForbidden, false, "permission denied")
		return false
	}
	return true
}

func (ac *AdminController) Works(w http.ResponseWriter, r *http.Request) {
	if !ac.authorized(w, r) {
		return
	}
	data := ac.service.ListWorks()
	writeJSON(w, http.StatusOK, listResponse{Success: true, Data: data, Total: len(data)})
}

type createRequest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Version     string   `json:"version"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Platforms   []string `json:"platforms"`
}

type createResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	WorkID  string `json:"work_id"`
}

func (ac *AdminController) Create(w http.ResponseWriter, r *http.Request) {
	if !ac.authorized(w, r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "malformed request body")
		return
	}
	if payload.ID == "" {
		writeMessage(w, http.StatusBadRequest, false, "work id is required")
		return
	}

	rec := &models.WorkRecord{
		ID:          payload.ID,
		Title:       payload.Title,
		Description: payload.Description,
		Author:      payload.Author,
		Version:     payload.Version,
		Category:    payload.Category,
		Tags:        payload.Tags,
		Platforms:   payload.Platforms,
	}
	if err := ac.service.CreateWork(rec); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, createResponse{Success: true, Message: "created", WorkID: rec.ID})
}

func (ac *AdminController) Update(w http.ResponseWriter, r *http.Request) {
	if !ac.authorized(w, r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.WorkUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "malformed request body")
		return
	}

	if err := ac.service.UpdateWork(r.PathValue("id"), &payload); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "updated")
}

func (ac *AdminController) Delete(w http.ResponseWriter, r *http.Request) {
	if !ac.authorized(w, r) {
		return
	}
	if err := ac.service.DeleteWork(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "deleted")
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
	FileSize int64  `json:"file_size"`
}

// Upload streams a multipart upload into the work's directory without
// buffering it in memory. For platform uploads the platform may arrive as a
// query parameter or as a form field preceding the file part.
func (ac *AdminController) Upload(w http.ResponseWriter, r *http.Request) {
	if !ac.authorized(w, r) {
		return
	}
	workID := r.PathValue("id")
	fileType := r.PathValue("type")
	platform := r.URL.Query().Get("platform")

	reader, err := r.MultipartReader()
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, "expected multipart upload")
		return
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			writeMessage(w, http.StatusBadRequest, false, "no file in request")
			return
		}
		if err != nil {
			writeMessage(w, http.StatusBadRequest, false, "malformed multipart body")
			return
		}

		switch part.FormName() {
		case "platform":
			value, err := io.ReadAll(io.LimitReader(part, 256))
			if err == nil {
				platform = string(value)
			}
		case "file":
			if part.FileName() == "" {
				writeMessage(w, http.StatusBadRequest, false, "no file selected")
				return
			}
			result, err := ac.service.Upload(workID, fileType, platform, part.FileName(), part)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, uploadResponse{
				Success:  true,
				Message:  "uploaded",
				Filename: result.Filename,
				FileSize: result.Size,
			})
			return
		}
		part.Close()
	}
}

func (ac *AdminController) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if !ac.authorized(w, r) {
		return
	}
	err := ac.service.RemoveFile(r.PathValue("id"), r.PathValue("type"), r.URL.Query().Get("platform"), r.PathValue("file"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "deleted")
}
