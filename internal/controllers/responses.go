package controllers

import (
	"errors"
	"net"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"workd/internal/models"
	"workd/internal/works"
)

// messageResponse is the generic success/failure envelope.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, messageResponse{Success: success, Message: message})
}

// writeError translates a store/service error kind into its HTTP status with
// a short message that does not leak internals.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, works.ErrNotFound):
		writeMessage(w, http.StatusNotFound, false, "work not found")
	case errors.Is(err, works.ErrFileNotFound):
		writeMessage(w, http.StatusNotFound, false, "file not found")
	case errors.Is(err, works.ErrExists):
		writeMessage(w, http.StatusConflict, false, "work id already exists")
	case errors.Is(err, works.ErrRateLimited):
		writeMessage(w, http.StatusTooManyRequests, false, "too many requests, try again later")
	case errors.Is(err, works.ErrTooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, false, "file exceeds the size limit")
	case errors.Is(err, works.ErrInvalidID),
		errors.Is(err, works.ErrInvalidName),
		errors.Is(err, works.ErrBadExtension),
		errors.Is(err, works.ErrBadFileType),
		errors.Is(err, works.ErrMissingPlatform):
		writeMessage(w, http.StatusBadRequest, false, err.Error())
	default:
		writeMessage(w, http.StatusInternalServerError, false, "internal error")
	}
}

// callerFingerprint derives the throttling identity for a request from the
// forwarded-for or remote address plus the agent string.
func callerFingerprint(r *http.Request) string {
	addr := r.Header.Get("X-Forwarded-For")
	if addr != "" {
		if idx := strings.IndexByte(addr, ','); idx >= 0 {
			addr = addr[:idx]
		}
		addr = strings.TrimSpace(addr)
	} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		addr = host
	} else {
		addr = r.RemoteAddr
	}
	return models.Fingerprint(addr, r.UserAgent())
}
