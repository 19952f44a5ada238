package models

// Counter names accepted by the work store.
const (
	CounterDownloads   = "downloads"
	CounterViews       = "views"
	CounterLikes       = "likes"
	CounterUpdateCount = "update_count"
)

// WorkRecord is the persisted schema of a single work. One JSON document per
// work on disk is the source of truth; derived links never appear here.
// The four counters default to zero when absent so that records written by
// older versions keep loading.
type WorkRecord struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Author      string              `json:"author"`
	Version     string              `json:"version"`
	Category    string              `json:"category"`
	Tags        []string            `json:"tags"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
	Platforms   []string            `json:"platforms"`
	Files       map[string][]string `json:"files"`
	Screenshots []string            `json:"screenshots"`
	Videos      []string            `json:"videos"`
	Cover       string              `json:"cover"`
	Downloads   int                 `json:"downloads"`
	Views       int                 `json:"views"`
	Likes       int                 `json:"likes"`
	UpdateCount int                 `json:"update_count"`
}

// Normalize replaces nil collections with empty ones so that marshalled
// output always carries the full schema.
func (w *WorkRecord) Normalize() {
	if w.Tags == nil {
		w.Tags = []string{}
	}
	if w.Platforms == nil {
		w.Platforms = []string{}
	}
	if w.Files == nil {
		w.Files = map[string][]string{}
	}
	if w.Screenshots == nil {
		w.Screenshots = []string{}
	}
	if w.Videos == nil {
		w.Videos = []string{}
	}
}

// Counter returns a pointer to the named counter field, nil for unknown names.
func (w *WorkRecord) Counter(name string) *int {
	switch name {
	case CounterDownloads:
		return &w.Downloads
	case CounterViews:
		return &w.Views
	case CounterLikes:
		return &w.Likes
	case CounterUpdateCount:
		return &w.UpdateCount
	default:
		return nil
	}
}

// WorkView is a WorkRecord enriched with URL lists derived from the stored
// filename manifests. Views are produced on read and never persisted.
type WorkView struct {
	WorkRecord
	DownloadLinks map[string][]string `json:"download_links"`
	ImageLinks    []string            `json:"image_links"`
	VideoLinks    []string            `json:"video_links"`
}

// WorkUpdate carries an admin edit. Nil fields keep their stored value, so a
// request without counter fields preserves the counters. The update count is
// always bumped by the store and cannot be set from outside.
type WorkUpdate struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Author      *string   `json:"author"`
	Version     *string   `json:"version"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
	Platforms   *[]string `json:"platforms"`
	Cover       *string   `json:"cover"`
	Downloads   *int      `json:"downloads"`
	Views       *int      `json:"views"`
	Likes       *int      `json:"likes"`
}
