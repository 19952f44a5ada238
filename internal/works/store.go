package works

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"workd/internal/models"
	"workd/internal/providers"
	"workd/internal/structures"
)

const configFileName = "work_config.json"

// Fixed-width timestamp layout. Lexicographic comparison of these strings is
// order-preserving, which ListAll relies on for sorting.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func nowStamp() string {
	return time.Now().UTC().Format(timeLayout)
}

// Store reads and writes per-work JSON records under the works root. The
// on-disk file is the single source of truth: every read re-parses it and
// every write rewrites it with an atomic temp-then-rename replace. A lock
// table serializes mutations per work id so concurrent increments never lose
// updates.
type Store struct {
	dir          string
	settingsPath string
	maxUpload    int64
	allowedExts  map[string]struct{}
	locks        *lockTable
	logger       providers.Logger
}

func NewStore(conf *structures.Config, logger providers.Logger) *Store {
	exts := make(map[string]struct{}, len(conf.Upload.AllowedExtensions))
	for _, ext := range conf.Upload.AllowedExtensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	return &Store{
		dir:          conf.Works.Dir,
		settingsPath: conf.Works.SettingsPath,
		maxUpload:    conf.Upload.MaxSize,
		allowedExts:  exts,
		locks:        newLockTable(),
		logger:       logger,
	}
}

// validateName rejects anything that could escape a work's directory when
// used as a path segment.
func validateName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}

func (s *Store) workDir(workID string) string {
	return filepath.Join(s.dir, workID)
}

func (s *Store) configPath(workID string) string {
	return filepath.Join(s.workDir(workID), configFileName)
}

// Load parses a work's JSON record. Missing file maps to ErrNotFound,
// unparseable content to ErrCorrupted.
func (s *Store) Load(workID string) (*models.WorkRecord, error) {
	if !validateName(workID) {
		return nil, ErrInvalidID
	}
	data, err := os.ReadFile(s.configPath(workID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var rec models.WorkRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrCorrupted, workID, err)
	}
	rec.Normalize()
	return &rec, nil
}

// LoadView loads a record and synthesizes download/image/video URL lists from
// the stored filename manifests. Derived links are never persisted.
func (s *Store) LoadView(workID string) (*models.WorkView, error) {
	rec, err := s.Load(workID)
	if err != nil {
		return nil, err
	}
	return buildView(rec), nil
}

func buildView(rec *models.WorkRecord) *models.WorkView {
	view := &models.WorkView{
		WorkRecord:    *rec,
		DownloadLinks: map[string][]string{},
		ImageLinks:    []string{},
		VideoLinks:    []string{},
	}
	for _, platform := range rec.Platforms {
		for _, file := range rec.Files[platform] {
			view.DownloadLinks[platform] = append(view.DownloadLinks[platform],
				"/api/download/"+rec.ID+"/"+platform+"/"+file)
		}
	}
	for _, img := range rec.Screenshots {
		view.ImageLinks = append(view.ImageLinks, "/api/image/"+rec.ID+"/"+img)
	}
	for _, vid := range rec.Videos {
		view.VideoLinks = append(view.VideoLinks, "/api/video/"+rec.ID+"/"+vid)
	}
	return view
}

// ListAll loads every work under the root, skipping records that fail to
// parse, sorted by update time descending.
func (s *Store) ListAll() []*models.WorkView {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Errorf(providers.TypeApp, "Cannot read works dir %s: %s", s.dir, err)
		}
		return []*models.WorkView{}
	}

	views := make([]*models.WorkView, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		view, err := s.LoadView(entry.Name())
		if err != nil {
			s.logger.Warnf(providers.TypeApp, "Skipping work %s: %s", entry.Name(), err)
			continue
		}
		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].UpdatedAt > views[j].UpdatedAt
	})
	return views
}

// Count returns the number of work directories under the root.
func (s *Store) Count() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			count++
		}
	}
	return count
}

// Save atomically replaces a work's record: the JSON is written to a sibling
// temp file, fsynced and renamed over the final path, so a reader never sees
// a partial document and a crash mid-write keeps the previous version. Any
// failure removes the temp file.
func (s *Store) Save(workID string, rec *models.WorkRecord) error {
	if !validateName(workID) {
		return ErrInvalidID
	}
	rec.Normalize()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	fileName := s.configPath(workID)
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// IncrementCounter bumps the named counter by one under the work's lock and
// returns the new value. Missing counters in older records read as zero.
func (s *Store) IncrementCounter(workID, counter string) (int, error) {
	if !validateName(workID) {
		return 0, ErrInvalidID
	}
	defer s.locks.lock(workID).Unlock()

	rec, err := s.Load(workID)
	if err != nil {
		return 0, err
	}
	field := rec.Counter(counter)
	if field == nil {
		return 0, fmt.Errorf("unknown counter %q", counter)
	}
	*field++
	rec.UpdatedAt = nowStamp()

	if err := s.Save(workID, rec); err != nil {
		return 0, err
	}
	return *field, nil
}

// Create establishes a new work: its directory tree (image/, video/,
// platform/<p>/), zeroed counters and creation timestamps.
func (s *Store) Create(rec *models.WorkRecord) error {
	if !validateName(rec.ID) {
		return ErrInvalidID
	}
	for _, platform := range rec.Platforms {
		if !validateName(platform) {
			return ErrInvalidName
		}
	}
	defer s.locks.lock(rec.ID).Unlock()

	dir := s.workDir(rec.ID)
	if _, err := os.Stat(dir); err == nil {
		return ErrExists
	}

	for _, sub := range []string{"image", "video", "platform"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return err
		}
	}
	for _, platform := range rec.Platforms {
		if err := os.MkdirAll(filepath.Join(dir, "platform", platform), 0o755); err != nil {
			return err
		}
	}

	if rec.Version == "" {
		rec.Version = "1.0.0"
	}
	if rec.Category == "" {
		rec.Category = "other"
	}
	rec.Files = map[string][]string{}
	rec.Screenshots = []string{}
	rec.Videos = []string{}
	rec.Cover = ""
	rec.Downloads = 0
	rec.Views = 0
	rec.Likes = 0
	rec.UpdateCount = 0
	stamp := nowStamp()
	rec.CreatedAt = stamp
	rec.UpdatedAt = stamp

	return s.Save(rec.ID, rec)
}

// Update applies an admin edit under the work's lock. Fields absent from the
// input keep their stored values, counters included; the update count always
// advances by one and the update timestamp is refreshed.
func (s *Store) Update(workID string, input *models.WorkUpdate) (*models.WorkRecord, error) {
	if !validateName(workID) {
		return nil, ErrInvalidID
	}
	defer s.locks.lock(workID).Unlock()

	rec, err := s.Load(workID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		rec.Title = *input.Title
	}
	if input.Description != nil {
		rec.Description = *input.Description
	}
	if input.Author != nil {
		rec.Author = *input.Author
	}
	if input.Version != nil {
		rec.Version = *input.Version
	}
	if input.Category != nil {
		rec.Category = *input.Category
	}
	if input.Tags != nil {
		rec.Tags = *input.Tags
	}
	if input.Platforms != nil {
		rec.Platforms = *input.Platforms
	}
	if input.Cover != nil {
		rec.Cover = *input.Cover
	}
	if input.Downloads != nil {
		rec.Downloads = *input.Downloads
	}
	if input.Views != nil {
		rec.Views = *input.Views
	}
	if input.Likes != nil {
		rec.Likes = *input.Likes
	}
	rec.UpdateCount++
	rec.UpdatedAt = nowStamp()

	if err := s.Save(workID, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the work's entire directory subtree.
func (s *Store) Delete(workID string) error {
	if !validateName(workID) {
		return ErrInvalidID
	}
	defer s.locks.lock(workID).Unlock()

	dir := s.workDir(workID)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return os.RemoveAll(dir)
}

// MediaPath resolves a stored media or platform file for serving. fileType is
// one of image, video, platform.
func (s *Store) MediaPath(workID, fileType, platform, filename string) (string, error) {
	if !validateName(workID) {
		return "", ErrInvalidID
	}
	if !validateName(filename) {
		return "", ErrInvalidName
	}

	var path string
	switch fileType {
	case "image", "video":
		path = filepath.Join(s.workDir(workID), fileType, filename)
	case "platform":
		if platform == "" {
			return "", ErrMissingPlatform
		}
		if !validateName(platform) {
			return "", ErrInvalidName
		}
		path = filepath.Join(s.workDir(workID), "platform", platform, filename)
	default:
		return "", ErrBadFileType
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrFileNotFound
		}
		return "", err
	}
	return path, nil
}
