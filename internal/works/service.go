package works

import (
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"workd/internal/models"
	"workd/internal/providers"
	"workd/internal/services"
	"workd/internal/structures"
)

type ServiceInterface interface {
	Settings() *models.SiteSettings
	ListWorks() []*models.WorkView
	WorkDetail(fingerprint, workID string, now time.Time) (*models.WorkView, error)
	Search(query, category string) []*models.WorkView
	Categories() []string
	MediaPath(workID, fileType, platform, filename string) (string, error)
	RecordDownload(fingerprint, workID string, now time.Time)
	Like(fingerprint, workID string, now time.Time) (int, error)
	CreateWork(rec *models.WorkRecord) error
	UpdateWork(workID string, input *models.WorkUpdate) error
	DeleteWork(workID string) error
	Upload(workID, fileType, platform, originalName string, src io.Reader) (*UploadResult, error)
	RemoveFile(workID, fileType, platform, filename string) error
	CountWorks() int
}

// Service orchestrates the public action flow (rate check, load, increment,
// persist) and the admin mutations, purging the response cache after every
// admin edit.
type Service struct {
	conf    *structures.Config
	store   *Store
	limiter services.RateLimiterInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
}

func NewService(conf *structures.Config, store *Store, limiter services.RateLimiterInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) ServiceInterface {
	svc := &Service{
		conf:    conf,
		store:   store,
		limiter: limiter,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
	metrics.SetWorksTotal(store.Count())
	return svc
}

func (svc *Service) Settings() *models.SiteSettings {
	return svc.store.LoadSettings()
}

func (svc *Service) ListWorks() []*models.WorkView {
	start := time.Now()
	views := svc.store.ListAll()
	svc.metrics.ObserveStoreDuration("list", time.Since(start))
	return views
}

// WorkDetail returns a work with derived links, counting an eligible view.
// The record is re-read after an increment so the response carries the fresh
// counter. View counting is best-effort: an increment failure is logged but
// never fails the read.
func (svc *Service) WorkDetail(fingerprint, workID string, now time.Time) (*models.WorkView, error) {
	view, err := svc.store.LoadView(workID)
	if err != nil {
		return nil, err
	}

	if svc.limiter.Allow(fingerprint, services.ActionView, workID, now) {
		if _, err := svc.store.IncrementCounter(workID, models.CounterViews); err != nil {
			svc.metrics.IncActionsTotal(services.ActionView, providers.OutcomeFailed)
			svc.logger.Errorf(providers.TypeGet, "View increment failed for %s: %s", workID, err)
		} else {
			svc.metrics.IncActionsTotal(services.ActionView, providers.OutcomeCounted)
			if fresh, err := svc.store.LoadView(workID); err == nil {
				view = fresh
			}
		}
	} else {
		svc.metrics.IncActionsTotal(services.ActionView, providers.OutcomeThrottled)
	}
	return view, nil
}

// Search matches a case-insensitive substring against title, description and
// tags, optionally narrowed to one category.
func (svc *Service) Search(query, category string) []*models.WorkView {
	works := svc.ListWorks()
	query = strings.ToLower(query)

	if query != "" {
		filtered := works[:0]
		for _, work := range works {
			if matchesQuery(work, query) {
				filtered = append(filtered, work)
			}
		}
		works = filtered
	}
	if category != "" {
		filtered := works[:0]
		for _, work := range works {
			if work.Category == category {
				filtered = append(filtered, work)
			}
		}
		works = filtered
	}
	return works
}

func matchesQuery(work *models.WorkView, query string) bool {
	if strings.Contains(strings.ToLower(work.Title), query) ||
		strings.Contains(strings.ToLower(work.Description), query) {
		return true
	}
	for _, tag := range work.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// Categories returns the deduplicated, sorted set of non-empty categories.
func (svc *Service) Categories() []string {
	seen := map[string]struct{}{}
	for _, work := range svc.ListWorks() {
		if work.Category != "" {
			seen[work.Category] = struct{}{}
		}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

func (svc *Service) MediaPath(workID, fileType, platform, filename string) (string, error) {
	return svc.store.MediaPath(workID, fileType, platform, filename)
}

// RecordDownload counts an eligible download. Fire-and-forget: the file is
// served regardless of the counter outcome.
func (svc *Service) RecordDownload(fingerprint, workID string, now time.Time) {
	if !svc.limiter.Allow(fingerprint, services.ActionDownload, workID, now) {
		svc.metrics.IncActionsTotal(services.ActionDownload, providers.OutcomeThrottled)
		return
	}
	if _, err := svc.store.IncrementCounter(workID, models.CounterDownloads); err != nil {
		svc.metrics.IncActionsTotal(services.ActionDownload, providers.OutcomeFailed)
		svc.logger.Errorf(providers.TypeGet, "Download increment failed for %s: %s", workID, err)
		return
	}
	svc.metrics.IncActionsTotal(services.ActionDownload, providers.OutcomeCounted)
}

// Like counts an eligible like and returns the updated like count. Unlike
// views and downloads the caller's response depends on the outcome:
// ErrNotFound for unknown works, ErrRateLimited inside the cooldown window.
func (svc *Service) Like(fingerprint, workID string, now time.Time) (int, error) {
	if _, err := svc.store.Load(workID); err != nil {
		return 0, err
	}
	if !svc.limiter.Allow(fingerprint, services.ActionLike, workID, now) {
		svc.metrics.IncActionsTotal(services.ActionLike, providers.OutcomeThrottled)
		return 0, ErrRateLimited
	}
	likes, err := svc.store.IncrementCounter(workID, models.CounterLikes)
	if err != nil {
		svc.metrics.IncActionsTotal(services.ActionLike, providers.OutcomeFailed)
		return 0, err
	}
	svc.metrics.IncActionsTotal(services.ActionLike, providers.OutcomeCounted)
	return likes, nil
}

func (svc *Service) CreateWork(rec *models.WorkRecord) error {
	if err := svc.store.Create(rec); err != nil {
		return err
	}
	svc.afterMutation()
	svc.logger.Infof(providers.TypePost, "Created work %s", rec.ID)
	return nil
}

func (svc *Service) UpdateWork(workID string, input *models.WorkUpdate) error {
	if _, err := svc.store.Update(workID, input); err != nil {
		return err
	}
	svc.afterMutation()
	svc.logger.Infof(providers.TypePost, "Updated work %s", workID)
	return nil
}

func (svc *Service) DeleteWork(workID string) error {
	if err := svc.store.Delete(workID); err != nil {
		return err
	}
	svc.afterMutation()
	svc.logger.Infof(providers.TypePost, "Deleted work %s", workID)
	return nil
}

func (svc *Service) Upload(workID, fileType, platform, originalName string, src io.Reader) (*UploadResult, error) {
	start := time.Now()
	result, err := svc.store.SaveUpload(workID, fileType, platform, originalName, src)
	svc.metrics.ObserveStoreDuration("upload", time.Since(start))
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrBadExtension) && !errors.Is(err, ErrBadFileType) {
			svc.logger.Errorf(providers.TypePost, "Upload to %s failed: %s", workID, err)
		}
		return nil, err
	}
	svc.afterMutation()
	return result, nil
}

func (svc *Service) RemoveFile(workID, fileType, platform, filename string) error {
	if err := svc.store.DeleteFile(workID, fileType, platform, filename); err != nil {
		return err
	}
	svc.afterMutation()
	svc.logger.Infof(providers.TypePost, "Removed %s file %s from work %s", fileType, filename, workID)
	return nil
}

func (svc *Service) CountWorks() int {
	return svc.store.Count()
}

func (svc *Service) afterMutation() {
	svc.cache.Purge()
	svc.metrics.SetWorksTotal(svc.store.Count())
}
