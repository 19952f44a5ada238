package works

import (
	"os"

	json "github.com/goccy/go-json"

	"workd/internal/models"
	"workd/internal/providers"
)

// LoadSettings reads the site settings document, falling back to defaults
// when the file is missing or unreadable.
func (s *Store) LoadSettings() *models.SiteSettings {
	data, err := os.ReadFile(s.settingsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf(providers.TypeApp, "Cannot read settings %s: %s", s.settingsPath, err)
		}
		return models.DefaultSiteSettings()
	}

	settings := models.DefaultSiteSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		s.logger.Warnf(providers.TypeApp, "Malformed settings %s: %s", s.settingsPath, err)
		return models.DefaultSiteSettings()
	}
	return settings
}
