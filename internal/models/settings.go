package models

// SiteSettings is the site-wide configuration document served to the
// frontend. Missing or unreadable settings fall back to DefaultSiteSettings.
type SiteSettings struct {
	SiteName         string `json:"site_name"`
	SiteDescription  string `json:"site_description"`
	Owner            string `json:"owner"`
	ContactEmail     string `json:"contact_email"`
	ThemeColor       string `json:"theme_color"`
	WorksPerPage     int    `json:"works_per_page"`
	EnableSearch     bool   `json:"enable_search"`
	EnableCategories bool   `json:"enable_categories"`
}

func DefaultSiteSettings() *SiteSettings {
	return &SiteSettings{
		SiteName:         "Portfolio",
		SiteDescription:  "Creative works and projects",
		Owner:            "admin",
		ThemeColor:       "#81c784",
		WorksPerPage:     12,
		EnableSearch:     true,
		EnableCategories: true,
	}
}
