package settings

// Setting keys and defaults.
const (
	// SiteNameKey is the setting key for the panel site name.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback panel site name.
	DefaultSiteName = "Admin Panel"
	// MediaPageSizeKey controls the default media list page size.
	MediaPageSizeKey = "MEDIA_PAGE_SIZE"
	// DefaultMediaPageSize is the fallback media list page size.
	DefaultMediaPageSize = 24
	// MaxUploadSizeMBKey controls the maximum accepted upload size.
	MaxUploadSizeMBKey = "MAX_UPLOAD_SIZE_MB"
	// DefaultMaxUploadSizeMB is the fallback maximum upload size.
	DefaultMaxUploadSizeMB = 25
)
