package version

// Set at build time via -ldflags "-X nemo-ecommerce/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
