package constants

// File names
const (
	ConfigFileName        = "config.jsonc"
	ConfigExampleFileName = "config.example.jsonc"
)

// Directory names
const (
	BinDirName  = "bin"
	LogsDirName = "logs"
)

// Log file names
const (
	MainLogFileName = "mapprint-studio.log"
	APILogFileName  = "api.log"
)

// Network constants
const (
	DefaultSTUNServer = "stun.l.google.com:19302"
)

// Application version
// Can be overridden at build time using -ldflags="-X mapprint-studio/internal/constants.AppVersion=..."
var (
	AppVersion = "v0.1.0" // Default version, overridden by build scripts from git tag
)

// UI Theme settings
const (
	// Theme options: "dark", "light", or "default" (follows system theme)
	AppTheme = "default" // Set to "dark", "light", or "default"
)
