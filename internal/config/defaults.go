// Package config handles taskdeck configuration.
package config

const (
	// DefaultDirName is the directory under the user config dir.
	DefaultDirName = "taskdeck"
	// DefaultAPIURL is the base URL of the Task API.
	DefaultAPIURL = "http://localhost:5000/api"
	// DefaultAPITimeout bounds each Task API request.
	DefaultAPITimeout = "10s"
	// DefaultLogFile is the diagnostic log, relative to the config dir.
	DefaultLogFile = "taskdeck.log"
	// DefaultDateFormat is the Go time layout used for creation dates.
	DefaultDateFormat = "2006-01-02"
	// DefaultServerAddr is where `taskdeck serve` listens.
	DefaultServerAddr = ":5000"
	// DefaultDatabase is the sqlite file for `taskdeck serve`, relative to the config dir.
	DefaultDatabase = "tasks.db"

	// ConfigFileName is the name of the config file within the config directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2
)

// DefaultCORSOrigins allows any origin for the reference server.
var DefaultCORSOrigins = []string{"*"}
