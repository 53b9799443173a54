// Package common provides the method names, parameter types and environment
// variable names shared by the habitflash daemon and its clients.
package common

// Environment variable names for configuration. All of them are read
// through internal/config with the HABITFLASH prefix.
const (
	EnvPrefix = "HABITFLASH"

	// DataDirEnv overrides the directory holding the database, log and
	// PID file.
	DataDirEnv = "HABITFLASH_DATA_DIR"

	// PortEnv is the daemon's TCP port on the loopback interface.
	PortEnv = "HABITFLASH_PORT"

	// ListenAllEnv binds the daemon to every interface instead of loopback.
	ListenAllEnv = "HABITFLASH_LISTEN_ALL"

	// LogFileEnv toggles the JSON log file next to the database.
	LogFileEnv = "HABITFLASH_LOG_FILE"

	// DebugEnv enables debug logging.
	DebugEnv = "HABITFLASH_DEBUG"

	// PowerMonitorEnv selects auto, logind, drift or none.
	PowerMonitorEnv = "HABITFLASH_POWER_MONITOR"

	// NotifierEnv selects auto, dbus or log.
	NotifierEnv = "HABITFLASH_NOTIFIER"

	// SoundDirsEnv lists extra sound directories, comma separated.
	SoundDirsEnv = "HABITFLASH_SOUND_DIRS"

	// ShutdownTimeoutEnv bounds graceful shutdown.
	ShutdownTimeoutEnv = "HABITFLASH_SHUTDOWN_TIMEOUT"

	// TokenEnv supplies the RPC bearer token to clients, bypassing the
	// keyring.
	TokenEnv = "HABITFLASH_TOKEN"
)

// DefaultPort is the daemon's default TCP port.
const DefaultPort = 7391
