package config

// Lua schema field names and globals
const (
	luaGlobalQJSUP    = "qjsup"
	luaFieldHome      = "home"
	luaFieldBaseURL   = "base_url"
	luaFieldLanguage  = "language"
	luaFieldAssumeYes = "assume_yes"
	luaFieldLogLevel  = "log_level"
	luaFieldTimeout   = "timeout"
	luaFieldUserAgent = "user_agent"
	luaFieldVerify    = "verify"
	luaFieldKeyring   = "keyring"
	luaFieldChecksums = "checksums"
)

// Defaults applied before the config file is evaluated.
const (
	DefaultHome     = "~/.kodi"
	DefaultLanguage = "en"
	DefaultLogLevel = "info"
	// DefaultTimeoutSeconds matches the download client's default timeout.
	DefaultTimeoutSeconds = 300
)

const (
	// InstallSubdir is where the interpreter lives under the host home.
	InstallSubdir = "system/quickjs"

	// MaxConfigFileSize bounds the config file read by Load.
	MaxConfigFileSize = 256 * 1024
)
