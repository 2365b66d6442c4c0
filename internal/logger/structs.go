package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool `toml:"useConsoleWriter"`
}

// RollingFile configures one lumberjack rotated file.
type RollingFile struct {
	Name       string `toml:"name"`
	MaxSize    int    `toml:"maxSize"` // megabytes
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"` // days
}

// LogFile implements a file based logger, one file per level group.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	Access RollingFile `toml:"access"`
	Error  RollingFile `toml:"error"`
	Info   RollingFile `toml:"info"`
	Trace  RollingFile `toml:"trace"`
	Warn   RollingFile `toml:"warn"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string `toml:"logLevel"` // trace, debug, info, warn, error.

	// EnableAccessLogToConsole writes the http access log to the console as well.
	// Does not overrule Console.Enabled.
	EnableAccessLogToConsole bool `toml:"enableAccessLogToConsole"`
	ReportCaller             bool `toml:"reportCaller"`
	DisableCheckAlive        bool `toml:"disableCheckAlive"` // do not log /checkalive calls

	AppName     string `toml:"appName"`
	ServiceName string `toml:"serviceName"`

	Console Console `toml:"console"`
	File    LogFile `toml:"file"`
}
