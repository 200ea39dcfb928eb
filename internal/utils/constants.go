package utils

// File and directory names the tool relies on across packages.
const (
	// GitIgnoreFileName is the name of the Git ignore file read for exclusion patterns.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository metadata directory.
	GitDirectoryName = ".git"
	// ConfigFileName is the name of the local application configuration file.
	ConfigFileName = ".repodigest.yaml"
	// GlobalConfigFileName is the name of the global application configuration file.
	GlobalConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the directory under ~/.config holding the global configuration.
	GlobalConfigDirectoryName = "repodigest"
	// GoModuleFileName is the name of the Go module definition file.
	GoModuleFileName = "go.mod"
	// DigestFileSuffix is appended to the working directory name to derive the default output file.
	DigestFileSuffix = "_repo_digest.txt"
)

// LoggerInitializationFailedMessageFormat reports a failure to construct the application logger.
const LoggerInitializationFailedMessageFormat = "unable to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal execution errors.
const ApplicationExecutionFailedMessage = "repodigest failed"
