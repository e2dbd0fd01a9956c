package config

// Version is the interpreter version reported by `focus version`.
var Version = "0.3.0"

const SourceFileExt = ".focus"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".focus", ".fc"}

// REPL defaults
const (
	DefaultPrompt             = "> "
	DefaultContinuationPrompt = ". "
	DefaultHistoryFile        = ".focus_history"
)

// Settings file lookup
const (
	SettingsEnvVar   = "FOCUS_CONFIG"
	SettingsFileName = ".focus.yaml"
)

// Output formats for printed results
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)
