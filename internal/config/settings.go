package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are user preferences for the command line tool.
//
//	prompt: "focus> "
//	continuation_prompt: "...... "
//	history_file: ~/.focus_history
//	color: false
//	trace: false
//	output: json
type Settings struct {
	Prompt             string `yaml:"prompt,omitempty"`
	ContinuationPrompt string `yaml:"continuation_prompt,omitempty"`
	HistoryFile        string `yaml:"history_file,omitempty"`

	// Color enables coloured errors in the REPL. Nil means colour only when
	// stdout is a terminal.
	Color *bool `yaml:"color,omitempty"`

	Trace  bool   `yaml:"trace,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.setDefaults()
	return s
}

// SettingsPath returns $FOCUS_CONFIG, or ~/.focus.yaml.
func SettingsPath() string {
	if p := os.Getenv(SettingsEnvVar); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return SettingsFileName
	}
	return filepath.Join(home, SettingsFileName)
}

// LoadSettings reads the settings file at path. A missing file yields the
// defaults.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	return ParseSettings(data, path)
}

// ParseSettings parses settings YAML. The path is used only in errors.
func ParseSettings(data []byte, path string) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.validate(path); err != nil {
		return nil, err
	}
	s.setDefaults()
	return &s, nil
}

func (s *Settings) validate(path string) error {
	switch s.Output {
	case "", OutputText, OutputJSON, OutputYAML:
		return nil
	}
	return fmt.Errorf("%s: output must be %s, %s or %s, got %q", path, OutputText, OutputJSON, OutputYAML, s.Output)
}

func (s *Settings) setDefaults() {
	if s.Prompt == "" {
		s.Prompt = DefaultPrompt
	}
	if s.ContinuationPrompt == "" {
		s.ContinuationPrompt = DefaultContinuationPrompt
	}
	if s.Output == "" {
		s.Output = OutputText
	}
	if s.HistoryFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			s.HistoryFile = filepath.Join(home, DefaultHistoryFile)
		} else {
			s.HistoryFile = DefaultHistoryFile
		}
	} else if rest, ok := cutHome(s.HistoryFile); ok {
		if home, err := os.UserHomeDir(); err == nil {
			s.HistoryFile = filepath.Join(home, rest)
		}
	}
}

func cutHome(p string) (string, bool) {
	if p == "~" {
		return "", true
	}
	if len(p) > 2 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator) {
		return p[2:], true
	}
	return "", false
}
