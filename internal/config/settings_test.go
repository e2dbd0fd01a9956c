package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Prompt != DefaultPrompt || s.ContinuationPrompt != DefaultContinuationPrompt {
		t.Errorf("unexpected prompts %q %q", s.Prompt, s.ContinuationPrompt)
	}
	if s.Output != OutputText || s.Color != nil || s.Trace {
		t.Errorf("unexpected defaults %+v", s)
	}
	if !strings.HasSuffix(s.HistoryFile, DefaultHistoryFile) {
		t.Errorf("history file = %q", s.HistoryFile)
	}
}

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(*Settings) bool
		wantErr string
	}{
		{
			name:  "prompts",
			input: "prompt: \"focus> \"\ncontinuation_prompt: \"...> \"\n",
			check: func(s *Settings) bool { return s.Prompt == "focus> " && s.ContinuationPrompt == "...> " },
		},
		{
			name:  "color off",
			input: "color: false\ntrace: true\n",
			check: func(s *Settings) bool { return s.Color != nil && !*s.Color && s.Trace },
		},
		{
			name:  "output",
			input: "output: yaml\n",
			check: func(s *Settings) bool { return s.Output == OutputYAML },
		},
		{
			name:  "absolute history",
			input: "history_file: /tmp/h\n",
			check: func(s *Settings) bool { return s.HistoryFile == "/tmp/h" },
		},
		{
			name:    "bad output",
			input:   "output: xml\n",
			wantErr: "output must be",
		},
		{
			name:    "malformed",
			input:   "prompt: [unclosed\n",
			wantErr: "parsing cfg.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSettings([]byte(tt.input), "cfg.yaml")
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(s) {
				t.Errorf("unexpected settings %+v", s)
			}
		})
	}
}

func TestSettingsPathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(SettingsEnvVar, path)
	if got := SettingsPath(); got != path {
		t.Errorf("SettingsPath() = %q, want %q", got, path)
	}

	if err := os.WriteFile(path, []byte("output: json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSettings(SettingsPath())
	if err != nil {
		t.Fatal(err)
	}
	if s.Output != OutputJSON {
		t.Errorf("output = %q", s.Output)
	}
}

func TestHomeRelativeHistory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	s, err := ParseSettings([]byte("history_file: ~/hist\n"), "cfg.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if s.HistoryFile != filepath.Join(home, "hist") {
		t.Errorf("history file = %q", s.HistoryFile)
	}
}
