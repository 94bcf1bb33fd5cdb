package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Locale != "en" {
		t.Errorf("default locale = %q, want %q", cfg.Locale, "en")
	}
	if cfg.LocalesDir != ".contactbus/locales" {
		t.Errorf("default locales dir = %q, want %q", cfg.LocalesDir, ".contactbus/locales")
	}
	if !cfg.UI.AltScreen {
		t.Error("default alt screen = false, want true")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default log level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Log.File != "" {
		t.Errorf("default log file = %q, want empty", cfg.Log.File)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(`
locale: de
locales_dir: /tmp/locales
ui:
  alt_screen: false
log:
  level: debug
  file: /tmp/contactbus.log
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Locale != "de" {
		t.Errorf("locale = %q, want %q", cfg.Locale, "de")
	}
	if cfg.LocalesDir != "/tmp/locales" {
		t.Errorf("locales dir = %q, want %q", cfg.LocalesDir, "/tmp/locales")
	}
	if cfg.UI.AltScreen {
		t.Error("alt screen = true, want false")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.File != "/tmp/contactbus.log" {
		t.Errorf("log file = %q, want %q", cfg.Log.File, "/tmp/contactbus.log")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(missing) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load(invalid YAML) should return error")
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(`
log:
  level: warn
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "warn")
	}
	// Unset fields should retain defaults.
	if cfg.Locale != "en" {
		t.Errorf("locale = %q, want default %q", cfg.Locale, "en")
	}
	if !cfg.UI.AltScreen {
		t.Error("alt screen = false, want default true")
	}
}

func TestLoad_LayeredPriority(t *testing.T) {
	// Setup: user config sets locale and log level, project config overrides the level.
	userDir := t.TempDir()
	projectDir := t.TempDir()

	userCfg := filepath.Join(userDir, "config.yaml")
	if err := os.WriteFile(userCfg, []byte(`
locale: de
log:
  level: debug
`), 0o644); err != nil {
		t.Fatal(err)
	}

	projectCfg := filepath.Join(projectDir, "config.yaml")
	if err := os.WriteFile(projectCfg, []byte(`
log:
  level: error
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLayered(userCfg, projectCfg)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	// Locale from user config (project doesn't set it).
	if cfg.Locale != "de" {
		t.Errorf("locale = %q, want %q", cfg.Locale, "de")
	}
	// Level from project config (overrides user).
	if cfg.Log.Level != "error" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "error")
	}
	// LocalesDir retains default when neither layer sets it.
	if cfg.LocalesDir != ".contactbus/locales" {
		t.Errorf("locales dir = %q, want default %q", cfg.LocalesDir, ".contactbus/locales")
	}
}

func TestLoadLayered_InvalidLayer(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(bad, []byte("locale: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadLayered("/no/user.yaml", bad); err == nil {
		t.Fatal("LoadLayered() should fail when a layer is invalid")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name  string
		envs  map[string]string
		check func(*testing.T, Config)
	}{
		{
			name: "CONTACTBUS_LOCALE overrides locale",
			envs: map[string]string{"CONTACTBUS_LOCALE": "de"},
			check: func(t *testing.T, c Config) {
				if c.Locale != "de" {
					t.Errorf("locale = %q, want %q", c.Locale, "de")
				}
			},
		},
		{
			name: "CONTACTBUS_LOCALES_DIR overrides locales dir",
			envs: map[string]string{"CONTACTBUS_LOCALES_DIR": "/custom/locales"},
			check: func(t *testing.T, c Config) {
				if c.LocalesDir != "/custom/locales" {
					t.Errorf("locales dir = %q, want %q", c.LocalesDir, "/custom/locales")
				}
			},
		},
		{
			name: "CONTACTBUS_LOG_LEVEL and CONTACTBUS_LOG_FILE override log settings",
			envs: map[string]string{"CONTACTBUS_LOG_LEVEL": "debug", "CONTACTBUS_LOG_FILE": "/tmp/x.log"},
			check: func(t *testing.T, c Config) {
				if c.Log.Level != "debug" {
					t.Errorf("log level = %q, want %q", c.Log.Level, "debug")
				}
				if c.Log.File != "/tmp/x.log" {
					t.Errorf("log file = %q, want %q", c.Log.File, "/tmp/x.log")
				}
			},
		},
		{
			name: "empty variables leave defaults",
			envs: map[string]string{"CONTACTBUS_LOCALE": ""},
			check: func(t *testing.T, c Config) {
				if c != DefaultConfig() {
					t.Errorf("config = %+v, want defaults", c)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			cfg.ApplyEnv()
			tt.check(t, cfg)
		})
	}
}

func TestLoad_UnknownField(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(`
log:
  levl: debug
`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load() should return error for unknown field 'levl'")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:   "uppercase level accepted",
			modify: func(c *Config) { c.Log.Level = "DEBUG" },
		},
		{
			name:    "empty locale",
			modify:  func(c *Config) { c.Locale = "" },
			wantErr: true,
		},
		{
			name:    "locale with path separator",
			modify:  func(c *Config) { c.Locale = "../etc/passwd" },
			wantErr: true,
		},
		{
			name:    "dot-dot locale",
			modify:  func(c *Config) { c.Locale = ".." },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_CommentOnlyFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("# just a comment\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(comment-only) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(comment-only) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_AllMissing(t *testing.T) {
	cfg, err := LoadLayered("/no/user.yaml", "/no/project.yaml")
	if err != nil {
		t.Fatalf("LoadLayered(all missing) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("got %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(empty) = %+v, want defaults %+v", *cfg, want)
	}
}
