package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/flatpages/internal/errors"
)

func TestLoad_MissingFile_UsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	require.Equal(t, "pages", cfg.Pages.Root)
	require.Equal(t, ".html", cfg.Pages.Extension)
	require.Equal(t, "utf-8", cfg.Pages.Encoding)
	require.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pages:
  root: content
  extension: .md
server:
  port: 9000
  reload_interval: 30s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "content", cfg.Pages.Root)
	require.Equal(t, ".md", cfg.Pages.Extension)
	require.Equal(t, "utf-8", cfg.Pages.Encoding) // default survives partial file
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, 30*time.Second, cfg.Server.ReloadInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FLATPAGES_ROOT", "/srv/pages")
	t.Setenv("FLATPAGES_EXTENSION", ".txt")
	t.Setenv("FLATPAGES_PORT", "9999")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/srv/pages", cfg.Pages.Root)
	require.Equal(t, ".txt", cfg.Pages.Extension)
	require.Equal(t, 9999, cfg.Server.Port)
}

func TestLoad_MalformedYAML_IsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pages: [unbalanced"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Equal(t, derrors.CategoryConfig, derrors.GetCategory(err))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty root", func(c *Config) { c.Pages.Root = " " }, false},
		{"extension without dot", func(c *Config) { c.Pages.Extension = "html" }, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, false},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, false},
		{"negative reload interval", func(c *Config) { c.Server.ReloadInterval = -time.Second }, false},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }, false},
		{"debug level", func(c *Config) { c.Logging.Level = "debug" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.Equal(t, derrors.CategoryConfig, derrors.GetCategory(err))
			}
		})
	}
}
