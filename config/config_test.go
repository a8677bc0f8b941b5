package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TzzJokerzzT/article-manager/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	conf, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, DefaultStoragePath(), conf.Storage.Path)
	assert.True(t, conf.Seed.Enabled)
	assert.Equal(t, "user-1", conf.User.Default)
	assert.Equal(t, "info", conf.Log.Level)
	assert.Equal(t, 10, conf.Page.Limit)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
storage:
  path: /tmp/articles.db
seed:
  enabled: false
log:
  level: debug
`)

	conf, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/articles.db", conf.Storage.Path)
	assert.False(t, conf.Seed.Enabled)
	assert.Equal(t, "debug", conf.Log.Level)
	assert.Equal(t, "console", conf.Log.Format, "keys absent from the file keep their default")
	assert.Equal(t, "user-1", conf.User.Default)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "user:\n  default: from-file\npage:\n  limit: 20\n")
	t.Setenv("ARTICLES_USER_DEFAULT", "from-env")

	conf, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "from-env", conf.User.Default)
	assert.Equal(t, 20, conf.Page.Limit)
}

func TestLoad_DotEnvFile(t *testing.T) {
	envFile := writeFile(t, ".env", "ARTICLES_CATALOG_PATH=/etc/categories.yaml\n")
	t.Cleanup(func() { os.Unsetenv("ARTICLES_CATALOG_PATH") })

	conf, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "/etc/categories.yaml", conf.Catalog.Path)
}

func TestLoad_MissingFiles(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	assert.ErrorContains(t, err, "failed to load config file")
}

func TestLoad_Invalid(t *testing.T) {
	path := writeFile(t, "config.yaml", "page:\n  limit: 500\n")

	_, err := Load(path, "")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "page.limit", verr.Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{name: "default is valid", edit: func(*Config) {}},
		{name: "empty storage path", edit: func(c *Config) { c.Storage.Path = " " }, field: "storage.path"},
		{name: "empty user", edit: func(c *Config) { c.User.Default = "" }, field: "user.default"},
		{name: "zero page limit", edit: func(c *Config) { c.Page.Limit = 0 }, field: "page.limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.edit(c)
			err := c.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
