package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "schedule.json", cfg.Schedule.GroupsFile)
	assert.Equal(t, "%NUM% %LESSON% (%ROOM%)", cfg.Schedule.TextFormat)
	assert.Equal(t, "(Нет пары)", cfg.Schedule.NoLesson)
	assert.Len(t, cfg.Replacements.URLs, 2)
	assert.Equal(t, 30*time.Minute, cfg.Replacements.Cooldown())
	assert.Equal(t, 15*time.Second, cfg.Replacements.Timeout())
	assert.Equal(t, 6, cfg.Replacements.TableColumns)
	assert.Equal(t, "❌ (Отмена/Перенос)", cfg.Replacements.CancelMarker)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
server:
  addr: ":9090"
schedule:
  groups_file: "testdata/groups.json"
replacements:
  urls:
    - "http://first.local/rasp.html"
    - "http://second.local/rasp.html"
  cooldown_minutes: 5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "testdata/groups.json", cfg.Schedule.GroupsFile)
	assert.Equal(t, []string{"http://first.local/rasp.html", "http://second.local/rasp.html"}, cfg.Replacements.URLs)
	assert.Equal(t, 5*time.Minute, cfg.Replacements.Cooldown())
	// untouched fields keep their defaults
	assert.Equal(t, 6, cfg.Replacements.TableColumns)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SCHEDHUB_SERVER__ADDR", ":7000")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_RejectsWrongSourceCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("replacements:\n  urls: [\"http://one.local\"]\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("config.toml")
	assert.Error(t, err)
}
