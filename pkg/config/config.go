// Package config defines the runtime configuration of the schedule
// service. Every constant the engine depends on (upstream URLs, cooldown,
// table schema, marker strings) lives here so tests can substitute fakes.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server       Server       `json:"server"`
	Schedule     Schedule     `json:"schedule"`
	Replacements Replacements `json:"replacements"`
}

type Server struct {
	Addr          string `json:"addr"`
	TemplatesGlob string `json:"templates_glob"`
}

type Schedule struct {
	GroupsFile   string `json:"groups_file"`
	TeachersFile string `json:"teachers_file"` // optional, empty disables teacher queries
	TextFormat   string `json:"text_format"`   // line template for the text/widget output
	NoLesson     string `json:"no_lesson"`     // sentinel excluded from day schedules
}

type Replacements struct {
	URLs            []string `json:"urls"`
	CooldownMinutes int      `json:"cooldown_minutes"`
	TimeoutSeconds  int      `json:"timeout_seconds"`
	TableColumns    int      `json:"table_columns"`
	CancelMarker    string   `json:"cancel_marker"`
	DateMarker      string   `json:"date_marker"` // word locating the announcement text
}

func (r Replacements) Cooldown() time.Duration { return time.Duration(r.CooldownMinutes) * time.Minute }
func (r Replacements) Timeout() time.Duration  { return time.Duration(r.TimeoutSeconds) * time.Second }

func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.TemplatesGlob == "" {
		c.Server.TemplatesGlob = "templates/*.html"
	}
	if c.Schedule.GroupsFile == "" {
		c.Schedule.GroupsFile = "schedule.json"
	}
	if c.Schedule.TextFormat == "" {
		c.Schedule.TextFormat = "%NUM% %LESSON% (%ROOM%)"
	}
	if c.Schedule.NoLesson == "" {
		c.Schedule.NoLesson = "(Нет пары)"
	}
	if len(c.Replacements.URLs) == 0 {
		c.Replacements.URLs = []string{
			"https://menu.sttec.yar.ru/timetable/rasp_first.html",
			"https://menu.sttec.yar.ru/timetable/rasp_second.html",
		}
	}
	if c.Replacements.CooldownMinutes == 0 {
		c.Replacements.CooldownMinutes = 30
	}
	if c.Replacements.TimeoutSeconds == 0 {
		c.Replacements.TimeoutSeconds = 15
	}
	if c.Replacements.TableColumns == 0 {
		c.Replacements.TableColumns = 6
	}
	if c.Replacements.CancelMarker == "" {
		c.Replacements.CancelMarker = "❌ (Отмена/Перенос)"
	}
	if c.Replacements.DateMarker == "" {
		c.Replacements.DateMarker = "изменения"
	}
}

func (c *Config) Validate() error {
	if len(c.Replacements.URLs) != 2 {
		return fmt.Errorf("replacements: expected exactly 2 upstream urls, got %d", len(c.Replacements.URLs))
	}
	if c.Replacements.CooldownMinutes < 0 {
		return fmt.Errorf("replacements: cooldown_minutes must not be negative")
	}
	if c.Replacements.TimeoutSeconds <= 0 {
		return fmt.Errorf("replacements: timeout_seconds must be positive")
	}
	if c.Replacements.TableColumns < 6 {
		return fmt.Errorf("replacements: table_columns must be at least 6, got %d", c.Replacements.TableColumns)
	}
	return nil
}

// Load reads configuration from an optional yaml/json file, applies
// SCHEDHUB_-prefixed environment overrides (double underscore separates
// nesting levels) and fills defaults. An empty path yields the defaults
// plus environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("SCHEDHUB_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "schedhub_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
