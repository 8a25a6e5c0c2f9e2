package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultFile is read when no path is given.
const DefaultFile = "configs/analyzer.toml"

// Duration is a time.Duration written as a string ("500ms", "1s") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Server struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Debug    bool   `toml:"debug_mode"`
	LogLevel string `toml:"log_level"`
}

func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type API struct {
	BaseURL        string   `toml:"base_url"`
	UserAgent      string   `toml:"user_agent"`
	Timeout        Duration `toml:"timeout"`
	MaxAttempts    int      `toml:"max_attempts"`
	Backoff        Duration `toml:"backoff"`
	ChannelTimeout Duration `toml:"channel_timeout"`
}

type Detector struct {
	Debounce      Duration `toml:"debounce"`
	Placeholders  []string `toml:"placeholders"`
	KnownUsername string   `toml:"known_username"`
}

type Storage struct {
	SqliteFile string `toml:"sqlite_file"`
}

type TgBot struct {
	Enabled          bool   `toml:"enabled"`
	TelegramApiToken string `toml:"token"`
}

type Watch struct {
	URL      string   `toml:"url"`
	Selector string   `toml:"selector"`
	Interval Duration `toml:"interval"`
	Headless bool     `toml:"headless"`
}

type Config struct {
	Server   Server   `toml:"server"`
	API      API      `toml:"api"`
	Detector Detector `toml:"detector"`
	Storage  Storage  `toml:"storage"`
	TgBot    TgBot    `toml:"tgbot"`
	Watch    Watch    `toml:"watch"`
}

func Default() Config {
	return Config{
		Server: Server{
			Host:     "127.0.0.1",
			Port:     8080,
			LogLevel: "info",
		},
		API: API{
			BaseURL:        "https://api.chess.com/pub/player/",
			UserAgent:      "opponentanalyzer",
			Timeout:        Duration{10 * time.Second},
			MaxAttempts:    3,
			Backoff:        Duration{time.Second},
			ChannelTimeout: Duration{5 * time.Second},
		},
		Detector: Detector{
			Debounce:     Duration{500 * time.Millisecond},
			Placeholders: []string{"Opponent"},
		},
		Storage: Storage{
			SqliteFile: "analyzer.sqlite",
		},
		Watch: Watch{
			Selector: ".user-username-component",
			Interval: Duration{time.Second},
			Headless: true,
		},
	}
}

// New reads path (DefaultFile when empty) over the defaults. A missing file
// is not an error. TELEGRAM_APITOKEN overrides the bot token.
func New(path string) (Config, error) {
	if path == "" {
		path = DefaultFile
	}
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	token := os.Getenv("TELEGRAM_APITOKEN")
	if token != "" {
		cfg.TgBot.TelegramApiToken = token
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is empty"))
	}
	if c.API.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("api.max_attempts must be at least 1, got %d", c.API.MaxAttempts))
	}
	if c.Detector.Debounce.Duration < 0 {
		errs = append(errs, errors.New("detector.debounce is negative"))
	}
	if c.TgBot.Enabled && c.TgBot.TelegramApiToken == "" {
		errs = append(errs, errors.New("tgbot.enabled without a token"))
	}
	return errors.Join(errs...)
}
