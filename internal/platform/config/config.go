package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa toda la configuración del servicio y del CLI.
// Fuentes (de menor a mayor prioridad): defaults, archivo YAML, env.
type Config struct {
	Port string `mapstructure:"port"`

	App AppConfig `mapstructure:"app"`
	Log LogConfig `mapstructure:"log"`
	DB  DBConfig  `mapstructure:"db"`

	Image     ImageConfig     `mapstructure:"image"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Inference InferenceConfig `mapstructure:"inference"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Proxy     ProxyConfig     `mapstructure:"proxy"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

type ImageConfig struct {
	// Dir: si viene, la imagen actual se guarda en disco.
	Dir string `mapstructure:"dir"`
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type InferenceConfig struct {
	Provider  string        `mapstructure:"provider"` // openai | gemini
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ScheduleConfig struct {
	Timezone string `mapstructure:"timezone"`

	// Hours sobreescribe la tabla frecuencia -> horas. Solo vía archivo:
	//   schedule:
	//     hours:
	//       "1": [9]
	//       "2": [9, 21]
	Hours map[string][]int `mapstructure:"hours"`
}

type CalendarConfig struct {
	Marker string `mapstructure:"marker"`
	ID     string `mapstructure:"id"`
}

type ProxyConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var ErrInvalidConfig = errors.New("invalid config")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("app.name", "pill-reminder")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("db.dsn", "")
	v.SetDefault("image.dir", "")
	v.SetDefault("upload.max_bytes", int64(10<<20))

	v.SetDefault("inference.provider", ProviderOpenAI)
	// base_url y model vacíos => default de cada adapter
	v.SetDefault("inference.base_url", "")
	v.SetDefault("inference.api_key", "")
	v.SetDefault("inference.model", "")
	v.SetDefault("inference.max_tokens", 2048)
	v.SetDefault("inference.timeout", 60*time.Second)

	v.SetDefault("schedule.timezone", "")
	v.SetDefault("calendar.marker", "PILL_REMINDER")
	v.SetDefault("calendar.id", "primary")
	v.SetDefault("proxy.timeout", time.Duration(0))
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// Load lee la configuración. path vacío => solo defaults + env
// (CONFIG_FILE también puede indicar el archivo).
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = strings.TrimSpace(v.GetString("config_file"))
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	// CORS_ALLOWED_ORIGINS llega como string CSV desde env.
	cfg.CORS.AllowedOrigins = splitCSV(cfg.CORS.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Inference.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("%w: unknown inference.provider %q", ErrInvalidConfig, c.Inference.Provider)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("%w: upload.max_bytes must be > 0", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.HourTable(); err != nil {
		return err
	}
	return nil
}

// Location resuelve schedule.timezone; vacío => hora local del proceso.
func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Schedule.Timezone)
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule.timezone: %v", ErrInvalidConfig, err)
	}
	return loc, nil
}

// HourTable convierte schedule.hours a map[int][]int. nil => usar la tabla por defecto.
// La validación de rangos la hace el scheduler.
func (c Config) HourTable() (map[int][]int, error) {
	if len(c.Schedule.Hours) == 0 {
		return nil, nil
	}
	out := make(map[int][]int, len(c.Schedule.Hours))
	for k, hours := range c.Schedule.Hours {
		freq, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("%w: schedule.hours key %q is not an integer", ErrInvalidConfig, k)
		}
		sorted := append([]int(nil), hours...)
		sort.Ints(sorted)
		out[freq] = sorted
	}
	return out, nil
}

func splitCSV(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, p := range strings.Split(item, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
