package timer

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"DialTimer/geometry"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the embedded default configuration.
const DefaultConfigPath = "assets/dial.yaml"

// ConfigEnv names an override config file on disk.
const ConfigEnv = "DIALTIMER_CONFIG"

// AppContentReader defines the interface for reading content from the embedded file system.
type AppContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// Config is the full application configuration.
type Config struct {
	Window       WindowConfig       `yaml:"window"`
	Dial         DialConfig         `yaml:"dial"`
	Palette      PaletteConfig      `yaml:"palette"`
	Labels       LabelConfig        `yaml:"labels"`
	Haptics      HapticsConfig      `yaml:"haptics"`
	Notification NotificationConfig `yaml:"notification"`
}

type WindowConfig struct {
	Title  string  `yaml:"title"`
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// DialConfig drives the geometry and the countdown engine.
type DialConfig struct {
	Radius           float64       `yaml:"radius"`
	Direction        string        `yaml:"direction"`
	TickPeriod       time.Duration `yaml:"tick_period"`
	FinishTickPeriod time.Duration `yaml:"finish_tick_period"`
	FadeDuration     time.Duration `yaml:"fade_duration"`
	FadeRepeat       int           `yaml:"fade_repeat"`
	CenterDotRatio   float32       `yaml:"center_dot_ratio"`
}

// PaletteConfig holds hex colours; alphas are applied on top of Highlight.
type PaletteConfig struct {
	Background     string  `yaml:"background"`
	Highlight      string  `yaml:"highlight"`
	Label          string  `yaml:"label"`
	PreviewAlpha   float64 `yaml:"preview_alpha"`
	RunningAlpha   float64 `yaml:"running_alpha"`
	FinishingAlpha float64 `yaml:"finishing_alpha"`
}

type LabelConfig struct {
	Padding  float32       `yaml:"padding"`
	TextSize float32       `yaml:"text_size"`
	Fade     time.Duration `yaml:"fade"`
}

type HapticsConfig struct {
	Enabled   bool          `yaml:"enabled"`
	PerSecond float64       `yaml:"per_second"`
	Burst     int           `yaml:"burst"`
	Frequency float64       `yaml:"frequency"`
	Click     time.Duration `yaml:"click"`
}

type NotificationConfig struct {
	Title     string `yaml:"title"`
	Body      string `yaml:"body"`
	Sound     bool   `yaml:"sound"`
	SoundFile string `yaml:"sound_file"`
}

// DefaultConfig mirrors assets/dial.yaml and is used when no file can be read.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{Title: "DialTimer", Width: 420, Height: 480},
		Dial: DialConfig{
			Radius:           150,
			Direction:        "clockwise",
			TickPeriod:       time.Second,
			FinishTickPeriod: 500 * time.Microsecond,
			FadeDuration:     300 * time.Millisecond,
			FadeRepeat:       2,
			CenterDotRatio:   0.125,
		},
		Palette: PaletteConfig{
			Background:     "#1e1e1e",
			Highlight:      "#ec2c0f",
			Label:          "#8e8e93",
			PreviewAlpha:   0.3,
			RunningAlpha:   0.9,
			FinishingAlpha: 1,
		},
		Labels:  LabelConfig{Padding: 20, TextSize: 20, Fade: 700 * time.Millisecond},
		Haptics: HapticsConfig{Enabled: true, PerSecond: 25, Burst: 1, Frequency: 1760, Click: 8 * time.Millisecond},
		Notification: NotificationConfig{
			Title: "Time is up!",
			Body:  "Got'em done!",
			Sound: true,
		},
	}
}

// ParseConfig decodes YAML on top of the defaults, so a file only needs the
// keys it changes.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads the embedded default and overlays the user's file when one
// exists. A broken user file is logged and ignored.
func LoadConfig(reader AppContentReader) *Config {
	data, err := reader.ReadFile(DefaultConfigPath)
	if err != nil {
		log.Fatalf("Failed to read default config: %v", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		log.Fatalf("Failed to parse default config: %v", err)
	}

	path := userConfigPath()
	if path == "" {
		return cfg
	}
	override, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Failed to read config %s: %v", path, err)
		}
		return cfg
	}
	merged := *cfg
	if err := yaml.Unmarshal(override, &merged); err != nil {
		log.Printf("Ignoring config %s: %v", path, err)
		return cfg
	}
	if err := merged.Validate(); err != nil {
		log.Printf("Ignoring config %s: %v", path, err)
		return cfg
	}
	log.Printf("Loaded config overrides from %s", path)
	return &merged
}

func userConfigPath() string {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dialtimer", "dial.yaml")
}

// Validate checks the values the engine and the widget rely on.
func (c *Config) Validate() error {
	if _, err := c.Circle(); err != nil {
		return err
	}
	if c.Dial.TickPeriod <= 0 || c.Dial.FinishTickPeriod <= 0 {
		return fmt.Errorf("tick periods must be positive: %v, %v", c.Dial.TickPeriod, c.Dial.FinishTickPeriod)
	}
	if c.Dial.FadeRepeat < 0 {
		return fmt.Errorf("fade_repeat must not be negative: %d", c.Dial.FadeRepeat)
	}
	for _, hex := range []string{c.Palette.Background, c.Palette.Highlight, c.Palette.Label} {
		if _, err := ParseColor(hex, 1); err != nil {
			return err
		}
	}
	if c.Haptics.Enabled && c.Haptics.PerSecond <= 0 {
		return fmt.Errorf("haptics per_second must be positive: %v", c.Haptics.PerSecond)
	}
	return nil
}

// Circle builds the dial geometry.
func (c *Config) Circle() (geometry.Circle, error) {
	dir, err := geometry.ParseDirection(c.Dial.Direction)
	if err != nil {
		return geometry.Circle{}, err
	}
	return geometry.NewCircle(c.Dial.Radius, dir)
}

// ParseColor parses a hex colour and applies alpha in [0, 1].
func ParseColor(hex string, alpha float64) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	r, g, b := c.Clamped().RGB255()
	alpha = math.Max(0, math.Min(1, alpha))
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}, nil
}

// MustColor is ParseColor for values already checked by Validate.
func MustColor(hex string, alpha float64) color.NRGBA {
	col, err := ParseColor(hex, alpha)
	if err != nil {
		log.Printf("Falling back to white: %v", err)
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return col
}
