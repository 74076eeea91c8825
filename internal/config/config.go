// Package config loads and stores the signpad TOML configuration.
package config

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"SignaturePad/internal/signature"
)

const (
	appDir     = "signpad"
	configFile = "config.toml"
)

type Config struct {
	Surface Surface `toml:"surface"`
	Field   Field   `toml:"field"`
	Relay   Relay   `toml:"relay"`
	Storage Storage `toml:"storage"`
}

type Surface struct {
	Height       int     `toml:"height"`
	DefaultWidth int     `toml:"default_width"`
	StrokeColor  string  `toml:"stroke_color"`
	StrokeWidth  float32 `toml:"stroke_width"`
	LineCap      string  `toml:"line_cap"`
	LineJoin     string  `toml:"line_join"`
}

type Field struct {
	Name string `toml:"name"`
}

type Relay struct {
	// Address of a receiving host. Empty means signatures are stored locally.
	Address  string `toml:"address"`
	Port     int    `toml:"port"`
	Discover bool   `toml:"discover"`
}

type Storage struct {
	DataDir string `toml:"data_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Surface: Surface{
			Height:       signature.DefaultHeight,
			DefaultWidth: signature.DefaultWidth,
			StrokeColor:  "#000000",
			StrokeWidth:  2,
			LineCap:      "round",
			LineJoin:     "round",
		},
		Field: Field{Name: "signature"},
		Relay: Relay{Port: 8888},
		Storage: Storage{
			DataDir: filepath.Join(xdgOrFallback("XDG_DATA_HOME", filepath.Join(os.Getenv("HOME"), ".local", "share")), appDir),
		},
	}
}

// Dir is the directory holding config.toml.
func Dir() string {
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", filepath.Join(os.Getenv("HOME"), ".config")), appDir)
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), configFile)
}

// Load reads path on top of the defaults. A missing file is created with
// the defaults.
func Load(path string) (Config, error) {
	conf := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("[CONFIG] Initializing %s", path)
		if err := Write(path, conf); err != nil {
			return conf, err
		}
		return conf, nil
	} else if err != nil {
		return conf, fmt.Errorf("checking config file: %w", err)
	}

	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return conf, fmt.Errorf("reading config file: %w", err)
	}
	if _, err := conf.Surface.Style(); err != nil {
		return conf, err
	}
	return conf, nil
}

// Write stores conf at path, creating its directory.
func Write(path string, conf Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(conf); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Style converts the surface section into a pen.
func (s Surface) Style() (signature.Style, error) {
	style := signature.DefaultStyle
	if s.StrokeColor != "" {
		c, err := parseHexColor(s.StrokeColor)
		if err != nil {
			return style, err
		}
		style.Color = c
	}
	if s.StrokeWidth > 0 {
		style.Width = s.StrokeWidth
	}
	switch strings.ToLower(s.LineCap) {
	case "", "round":
		style.Cap = signature.CapRound
	case "butt":
		style.Cap = signature.CapButt
	default:
		return style, fmt.Errorf("unknown line_cap %q", s.LineCap)
	}
	switch strings.ToLower(s.LineJoin) {
	case "", "round":
		style.Join = signature.JoinRound
	case "bevel":
		style.Join = signature.JoinBevel
	default:
		return style, fmt.Errorf("unknown line_join %q", s.LineJoin)
	}
	return style, nil
}

// PadConfig builds the pad configuration for the configured field.
func (c Config) PadConfig(readOnly bool) signature.Config {
	style, err := c.Surface.Style()
	if err != nil {
		log.Printf("[CONFIG] %v, using default pen", err)
		style = signature.DefaultStyle
	}
	return signature.Config{
		Field:        c.Field.Name,
		ReadOnly:     readOnly,
		Style:        style,
		Height:       c.Surface.Height,
		DefaultWidth: c.Surface.DefaultWidth,
	}
}

func parseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	c := color.NRGBA{A: 0xff}
	var err error
	switch len(hex) {
	case 6:
		_, err = fmt.Sscanf(hex, "%2x%2x%2x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(hex, "%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = fmt.Errorf("want 6 or 8 hex digits")
	}
	if err != nil {
		return c, fmt.Errorf("invalid stroke_color %q: %w", s, err)
	}
	return c, nil
}

func xdgOrFallback(xdg string, fallback string) string {
	if dir := os.Getenv(xdg); dir != "" {
		return dir
	}
	return fallback
}
