package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	Playlist     []string     `yaml:"playlist"`
	StorageParam StorageParam `yaml:"storage"`
	DecodeParam  DecodeParam  `yaml:"decode"`
	DisplayParam DisplayParam `yaml:"display"`
	InputParam   InputParam   `yaml:"input"`
}

type StorageParam struct {
	MediaRoot string `yaml:"media_root"`
	MountWait int64  `yaml:"mount_wait_s"`
}

type DecodeParam struct {
	Scale     int  `yaml:"scale"`
	SwapBytes bool `yaml:"swap_bytes"`
}

type DisplayParam struct {
	Bus                 string `yaml:"bus"`
	I2cBus              string `yaml:"i2c_bus"`
	SpiPort             string `yaml:"spi_port"`
	DcPin               string `yaml:"dc_pin"`
	Width               int    `yaml:"width"`
	Height              int    `yaml:"height"`
	Rotated             bool   `yaml:"rotated"`
	BootColor           string `yaml:"boot_color"`
	TransitionColor     string `yaml:"transition_color"`
	TextColor           string `yaml:"text_color"`
	TextBackgroundColor string `yaml:"text_background_color"`
}

type InputParam struct {
	PollInterval  int64      `yaml:"poll_interval_ms"`
	MoveThreshold int        `yaml:"move_threshold"`
	TouchParam    TouchParam `yaml:"touch"`
	Buttons       []string   `yaml:"buttons"`
}

type TouchParam struct {
	Enabled bool   `yaml:"enabled"`
	I2cBus  string `yaml:"i2c_bus"`
	Address uint16 `yaml:"address"`
}

const (
	I2C_BUS = "i2c"
	SPI_BUS = "spi"
)

func (sp *ServerParam) Validate() error {
	if len(sp.Playlist) == 0 {
		return fmt.Errorf("playlist is empty")
	}
	for i, identifier := range sp.Playlist {
		if strings.TrimSpace(identifier) == "" {
			return fmt.Errorf("playlist entry %d is blank", i+1)
		}
	}

	switch sp.DecodeParam.Scale {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("decode scale must be 1, 2, 4 or 8, got %d", sp.DecodeParam.Scale)
	}

	switch sp.DisplayParam.Bus {
	case I2C_BUS:
	case SPI_BUS:
		if sp.DisplayParam.DcPin == "" {
			return fmt.Errorf("display dc_pin is required on spi bus")
		}
	default:
		return fmt.Errorf("unknown display bus %q", sp.DisplayParam.Bus)
	}
	if sp.DisplayParam.Width <= 0 || sp.DisplayParam.Height <= 0 {
		return fmt.Errorf("invalid display size %dx%d", sp.DisplayParam.Width, sp.DisplayParam.Height)
	}
	for name, value := range map[string]string{
		"boot_color":            sp.DisplayParam.BootColor,
		"transition_color":      sp.DisplayParam.TransitionColor,
		"text_color":            sp.DisplayParam.TextColor,
		"text_background_color": sp.DisplayParam.TextBackgroundColor,
	} {
		if _, err := ParseColor(value); err != nil {
			return fmt.Errorf("display %s: %w", name, err)
		}
	}

	if sp.InputParam.PollInterval <= 0 {
		return fmt.Errorf("input poll_interval_ms must be positive, got %d", sp.InputParam.PollInterval)
	}
	if sp.InputParam.MoveThreshold < 0 {
		return fmt.Errorf("input move_threshold must not be negative, got %d", sp.InputParam.MoveThreshold)
	}

	return nil
}

func (sp *ServerParam) PollInterval() time.Duration {
	return time.Duration(sp.InputParam.PollInterval) * time.Millisecond
}

func (sp *ServerParam) MountWait() time.Duration {
	return time.Duration(sp.StorageParam.MountWait) * time.Second
}

func (dp DisplayParam) Colors() (boot, transition, text, textBackground color.RGBA) {
	boot, _ = ParseColor(dp.BootColor)
	transition, _ = ParseColor(dp.TransitionColor)
	text, _ = ParseColor(dp.TextColor)
	textBackground, _ = ParseColor(dp.TextBackgroundColor)
	return
}

// ParseColor reads an opaque "#RRGGBB" color
func ParseColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("color %q is not #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q is not #RRGGBB: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
