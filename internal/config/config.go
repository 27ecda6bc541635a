package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// DefaultPath is where Load looks for a config file when no explicit path
// is given. A missing file at this path is not an error.
const DefaultPath = "clipmill.toml"

// WebM holds the fixed-quality settings for the single-output converter.
type WebM struct {
	CRF     int    `toml:"crf"`
	Bitrate string `toml:"bitrate"`
}

// GIF holds the settings for the multi-variant batch converter. Scales is
// the ordered list of target output widths; PaletteScale is the width used
// to seed the shared palette.
type GIF struct {
	Scales       []int `toml:"scales"`
	FPS          int   `toml:"fps"`
	PaletteScale int   `toml:"palette_scale"`
}

// Extract holds the settings for detection-based clip extraction.
type Extract struct {
	MaxGapSeconds float64 `toml:"max_gap_seconds"`
}

type Config struct {
	WebM    WebM    `toml:"webm"`
	GIF     GIF     `toml:"gif"`
	Extract Extract `toml:"extract"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		WebM: WebM{
			CRF:     15,
			Bitrate: "1M",
		},
		GIF: GIF{
			Scales:       []int{800, 500, 200},
			FPS:          15,
			PaletteScale: 200,
		},
		Extract: Extract{
			MaxGapSeconds: 0.2,
		},
	}
}

// Load reads the config file at path, or at DefaultPath when path is empty.
// An absent file is only an error when the path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "failed to read config file")
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config file %s", path)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.WebM.CRF < 0 || c.WebM.CRF > 63 {
		return errors.Errorf("webm crf %d out of range (0-63)", c.WebM.CRF)
	}
	if c.WebM.Bitrate == "" {
		return errors.New("webm bitrate must not be empty")
	}

	if len(c.GIF.Scales) == 0 {
		return errors.New("gif scales must not be empty")
	}
	if i := slices.IndexFunc(c.GIF.Scales, func(s int) bool { return s <= 0 }); i >= 0 {
		return errors.Errorf("gif scale %d must be positive", c.GIF.Scales[i])
	}
	if c.GIF.FPS <= 0 {
		return errors.Errorf("gif fps %d must be positive", c.GIF.FPS)
	}
	if c.GIF.PaletteScale <= 0 {
		return errors.Errorf("gif palette_scale %d must be positive", c.GIF.PaletteScale)
	}

	if c.Extract.MaxGapSeconds < 0 {
		return errors.Errorf("extract max_gap_seconds %f must not be negative", c.Extract.MaxGapSeconds)
	}

	return nil
}
