// config.go defines the player configuration, its command line flags and its YAML file form.

package hwplayer

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/xaionaro-go/hwplayer/decoder"
	"github.com/xaionaro-go/hwplayer/imagecache"
	"gopkg.in/yaml.v3"
)

const (
	defaultSleepInterval = 10 * time.Millisecond
	defaultWidth         = 1920
	defaultHeight        = 1080
)

// DemuxerKind selects the implementation reading the input file.
type DemuxerKind int

const (
	DemuxerKindLibav = DemuxerKind(iota)
	DemuxerKindMP4

	// DemuxerKindAuto picks mp4 for local MP4 files and libav for everything else.
	DemuxerKindAuto
	endOfDemuxerKind
)

func (k DemuxerKind) String() string {
	switch k {
	case DemuxerKindLibav:
		return "libav"
	case DemuxerKindMP4:
		return "mp4"
	case DemuxerKindAuto:
		return "auto"
	}
	return fmt.Sprintf("unknown_%d", int(k))
}

func (k *DemuxerKind) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for v := range endOfDemuxerKind {
		if v.String() == s {
			*k = v
			return nil
		}
	}
	return fmt.Errorf("unknown demuxer '%s'", s)
}

func (k *DemuxerKind) Type() string {
	return "demuxer"
}

func (k *DemuxerKind) UnmarshalText(b []byte) error {
	return k.Set(string(b))
}

func (k DemuxerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Config struct {
	Demuxer DemuxerKind `yaml:"demuxer"`

	// Width and Height are the size of the presentation surface.
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`

	// SleepInterval is how long the loop sleeps after each iteration.
	SleepInterval time.Duration `yaml:"sleep_interval"`

	Overrides imagecache.Overrides `yaml:"overrides"`
	Decoder   decoder.Config       `yaml:"decoder"`

	// Console enables reading override commands from stdin.
	Console bool `yaml:"console"`

	MPPLibraryPath  string `yaml:"mpp_library_path"`
	EGLLibraryPath  string `yaml:"egl_library_path"`
	GLESLibraryPath string `yaml:"gles_library_path"`

	// Now is the wall clock of the playback; time.Now if nil.
	Now func() time.Time `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		Demuxer:       DemuxerKindLibav,
		Width:         defaultWidth,
		Height:        defaultHeight,
		SleepInterval: defaultSleepInterval,
		Decoder:       decoder.DefaultConfig(),
	}
}

// AddFlags binds the configuration fields to command line flags; the
// current values are the defaults.
func (cfg *Config) AddFlags(fs *pflag.FlagSet) {
	fs.Var(&cfg.Demuxer, "demuxer", "the demuxer implementation: libav|mp4|auto")
	fs.Uint32Var(&cfg.Width, "width", cfg.Width, "the width of the presentation surface")
	fs.Uint32Var(&cfg.Height, "height", cfg.Height, "the height of the presentation surface")
	fs.DurationVar(&cfg.SleepInterval, "sleep-interval", cfg.SleepInterval, "the pause after each iteration of the playback loop")
	fs.Var(&cfg.Overrides.ColorSpace, "color-space", "the color space hint: auto|rec601|rec709|rec2020")
	fs.Var(&cfg.Overrides.ColorRange, "color-range", "the color range hint: auto|full|narrow")
	fs.BoolVar(&cfg.Decoder.SplitMode, "split-mode", cfg.Decoder.SplitMode, "let the decoder split the input into frames")
	fs.IntVar(&cfg.Decoder.InitialPacketBufferSize, "packet-buffer-size", cfg.Decoder.InitialPacketBufferSize, "the initial size of the decoder input buffer")
	fs.BoolVar(&cfg.Console, "console", cfg.Console, "read 'space <hint>' and 'range <hint>' commands from stdin")
	fs.StringVar(&cfg.MPPLibraryPath, "mpp-library", cfg.MPPLibraryPath, "the path to librockchip_mpp")
	fs.StringVar(&cfg.EGLLibraryPath, "egl-library", cfg.EGLLibraryPath, "the path to libEGL")
	fs.StringVar(&cfg.GLESLibraryPath, "gles-library", cfg.GLESLibraryPath, "the path to libGLESv2")
}

// LoadConfigFile overwrites the fields of cfg that are set in the YAML file.
func LoadConfigFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read the config file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("unable to parse the config file '%s': %w", path, err)
	}
	return nil
}

func (cfg Config) sleepInterval() time.Duration {
	if cfg.SleepInterval <= 0 {
		return defaultSleepInterval
	}
	return cfg.SleepInterval
}
