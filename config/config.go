package config

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/uyouii/ratebands/common"
	"gopkg.in/yaml.v3"
)

const envPrefix = "RATEBANDS_"

type WindowOptions struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

type NodeOptions struct {
	Node int    `yaml:"node"`
	Mode string `yaml:"mode"`
}

// Options is the file/env form of a run. Empty XLim/YLim mean auto; XLim is
// in time before present, like Window.
type Options struct {
	Rate    string         `yaml:"rate"`
	Central string         `yaml:"central"`
	Levels  []float64      `yaml:"levels"`
	Bins    int            `yaml:"bins"`
	Window  *WindowOptions `yaml:"window"`
	Node    *NodeOptions   `yaml:"node"`

	Smooth bool    `yaml:"smooth"`
	Span   float64 `yaml:"span"`
	Degree int     `yaml:"degree"`
	Kernel string  `yaml:"kernel"`

	XLim         []float64 `yaml:"xlim"`
	YLim         []float64 `yaml:"ylim"`
	XTicks       int       `yaml:"xticks"`
	YTicks       int       `yaml:"yticks"`
	BandColor    string    `yaml:"band_color"`
	BandOpacity  float64   `yaml:"band_opacity"`
	CentralColor string    `yaml:"central_color"`
	LineWidth    float64   `yaml:"line_width"`
	AxisLabels   bool      `yaml:"axis_labels"`

	Collect bool   `yaml:"collect"`
	Overlay bool   `yaml:"overlay"`
	Format  string `yaml:"format"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
}

func Default() *Options {
	return &Options{
		Rate:         "speciation",
		Central:      "mean",
		Bins:         100,
		Span:         0.2,
		Degree:       2,
		Kernel:       "tricube",
		XTicks:       5,
		YTicks:       5,
		BandColor:    "blue",
		BandOpacity:  0.01,
		CentralColor: "red",
		LineWidth:    3,
		AxisLabels:   true,
		Format:       "png",
		Width:        800,
		Height:       600,
	}
}

// Load starts from Default, applies the YAML file at path (if any), then the
// RATEBANDS_* environment, reading a .env file first when one exists.
func Load(path string) (*Options, error) {
	opts := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, opts); err != nil {
			return nil, common.InvalidArgument("parse config %s: %v", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err := opts.applyEnv(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *Options) applyEnv() error {
	var err error
	o.Rate = getEnvOrDefault(envPrefix+"RATE", o.Rate)
	o.Central = getEnvOrDefault(envPrefix+"CENTRAL", o.Central)
	o.Kernel = getEnvOrDefault(envPrefix+"KERNEL", o.Kernel)
	o.Format = getEnvOrDefault(envPrefix+"FORMAT", o.Format)
	o.BandColor = getEnvOrDefault(envPrefix+"BAND_COLOR", o.BandColor)
	o.CentralColor = getEnvOrDefault(envPrefix+"CENTRAL_COLOR", o.CentralColor)

	if o.Bins, err = getEnvIntOrDefault(envPrefix+"BINS", o.Bins); err != nil {
		return err
	}
	if o.Width, err = getEnvIntOrDefault(envPrefix+"WIDTH", o.Width); err != nil {
		return err
	}
	if o.Height, err = getEnvIntOrDefault(envPrefix+"HEIGHT", o.Height); err != nil {
		return err
	}
	if o.Span, err = getEnvFloatOrDefault(envPrefix+"SPAN", o.Span); err != nil {
		return err
	}
	if o.BandOpacity, err = getEnvFloatOrDefault(envPrefix+"BAND_OPACITY", o.BandOpacity); err != nil {
		return err
	}
	if o.Smooth, err = getEnvBoolOrDefault(envPrefix+"SMOOTH", o.Smooth); err != nil {
		return err
	}
	return nil
}

// Validate checks the option values that need no data to judge.
func (o *Options) Validate() error {
	if o.Bins <= 0 {
		return common.InvalidArgument("bins %d must be positive", o.Bins)
	}
	if o.Smooth && !(o.Span > 0 && o.Span <= 1) {
		return common.InvalidArgument("span %v outside (0,1]", o.Span)
	}
	for _, lim := range []struct {
		name   string
		values []float64
	}{{"xlim", o.XLim}, {"ylim", o.YLim}} {
		if len(lim.values) != 0 && len(lim.values) != 2 {
			return common.InvalidArgument("%s needs exactly two values or none, got %d", lim.name, len(lim.values))
		}
	}
	if o.Window != nil && !(o.Window.End > o.Window.Start) {
		return common.InvalidArgument("window [%v, %v] needs start < end", o.Window.Start, o.Window.End)
	}
	if math.IsNaN(o.BandOpacity) || o.BandOpacity < 0 || o.BandOpacity > 1 {
		return common.InvalidArgument("band opacity %v outside [0,1]", o.BandOpacity)
	}
	if !o.Collect && (o.Width <= 0 || o.Height <= 0) {
		return common.InvalidArgument("image size %dx%d must be positive", o.Width, o.Height)
	}
	return nil
}

// ParseLimits reads "min,max" into a two value slice, "" or "auto" gives nil.
func ParseLimits(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "auto" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, common.InvalidArgument("limits %q must be min,max", s)
	}
	res := make([]float64, 2)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, common.InvalidArgument("limits %q: %v", s, err)
		}
		res[i] = v
	}
	return res, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, common.InvalidArgument("%s=%q is not an integer", key, value)
	}
	return parsed, nil
}

func getEnvFloatOrDefault(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, common.InvalidArgument("%s=%q is not a number", key, value)
	}
	return parsed, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, common.InvalidArgument("%s=%q is not a boolean", key, value)
	}
	return parsed, nil
}
