package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "/etc/rollcall/config.yaml"

const (
	DriverOpenCV = "opencv"
	DriverV4L2   = "v4l2"
)

type Config struct {
	ImagesDir string  `yaml:"images_dir"`
	Ledger    string  `yaml:"ledger"`
	ModelsDir string  `yaml:"models_dir"`
	Tolerance float64 `yaml:"tolerance"`
	Timeout   int     `yaml:"timeout"`
	Socket    string  `yaml:"socket"`
	PidFile   string  `yaml:"pid_file"`
	CPUCore   *int    `yaml:"cpu_core"`

	Camera CameraConfig `yaml:"camera"`
	Log    LogConfig    `yaml:"log"`
}

type CameraConfig struct {
	Driver string `yaml:"driver"`
	Index  int    `yaml:"index"`
	Device string `yaml:"device"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path, applies ROLLCALL_* environment overrides
// and fills defaults. The returned config is always usable; a non-nil error
// means the file was ignored and should be reported once logging is up.
// A missing DefaultPath is not an error.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	conf, err := loadFromFile(path)
	if err != nil && !explicit && os.IsNotExist(errors.Cause(err)) {
		err = nil
	}
	if conf == nil {
		conf = &Config{}
	}
	conf.applyEnv()
	conf.applyDefaults()
	return conf, err
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Can not read config file")
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "Can not parse %s", path)
	}
	return config, nil
}

func (c *Config) applyEnv() {
	envString("ROLLCALL_IMAGES_DIR", &c.ImagesDir)
	envString("ROLLCALL_LEDGER", &c.Ledger)
	envString("ROLLCALL_MODELS_DIR", &c.ModelsDir)
	envString("ROLLCALL_SOCKET", &c.Socket)
	envString("ROLLCALL_PID_FILE", &c.PidFile)
	envString("ROLLCALL_CAMERA_DRIVER", &c.Camera.Driver)
	envString("ROLLCALL_CAMERA_DEVICE", &c.Camera.Device)
	envString("ROLLCALL_LOG_LEVEL", &c.Log.Level)
	envString("ROLLCALL_LOG_FORMAT", &c.Log.Format)
	envInt("ROLLCALL_CAMERA_INDEX", &c.Camera.Index)
	envInt("ROLLCALL_TIMEOUT", &c.Timeout)
	if s := os.Getenv("ROLLCALL_TOLERANCE"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			c.Tolerance = f
		}
	}
}

func (c *Config) applyDefaults() {
	if c.ImagesDir == "" {
		c.ImagesDir = "images"
	}
	if c.Ledger == "" {
		c.Ledger = "attendance.db"
	}
	if c.ModelsDir == "" {
		c.ModelsDir = "/usr/share/rollcall/models"
	}
	if c.Tolerance == 0 {
		c.Tolerance = 0.6
	}
	if c.Timeout == 0 {
		c.Timeout = 10
	}
	if c.Socket == "" {
		c.Socket = "/run/rollcall/rollcall.sock"
	}
	if c.PidFile == "" {
		c.PidFile = "/run/rollcall/rollcall.pid"
	}
	if c.Camera.Driver == "" {
		c.Camera.Driver = DriverOpenCV
	}
	c.Camera.Driver = strings.ToLower(c.Camera.Driver)
	if c.Camera.Device == "" {
		c.Camera.Device = "/dev/video0"
	}
	if c.Camera.Width == 0 {
		c.Camera.Width = 640
	}
	if c.Camera.Height == 0 {
		c.Camera.Height = 480
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate reports settings that can not work at all.
func (c *Config) Validate() error {
	if c.Tolerance <= 0 {
		return errors.Errorf("tolerance must be positive, got %v", c.Tolerance)
	}
	if c.Timeout < 0 {
		return errors.Errorf("timeout must not be negative, got %d", c.Timeout)
	}
	switch c.Camera.Driver {
	case DriverOpenCV, DriverV4L2:
	default:
		return errors.Errorf("unknown camera driver %q", c.Camera.Driver)
	}
	if c.Camera.Index < 0 {
		return errors.Errorf("camera index must not be negative, got %d", c.Camera.Index)
	}
	return nil
}

// PinnedCore returns the CPU core the daemon worker should be pinned to.
func (c *Config) PinnedCore() (int, bool) {
	if c.CPUCore == nil || *c.CPUCore < 0 {
		return 0, false
	}
	return *c.CPUCore, true
}

func envString(key string, dst *string) {
	if s := os.Getenv(key); s != "" {
		*dst = s
	}
}

func envInt(key string, dst *int) {
	s := os.Getenv(key)
	if s == "" {
		return
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		*dst = n
	}
}
