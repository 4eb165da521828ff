// Package config is the startup configuration of the bootstrap: window size,
// validation layers and the device extensions every candidate GPU must offer.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	SwapchainExtensionName   = "VK_KHR_swapchain"
	KhronosValidationLayer   = "VK_LAYER_KHRONOS_validation"
	DefaultApplicationName   = "Hello Triangle"
	DefaultWidth             = 800
	DefaultHeight            = 600
	DefaultLogLevel          = "info"
	DefaultEnvFile           = ".env"
	environmentPrefix        = "VKB_"
	validationLayerSeparator = ","
)

// Environment variables read by Load.
const (
	EnvApplicationName  = environmentPrefix + "APP_NAME"
	EnvWidth            = environmentPrefix + "WIDTH"
	EnvHeight           = environmentPrefix + "HEIGHT"
	EnvValidation       = environmentPrefix + "VALIDATION"
	EnvValidationLayers = environmentPrefix + "VALIDATION_LAYERS"
	EnvExplicitPresent  = environmentPrefix + "EXPLICIT_PRESENT"
	EnvLogLevel         = environmentPrefix + "LOG_LEVEL"
)

// ErrHelp is returned by ProcessCommandLineArgs after printing usage.
var ErrHelp = errors.New("help requested")

type Config struct {
	ApplicationName string

	// Width and Height are the extent requested when the surface leaves the
	// swapchain size up to the application.
	Width  int
	Height int

	EnableValidation bool
	ValidationLayers []string

	// DeviceExtensions must all be supported by the selected GPU.
	DeviceExtensions []string

	// ExplicitPresentQuery asks the surface which queue families can present
	// instead of assuming the graphics family can.
	ExplicitPresentQuery bool

	LogLevel string
}

func Default() Config {
	return Config{
		ApplicationName:  DefaultApplicationName,
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		EnableValidation: defaultEnableValidation,
		ValidationLayers: []string{KhronosValidationLayer},
		DeviceExtensions: []string{SwapchainExtensionName},
		LogLevel:         DefaultLogLevel,
	}
}

// environment resolves VKB_* variables. Process variables win over values
// read from dotenv files; the process environment itself is never modified.
type environment map[string]string

func readEnvironment(files ...string) (environment, error) {
	if len(files) == 0 {
		env, err := godotenv.Read(DefaultEnvFile)
		if os.IsNotExist(err) {
			return environment{}, nil
		}
		return env, errors.Wrapf(err, "load %s", DefaultEnvFile)
	}

	env, err := godotenv.Read(files...)
	return env, errors.Wrapf(err, "load %s", strings.Join(files, ", "))
}

func (e environment) get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	if value := e[key]; value != "" {
		return value
	}
	return fallback
}

// Load starts from Default and applies VKB_* variables. The given dotenv
// files are read first; with no files, a .env in the working directory is
// used if present. Variables already set in the process win over files.
func Load(files ...string) (Config, error) {
	cfg := Default()

	env, err := readEnvironment(files...)
	if err != nil {
		return cfg, err
	}

	cfg.ApplicationName = env.get(EnvApplicationName, cfg.ApplicationName)
	cfg.LogLevel = env.get(EnvLogLevel, cfg.LogLevel)

	if cfg.Width, err = env.intValue(EnvWidth, cfg.Width); err != nil {
		return cfg, err
	}
	if cfg.Height, err = env.intValue(EnvHeight, cfg.Height); err != nil {
		return cfg, err
	}
	if cfg.EnableValidation, err = env.boolValue(EnvValidation, cfg.EnableValidation); err != nil {
		return cfg, err
	}
	if cfg.ExplicitPresentQuery, err = env.boolValue(EnvExplicitPresent, cfg.ExplicitPresentQuery); err != nil {
		return cfg, err
	}

	if layers := env.get(EnvValidationLayers, ""); layers != "" {
		cfg.ValidationLayers = nil
		for _, layer := range strings.Split(layers, validationLayerSeparator) {
			if layer = strings.TrimSpace(layer); layer != "" {
				cfg.ValidationLayers = append(cfg.ValidationLayers, layer)
			}
		}
	}

	return cfg, nil
}

func (e environment) intValue(key string, fallback int) (int, error) {
	raw := e.get(key, "")
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, errors.Wrapf(err, "%s", key)
	}
	return value, nil
}

func (e environment) boolValue(key string, fallback bool) (bool, error) {
	raw := e.get(key, "")
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, errors.Wrapf(err, "%s", key)
	}
	return value, nil
}

// ProcessCommandLineArgs applies command-line switches on top of cfg.
func (c *Config) ProcessCommandLineArgs(args []string) error {
	for _, arg := range args {
		switch arg {
		case "--validation":
			c.EnableValidation = true
		case "--no-validation":
			c.EnableValidation = false
		case "--explicit-present":
			c.ExplicitPresentQuery = true
		case "--verbose":
			c.LogLevel = logrus.DebugLevel.String()
		case "--help", "-h":
			fmt.Println("\nOptions")
			fmt.Println("\t--validation\n\t\tEnable Vulkan validation layers")
			fmt.Println("\t--no-validation\n\t\tDisable Vulkan validation layers")
			fmt.Println("\t--explicit-present\n\t\tQuery present support per queue family")
			fmt.Println("\t--verbose\n\t\tLog at debug level")
			return ErrHelp
		default:
			return errors.WithHint(errors.Newf("unrecognized option: %s", arg), "use --help or -h for option list")
		}
	}

	return nil
}

// Validate rejects configurations the bootstrap cannot start with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Newf("window extent must be positive, got %dx%d", c.Width, c.Height)
	}
	if len(c.DeviceExtensions) == 0 {
		return errors.New("no device extensions configured: at least the swapchain extension is required")
	}
	if c.EnableValidation && len(c.ValidationLayers) == 0 {
		return errors.New("validation enabled without any validation layers")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}

// Level returns the configured logrus level, defaulting to Info.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
