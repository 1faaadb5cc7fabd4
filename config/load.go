package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vcrobe/vcc/vdom"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "vcc.yaml"

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the
// resolved path. When no config file exists the defaults are returned with
// an empty path.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Defaults(), "", nil
	}

	// Get absolute path and directory for resolving relative paths
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	// Interpolate environment variables
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.BaseDir = baseDir

	// Resolve relative directories against the config file
	if cfg.SrcDir != "" && !filepath.IsAbs(cfg.SrcDir) {
		cfg.SrcDir = filepath.Join(baseDir, cfg.SrcDir)
	}
	if cfg.OutDir != "" && !filepath.IsAbs(cfg.OutDir) {
		cfg.OutDir = filepath.Join(baseDir, cfg.OutDir)
	}

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

// resolveConfigPath finds the config file: the explicit path, then
// VCC_CONFIG, then ./vcc.yaml. It returns "" when none is set or found.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	// Try VCC_CONFIG environment variable
	if envPath := getenv("VCC_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("VCC_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	// Try ./vcc.yaml
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile, nil
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// Validate checks the configuration. Call it again after applying CLI overrides.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Runtime) == "" {
		errs = append(errs, errors.New("runtime must not be empty"))
	}
	if !strings.HasPrefix(cfg.Extension, ".") || len(cfg.Extension) < 2 {
		errs = append(errs, fmt.Errorf("extension %q must start with '.'", cfg.Extension))
	}
	if !strings.HasPrefix(cfg.OutExtension, ".") || len(cfg.OutExtension) < 2 {
		errs = append(errs, fmt.Errorf("out_extension %q must start with '.'", cfg.OutExtension))
	}
	if cfg.Extension == cfg.OutExtension {
		errs = append(errs, fmt.Errorf("extension and out_extension must differ (both %q)", cfg.Extension))
	}
	if !isTagName(cfg.Container) {
		errs = append(errs, fmt.Errorf("container %q is not a valid tag name", cfg.Container))
	}
	for _, h := range cfg.Hooks {
		if !vdom.IsIdentifier(h) {
			errs = append(errs, fmt.Errorf("hook %q is not a valid identifier", h))
		}
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", cfg.Workers))
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must be >= 0, got %s", cfg.Watch.Debounce))
	}
	if cfg.Logging.Quiet && cfg.Logging.Verbose {
		errs = append(errs, errors.New("logging.quiet and logging.verbose are mutually exclusive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// isTagName reports whether s is a lower-case element name such as "div" or "my-box".
func isTagName(s string) bool {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '-' {
			return false
		}
	}
	return true
}
