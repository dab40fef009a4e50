// Package config layers the CLI settings: built-in defaults, then the
// default, global and project YAML files, then SHOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalidValue reports a config value that does not parse as its key's type.
var ErrInvalidValue = errors.New("invalid config value")

// Paths captures the config files used during LoadConfig.
type Paths struct {
	Default string
	Global  string
	Project string
}

var (
	currentConfig *viper.Viper
	currentPaths  Paths
)

// builtinDefaults are the values the original script hardcoded.
var builtinDefaults = map[string]interface{}{
	"defaults.number":     21,
	"defaults.shots":      10,
	"defaults.backend":    "simulator",
	"defaults.format":     "text",
	"qiskit.python":       "python3",
	"logging.level":       "info",
	"logging.retain_days": 7,
}

// intKeys must hold base-10 integers.
var intKeys = map[string]bool{
	"defaults.number":     true,
	"defaults.shots":      true,
	"logging.retain_days": true,
}

// legacyEnv maps keys to short env names that beat SHOR_<KEY> overrides.
var legacyEnv = map[string]string{
	"defaults.number":  "SHOR_NUMBER",
	"defaults.shots":   "SHOR_SHOTS",
	"defaults.backend": "SHOR_BACKEND",
	"defaults.format":  "SHOR_FORMAT",
}

// LoadConfig loads and merges configuration in priority order:
// default -> global -> project (highest).
func LoadConfig(projectDir string) (Paths, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SHOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range builtinDefaults {
		v.SetDefault(key, value)
	}

	paths := Paths{
		Default: defaultConfigPath(),
		Global:  globalConfigPath(),
		Project: projectConfigPath(projectDir),
	}

	for _, path := range []string{paths.Default, paths.Global, paths.Project} {
		if err := mergeLayer(v, path); err != nil {
			return paths, err
		}
	}

	currentConfig = v
	currentPaths = paths

	return paths, nil
}

// GetConfig returns a config value as a string with env overrides applied.
func GetConfig(key string) (string, bool) {
	if key == "" {
		return "", false
	}

	if envName, ok := legacyEnv[key]; ok {
		if value, found := os.LookupEnv(envName); found {
			return value, true
		}
	}

	if currentConfig == nil || !currentConfig.IsSet(key) {
		return "", false
	}
	return fmt.Sprint(currentConfig.Get(key)), true
}

// GetInt returns an integer config value, or fallback when the key is unset.
// A value that is set but not an integer is an ErrInvalidValue.
func GetInt(key string, fallback int) (int, error) {
	value, ok := GetConfig(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return parseInt(key, value)
}

// GetString returns a trimmed config value, or fallback when it is unset or blank.
func GetString(key, fallback string) string {
	value, ok := GetConfig(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

// CurrentPaths returns the files merged by the last LoadConfig call.
func CurrentPaths() Paths {
	return currentPaths
}

// SetConfig writes a configuration value to the global config file.
// Integer keys are stored as numbers and rejected when they do not parse.
func SetConfig(key, value string) error {
	if key == "" {
		return errors.New("config key is required")
	}

	var stored interface{} = value
	if intKeys[key] {
		parsed, err := parseInt(key, value)
		if err != nil {
			return err
		}
		stored = parsed
	}

	globalPath := globalConfigPath()
	if globalPath == "" {
		return errors.New("global config path is not available")
	}
	if err := os.MkdirAll(filepath.Dir(globalPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(globalPath)
	if fileExists(globalPath) {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read global config: %w", err)
		}
	}

	v.Set(key, stored)
	if err := v.WriteConfigAs(globalPath); err != nil {
		return fmt.Errorf("write global config: %w", err)
	}

	if currentConfig != nil {
		currentConfig.Set(key, stored)
	}
	return nil
}

// ListConfig returns every known key with its effective value.
func ListConfig() (map[string]string, error) {
	if currentConfig == nil {
		return nil, errors.New("config not loaded")
	}

	items := map[string]string{}
	for _, key := range currentConfig.AllKeys() {
		value, _ := GetConfig(key)
		items[key] = value
	}
	return items, nil
}

func parseInt(key, value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidValue, key, value)
	}
	return parsed, nil
}

func defaultConfigPath() string {
	if path, ok := os.LookupEnv("SHOR_DEFAULT_CONFIG"); ok && path != "" {
		return path
	}

	var candidates []string
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(exeDir, "config", "default.yaml"),
			filepath.Join(exeDir, "..", "config", "default.yaml"),
		)
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "config", "default.yaml"))
	}
	if dir := configDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "default.yaml"))
	}

	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func globalConfigPath() string {
	if path, ok := os.LookupEnv("SHOR_GLOBAL_CONFIG"); ok && path != "" {
		return path
	}
	if dir := configDir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return ""
}

func projectConfigPath(projectDir string) string {
	if projectDir == "" {
		return ""
	}
	if info, err := os.Stat(projectDir); err != nil || !info.IsDir() {
		return ""
	}

	name := os.Getenv("SHOR_PROJECT_CONFIG_NAME")
	if name == "" {
		name = ".shor.yaml"
	}
	return filepath.Join(projectDir, name)
}

func configDir() string {
	if path, ok := os.LookupEnv("SHOR_CONFIG_DIR"); ok && path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "shor")
}

// mergeLayer merges path over what v already holds. Missing files are skipped.
func mergeLayer(v *viper.Viper, path string) error {
	if !fileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("merge config %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
