package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/opsadmin/config"
	ConfigFileName    = "opsadmin.yml"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// ValidBackends is the list of valid store_backend values
var ValidBackends = []string{BackendMemory, BackendPostgres}

// ValidLogLevels is the list of valid log_level values
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// AdminConfig holds all opsadmin configuration settings
type AdminConfig struct {
	// StoreBackend selects where records live: memory or postgres
	StoreBackend string `yaml:"store_backend" json:"store_backend"`

	// SeedFile is a fixtures file loaded into the memory store at startup
	SeedFile string `yaml:"seed_file" json:"seed_file"`

	// SeedDefaults loads the built-in fixtures when no seed file is set
	SeedDefaults bool `yaml:"seed_defaults" json:"seed_defaults"`

	// StrictNotFound reports missing ids as errors instead of empty results
	StrictNotFound bool `yaml:"strict_not_found" json:"strict_not_found"`

	// ListLimitMax caps perPage on paged list requests. A request without
	// perPage (or with perPage=0) is unpaged and returns the whole collection.
	ListLimitMax int `yaml:"list_limit_max" json:"list_limit_max"`

	// DefaultPerPage applies when a list request names a page but no perPage
	DefaultPerPage int `yaml:"default_per_page" json:"default_per_page"`

	// CORSAllowedOrigins lists origins allowed to call the API
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// AuditEnabled turns the audit trail on
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// LogLevel is the minimum application log level
	LogLevel string `yaml:"log_level" json:"log_level"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors AdminConfig with pointers so that values explicitly
// set to their zero value in the file are still detected.
type fileConfig struct {
	StoreBackend       *string  `yaml:"store_backend"`
	SeedFile           *string  `yaml:"seed_file"`
	SeedDefaults       *bool    `yaml:"seed_defaults"`
	StrictNotFound     *bool    `yaml:"strict_not_found"`
	ListLimitMax       *int     `yaml:"list_limit_max"`
	DefaultPerPage     *int     `yaml:"default_per_page"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	AuditEnabled       *bool    `yaml:"audit_enabled"`
	LogLevel           *string  `yaml:"log_level"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *AdminConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *AdminConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *AdminConfig {
	return &AdminConfig{
		StoreBackend:       BackendMemory,
		SeedDefaults:       true,
		StrictNotFound:     true,
		ListLimitMax:       1000,
		DefaultPerPage:     10,
		CORSAllowedOrigins: []string{"*"},
		AuditEnabled:       true,
		LogLevel:           "info",
		sources:            make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*AdminConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("OPSADMIN_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"store_backend", "seed_file", "seed_defaults", "strict_not_found",
		"list_limit_max", "default_per_page", "cors_allowed_origins",
		"audit_enabled", "log_level",
	}
}

func (c *AdminConfig) applyFileConfig(file *fileConfig) {
	if file.StoreBackend != nil {
		c.StoreBackend = *file.StoreBackend
		c.sources["store_backend"] = "file"
	}
	if file.SeedFile != nil {
		c.SeedFile = *file.SeedFile
		c.sources["seed_file"] = "file"
	}
	if file.SeedDefaults != nil {
		c.SeedDefaults = *file.SeedDefaults
		c.sources["seed_defaults"] = "file"
	}
	if file.StrictNotFound != nil {
		c.StrictNotFound = *file.StrictNotFound
		c.sources["strict_not_found"] = "file"
	}
	if file.ListLimitMax != nil {
		c.ListLimitMax = *file.ListLimitMax
		c.sources["list_limit_max"] = "file"
	}
	if file.DefaultPerPage != nil {
		c.DefaultPerPage = *file.DefaultPerPage
		c.sources["default_per_page"] = "file"
	}
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = "file"
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = *file.AuditEnabled
		c.sources["audit_enabled"] = "file"
	}
	if file.LogLevel != nil {
		c.LogLevel = *file.LogLevel
		c.sources["log_level"] = "file"
	}
}

func (c *AdminConfig) applyEnvConfig() error {
	if val := os.Getenv("OPSADMIN_STORE_BACKEND"); val != "" {
		c.StoreBackend = strings.ToLower(val)
		c.sources["store_backend"] = "environment"
	}
	if val, ok := os.LookupEnv("OPSADMIN_SEED_FILE"); ok {
		c.SeedFile = val
		c.sources["seed_file"] = "environment"
	}
	if val := os.Getenv("OPSADMIN_SEED_DEFAULTS"); val != "" {
		c.SeedDefaults = parseBool(val)
		c.sources["seed_defaults"] = "environment"
	}
	if val := os.Getenv("OPSADMIN_STRICT_NOT_FOUND"); val != "" {
		c.StrictNotFound = parseBool(val)
		c.sources["strict_not_found"] = "environment"
	}
	if val := os.Getenv("OPSADMIN_LIST_LIMIT_MAX"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid OPSADMIN_LIST_LIMIT_MAX %q: %w", val, err)
		}
		c.ListLimitMax = i
		c.sources["list_limit_max"] = "environment"
	}
	if val := os.Getenv("OPSADMIN_DEFAULT_PER_PAGE"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid OPSADMIN_DEFAULT_PER_PAGE %q: %w", val, err)
		}
		c.DefaultPerPage = i
		c.sources["default_per_page"] = "environment"
	}
	if val := os.Getenv("OPSADMIN_CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = "environment"
	}
	if val := os.Getenv("OPSADMIN_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = parseBool(val)
		c.sources["audit_enabled"] = "environment"
	}
	if val := os.Getenv("OPSADMIN_LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
		c.sources["log_level"] = "environment"
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *AdminConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *AdminConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// ClampPerPage bounds a requested page size by ListLimitMax
func (c *AdminConfig) ClampPerPage(perPage int) int {
	if c.ListLimitMax > 0 && perPage > c.ListLimitMax {
		return c.ListLimitMax
	}
	return perPage
}

// Validate validates the configuration
func (c *AdminConfig) Validate() error {
	if !contains(ValidBackends, c.StoreBackend) {
		return fmt.Errorf("invalid store_backend value: %s", c.StoreBackend)
	}
	if !contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level value: %s", c.LogLevel)
	}
	if c.ListLimitMax < 0 {
		return fmt.Errorf("list_limit_max must not be negative")
	}
	if c.DefaultPerPage < 0 {
		return fmt.Errorf("default_per_page must not be negative")
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *AdminConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "store_backend", Value: c.StoreBackend, Source: c.Source("store_backend")},
		{Name: "seed_file", Value: c.SeedFile, Source: c.Source("seed_file")},
		{Name: "seed_defaults", Value: strconv.FormatBool(c.SeedDefaults), Source: c.Source("seed_defaults")},
		{Name: "strict_not_found", Value: strconv.FormatBool(c.StrictNotFound), Source: c.Source("strict_not_found")},
		{Name: "list_limit_max", Value: strconv.Itoa(c.ListLimitMax), Source: c.Source("list_limit_max")},
		{Name: "default_per_page", Value: strconv.Itoa(c.DefaultPerPage), Source: c.Source("default_per_page")},
		{Name: "cors_allowed_origins", Value: strings.Join(c.CORSAllowedOrigins, ","), Source: c.Source("cors_allowed_origins")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
	}
}

// FormatText returns a text representation of the configuration
func (c *AdminConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-25s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-25s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-25s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *AdminConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			result = append(result, t)
		}
	}
	return result
}
