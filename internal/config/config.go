package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"oer-catalog/internal/catalog"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the BCcampus OER collection.
const DefaultEndpoint = "https://collection.bccampus.ca/wp-json/wp/v2/oer"

const (
	DefaultTimeout  = 20 * time.Second
	DefaultTitle    = "OER Collection"
	DefaultSubtitle = "from BCcampus"
	DefaultFooter   = "All content on this page is subject to BCcampus' terms of use."
)

var (
	ErrNoEndpoints     = errors.New("config: at least one endpoint is required")
	ErrInvalidPageSize = errors.New("config: page size must be at least 1")
)

// Config is the effective viewer configuration. It is fixed once the
// controller is constructed.
type Config struct {
	Endpoints []string      `yaml:"endpoints" json:"endpoints"`
	PageSize  int           `yaml:"pageSize" json:"pageSize"`
	StartPage int           `yaml:"startPage,omitempty" json:"startPage,omitempty"`
	Loading   string        `yaml:"loading,omitempty" json:"loading"`
	Timeout   time.Duration `yaml:"timeout,omitempty" json:"timeout"`
	UserAgent string        `yaml:"userAgent,omitempty" json:"userAgent,omitempty"`
	LogFile   string        `yaml:"logFile,omitempty" json:"logFile,omitempty"`
	Debug     bool          `yaml:"debug,omitempty" json:"debug,omitempty"`

	Title    string `yaml:"title,omitempty" json:"title"`
	Subtitle string `yaml:"subtitle,omitempty" json:"subtitle"`
	Footer   string `yaml:"footer,omitempty" json:"footer"`
}

func Default() Config {
	return Config{
		Endpoints: []string{DefaultEndpoint},
		PageSize:  catalog.DefaultPageSize,
		StartPage: 1,
		Loading:   catalog.LoadingFirstResponse.String(),
		Timeout:   DefaultTimeout,
		Title:     DefaultTitle,
		Subtitle:  DefaultSubtitle,
		Footer:    DefaultFooter,
	}
}

// Dir returns ~/.oer (or $OER_CONFIG_DIR).
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("OER_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".oer"), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds the configuration from defaults, the YAML file at path (the
// default path when empty; a missing default file is fine), .env files in the
// working directory, and OER_* environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	if err := mergeFile(&cfg, path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return cfg, err
		}
	}

	// .env never overrides variables already set in the environment.
	for _, name := range []string{".env", ".env.local"} {
		if err := loadDotenv(name); err != nil {
			return cfg, err
		}
	}

	if err := mergeEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadDotenv reads one .env file; a missing file is fine, a malformed one is
// an error.
func loadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func mergeFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fileCfg Config
	if err := yaml.Unmarshal(b, &fileCfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	if len(fileCfg.Endpoints) > 0 {
		cfg.Endpoints = fileCfg.Endpoints
	}
	if fileCfg.PageSize != 0 {
		cfg.PageSize = fileCfg.PageSize
	}
	if fileCfg.StartPage != 0 {
		cfg.StartPage = fileCfg.StartPage
	}
	if fileCfg.Loading != "" {
		cfg.Loading = fileCfg.Loading
	}
	if fileCfg.Timeout != 0 {
		cfg.Timeout = fileCfg.Timeout
	}
	if fileCfg.UserAgent != "" {
		cfg.UserAgent = fileCfg.UserAgent
	}
	if fileCfg.LogFile != "" {
		cfg.LogFile = fileCfg.LogFile
	}
	if fileCfg.Debug {
		cfg.Debug = true
	}
	if fileCfg.Title != "" {
		cfg.Title = fileCfg.Title
	}
	if fileCfg.Subtitle != "" {
		cfg.Subtitle = fileCfg.Subtitle
	}
	if fileCfg.Footer != "" {
		cfg.Footer = fileCfg.Footer
	}
	return nil
}

func mergeEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("OER_ENDPOINTS")); v != "" {
		cfg.Endpoints = SplitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("OER_PAGE_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: OER_PAGE_SIZE: %w", err)
		}
		cfg.PageSize = n
	}
	if v := strings.TrimSpace(os.Getenv("OER_LOADING")); v != "" {
		cfg.Loading = v
	}
	if v := strings.TrimSpace(os.Getenv("OER_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: OER_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv("OER_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv("OER_DEBUG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	return nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the invariants the controller relies on.
func (c Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return ErrNoEndpoints
	}
	for _, e := range c.Endpoints {
		u, err := url.Parse(strings.TrimSpace(e))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: endpoint %q is not an absolute http(s) url", e)
		}
	}
	if c.PageSize < 1 {
		return ErrInvalidPageSize
	}
	if c.StartPage < 1 {
		return fmt.Errorf("config: start page must be at least 1; got %d", c.StartPage)
	}
	if _, err := catalog.ParseLoadingPolicy(c.Loading); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Policy returns the parsed loading policy (first-response on parse errors;
// Validate reports those).
func (c Config) Policy() catalog.LoadingPolicy {
	p, _ := catalog.ParseLoadingPolicy(c.Loading)
	return p
}
