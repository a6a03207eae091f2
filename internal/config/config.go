package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shawn-b/GuerrillaMailTester/internal/driver"
	"github.com/shawn-b/GuerrillaMailTester/internal/runner"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Browser       BrowserConfig `yaml:"browser" mapstructure:"browser"`
	DefaultOutput string        `yaml:"default_output,omitempty" mapstructure:"default_output"`
	Defaults      RunEntry      `yaml:"defaults,omitempty" mapstructure:"defaults"`
	Runs          []RunEntry    `yaml:"runs,omitempty" mapstructure:"runs"`
}

// BrowserConfig selects and configures the automation browser.
type BrowserConfig struct {
	WebDriver  string `yaml:"web_driver,omitempty" mapstructure:"web_driver"`
	Headless   *bool  `yaml:"headless,omitempty" mapstructure:"headless"`
	Bin        string `yaml:"bin,omitempty" mapstructure:"bin"`
	ControlURL string `yaml:"control_url,omitempty" mapstructure:"control_url"`
}

// RunEntry is one configured run. Empty fields fall back to Config.Defaults,
// then to the runner defaults.
type RunEntry struct {
	Name             string `yaml:"name,omitempty" mapstructure:"name"`
	SiteName         string `yaml:"site_name,omitempty" mapstructure:"site_name"`
	WebDriver        string `yaml:"web_driver,omitempty" mapstructure:"web_driver"`
	EmailSubject     string `yaml:"email_subject,omitempty" mapstructure:"email_subject"`
	EmailBody        string `yaml:"email_body,omitempty" mapstructure:"email_body"`
	WaitForEmailTime int    `yaml:"wait_for_email_time,omitempty" mapstructure:"wait_for_email_time"`
}

// Package-level state
var current Config

// env resolves GMT_* environment overrides.
var env = newEnv()

func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GMT")
	v.AutomaticEnv()
	return v
}

// Dir returns the gmtest config directory path.
// Respects GMT_CONFIG_DIR environment variable if set.
func Dir() (string, error) {
	if dir := env.GetString("config_dir"); dir != "" {
		return dir, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gmtest"), nil
}

// Path returns the config file path (~/.config/gmtest/config.yaml)
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file and returns the Config struct.
// Returns an empty Config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := read(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a YAML file into the package state.
func LoadFromFile(path string) error {
	var cfg Config
	if err := read(path, &cfg); err != nil {
		return err
	}
	current = cfg
	return nil
}

// Current returns the loaded configuration.
func Current() Config {
	return current
}

func read(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // No config file is fine
		}
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// EnsureDir creates the config directory if it doesn't exist
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// Save writes the config to disk as YAML and returns the path written.
func Save(cfg *Config) (string, error) {
	if err := EnsureDir(); err != nil {
		return "", err
	}

	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, SaveTo(path, cfg)
}

// SaveTo writes the config to path as YAML.
func SaveTo(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// getConfigValue returns config with priority: env (GMT_<KEY>) > config file > default
func getConfigValue(key, fileValue, defaultValue string) string {
	if v := env.GetString(key); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// GetWebDriver returns the default browser kind with priority: env > config file > default
func GetWebDriver() string {
	return getConfigValue("web_driver", current.Browser.WebDriver, driver.KindChromium)
}

// GetBrowserBin returns the browser executable with priority: env > config file
func GetBrowserBin() string {
	return getConfigValue("browser_bin", current.Browser.Bin, "")
}

// GetControlURL returns the remote browser URL with priority: env > config file
func GetControlURL() string {
	return getConfigValue("control_url", current.Browser.ControlURL, "")
}

// GetHeadless returns whether the browser runs headless with priority:
// env > config file > default (true). Unparseable env values are ignored.
func GetHeadless() bool {
	if raw := env.GetString("headless"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	}
	if current.Browser.Headless != nil {
		return *current.Browser.Headless
	}
	return true
}

// GetDefaultOutput returns the output format with priority: env > config file > default
func GetDefaultOutput() string {
	return getConfigValue("output", current.DefaultOutput, "pretty")
}

// BrowserOptions returns the driver options for a run using webDriver,
// falling back to the configured default kind.
func BrowserOptions(webDriver string, headless bool) driver.Options {
	if webDriver == "" {
		webDriver = GetWebDriver()
	}
	return driver.Options{
		Kind:       webDriver,
		Headless:   headless,
		Bin:        GetBrowserBin(),
		ControlURL: GetControlURL(),
	}
}

// Cases returns the configured runs as runner cases, or the built-in suite
// when no runs are configured.
func (c Config) Cases() []runner.Case {
	if len(c.Runs) == 0 {
		return runner.DefaultSuite()
	}

	cases := make([]runner.Case, 0, len(c.Runs))
	for i, run := range c.Runs {
		run = run.withDefaults(c.Defaults)
		name := run.Name
		if name == "" {
			name = fmt.Sprintf("Test #%d", i+1)
		}
		cases = append(cases, runner.Case{
			Name:      name,
			WebDriver: run.WebDriver,
			Config: runner.RunConfig{
				SiteURL:      run.SiteName,
				EmailSubject: run.EmailSubject,
				EmailBody:    run.EmailBody,
				WaitForEmail: time.Duration(run.WaitForEmailTime) * time.Second,
			},
		})
	}
	return cases
}

func (e RunEntry) withDefaults(d RunEntry) RunEntry {
	if e.SiteName == "" {
		e.SiteName = d.SiteName
	}
	if e.WebDriver == "" {
		e.WebDriver = d.WebDriver
	}
	if e.EmailSubject == "" {
		e.EmailSubject = d.EmailSubject
	}
	if e.EmailBody == "" {
		e.EmailBody = d.EmailBody
	}
	if e.WaitForEmailTime <= 0 {
		e.WaitForEmailTime = d.WaitForEmailTime
	}
	return e
}

// Sample returns a config listing the built-in suite, used by 'config init'.
func Sample() *Config {
	headless := true
	cfg := &Config{
		Browser: BrowserConfig{
			WebDriver: driver.KindChromium,
			Headless:  &headless,
		},
		DefaultOutput: "pretty",
		Defaults: RunEntry{
			SiteName:         runner.DefaultSiteURL,
			EmailSubject:     runner.DefaultEmailSubject,
			EmailBody:        runner.DefaultEmailBody,
			WaitForEmailTime: int(runner.DefaultWaitForEmail / time.Second),
		},
	}
	for _, c := range runner.DefaultSuite() {
		cfg.Runs = append(cfg.Runs, RunEntry{
			Name:             c.Name,
			SiteName:         c.Config.SiteURL,
			WebDriver:        c.WebDriver,
			EmailSubject:     c.Config.EmailSubject,
			EmailBody:        c.Config.EmailBody,
			WaitForEmailTime: int(c.Config.WaitForEmail / time.Second),
		})
	}
	return cfg
}
