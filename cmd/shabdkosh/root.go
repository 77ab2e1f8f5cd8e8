package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hazyhaar/shabdkosh/pkg/lexicon"
	"github.com/hazyhaar/shabdkosh/pkg/phone"
)

// version is set at link time.
var version = "dev"

var (
	cfgFile string
	verbose bool
	logger  = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "shabdkosh",
	Short: "Build Devanagari word dictionaries from sub-word vocabularies",
	Long: `shabdkosh validates candidate words against a symbol classification table
and writes the accepted words, normalized and deduplicated, to a sorted
dictionary file.

Every symbol of a word must be known to the table. Matras and "after"
symbols cannot open a word, excluded-script symbols are refused, and a nukta
fuses with the consonant before it.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "shabdkosh %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.shabdkosh/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().String("text-norm", "none", "pre-normalization of raw words: "+strings.Join(textModes, ", "))
	rootCmd.PersistentFlags().StringSlice("exclude-role", nil, "roles refused as excluded script (default sanskrit)")
	rootCmd.PersistentFlags().String("ledger", "", "build ledger database (default: $HOME/.shabdkosh/ledger.db)")

	rootCmd.AddCommand(versionCmd)
}

// configDir is where the default config file and ledger live.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shabdkosh"
	}
	return filepath.Join(home, ".shabdkosh")
}

// initConfig reads the config file and SHABDKOSH_* environment variables.
func initConfig() {
	setDefaults(viper.GetViper())
	bindFlags(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SHABDKOSH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

type config struct {
	Log       logConfig       `yaml:"log" mapstructure:"log"`
	Normalize normalizeConfig `yaml:"normalize" mapstructure:"normalize"`
	Build     buildConfig     `yaml:"build" mapstructure:"build"`
	Ledger    ledgerConfig    `yaml:"ledger" mapstructure:"ledger"`
	Serve     serveConfig     `yaml:"serve" mapstructure:"serve"`
}

type logConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type normalizeConfig struct {
	// Text is one of none, nfd, nfc, strip_joiners.
	Text          string   `yaml:"text" mapstructure:"text"`
	ExcludedRoles []string `yaml:"excluded_roles" mapstructure:"excluded_roles"`
	Marker        string   `yaml:"marker" mapstructure:"marker"`
}

type buildConfig struct {
	Workers    int    `yaml:"workers" mapstructure:"workers"`
	Order      string `yaml:"order" mapstructure:"order"`
	MaxSamples int    `yaml:"max_samples" mapstructure:"max_samples"`
}

type ledgerConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

type serveConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	// CacheTTL memoizes normalize results; 0 disables the cache.
	CacheTTL  time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	RateLimit float64       `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst     int           `yaml:"burst" mapstructure:"burst"`
}

func defaultConfig() config {
	return config{
		Log:       logConfig{Level: "info", Format: "text"},
		Normalize: normalizeConfig{Text: "none", ExcludedRoles: []string{string(phone.RoleSanskrit)}, Marker: lexicon.BoundaryMarker},
		Build:     buildConfig{Workers: 0, Order: "codepoint", MaxSamples: 1000},
		Ledger:    ledgerConfig{Enabled: true, Path: filepath.Join(configDir(), "ledger.db")},
		Serve:     serveConfig{Addr: ":8421", CacheTTL: 10 * time.Minute, RateLimit: 0, Burst: 20},
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("normalize.text", d.Normalize.Text)
	v.SetDefault("normalize.excluded_roles", d.Normalize.ExcludedRoles)
	v.SetDefault("normalize.marker", d.Normalize.Marker)
	v.SetDefault("build.workers", d.Build.Workers)
	v.SetDefault("build.order", d.Build.Order)
	v.SetDefault("build.max_samples", d.Build.MaxSamples)
	v.SetDefault("ledger.enabled", d.Ledger.Enabled)
	v.SetDefault("ledger.path", d.Ledger.Path)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.cache_ttl", d.Serve.CacheTTL)
	v.SetDefault("serve.rate_limit", d.Serve.RateLimit)
	v.SetDefault("serve.burst", d.Serve.Burst)
}

// bindFlags maps CLI flags onto config keys.
func bindFlags(v *viper.Viper) {
	pf := rootCmd.PersistentFlags()
	_ = v.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = v.BindPFlag("normalize.text", pf.Lookup("text-norm"))
	_ = v.BindPFlag("normalize.excluded_roles", pf.Lookup("exclude-role"))
	_ = v.BindPFlag("ledger.path", pf.Lookup("ledger"))
	_ = v.BindPFlag("build.workers", buildCmd.Flags().Lookup("workers"))
	_ = v.BindPFlag("build.order", buildCmd.Flags().Lookup("order"))
	_ = v.BindPFlag("build.max_samples", buildCmd.Flags().Lookup("max-samples"))
	_ = v.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("serve.cache_ttl", serveCmd.Flags().Lookup("cache-ttl"))
	_ = v.BindPFlag("serve.rate_limit", serveCmd.Flags().Lookup("rate-limit"))
	_ = v.BindPFlag("serve.burst", serveCmd.Flags().Lookup("burst"))
}

var textModes = []string{"none", "nfd", "nfc", "strip_joiners"}

// loadConfig resolves flags, environment, config file and defaults.
func loadConfig() (config, error) {
	var cfg config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if cfg.Normalize.Text != "" && !slices.Contains(textModes, cfg.Normalize.Text) {
		return cfg, fmt.Errorf("unknown text normalization %q (want one of %s)", cfg.Normalize.Text, strings.Join(textModes, ", "))
	}
	if _, err := lexicon.ParseOrder(cfg.Build.Order); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c normalizeConfig) options() lexicon.Options {
	roles := make([]phone.Role, 0, len(c.ExcludedRoles))
	for _, r := range c.ExcludedRoles {
		roles = append(roles, phone.Role(r))
	}
	return lexicon.Options{
		Excluded: roles,
		Marker:   c.Marker,
		Text:     lexicon.GetTextNormalizer(c.Text),
	}
}

func newLogger(w io.Writer, c logConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
}
