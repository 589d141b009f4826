// Package dedupcmd implements the bibdedup subcommands.
package dedupcmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
	"github.com/lehigh-university-libraries/bibdedup/internal/duplicates"
	"github.com/lehigh-university-libraries/bibdedup/internal/logging"
	"github.com/spf13/pflag"
)

// Environment variables consulted for flags left unset on the command line.
const (
	EnvPolicy    = "BIBDEDUP_POLICY"
	EnvMode      = "BIBDEDUP_MODE"
	EnvLogLevel  = "BIBDEDUP_LOG_LEVEL"
	EnvLogFormat = "BIBDEDUP_LOG_FORMAT"
	EnvLogFile   = "BIBDEDUP_LOG_FILE"
)

// Options holds the persistent flags shared by every subcommand.
type Options struct {
	Mode       string
	PolicyPath string
	LogLevel   string
	LogFormat  string
	LogFile    string
}

// BindFlags registers the shared flags on fs.
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	def := logging.DefaultConfig()
	fs.StringVar(&o.Mode, "mode", "bibtex", "Library mode (bibtex or biblatex); biblatex also matches on ISRN")
	fs.StringVar(&o.PolicyPath, "policy", "", "YAML policy file (defaults to the built-in policies)")
	fs.StringVar(&o.LogLevel, "log-level", def.Level, "Log level (debug, info, warn, error)")
	fs.StringVar(&o.LogFormat, "log-format", def.Format, "Log format (text or json)")
	fs.StringVar(&o.LogFile, "log-file", "", "Also write logs to this rotating file")
}

var envFlags = map[string]string{
	"mode":       EnvMode,
	"policy":     EnvPolicy,
	"log-level":  EnvLogLevel,
	"log-format": EnvLogFormat,
	"log-file":   EnvLogFile,
}

// ApplyEnv fills flags that were not set explicitly from the environment.
func ApplyEnv(fs *pflag.FlagSet) error {
	for name, env := range envFlags {
		f := fs.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		v, ok := os.LookupEnv(env)
		if !ok || v == "" {
			continue
		}
		if err := fs.Set(name, v); err != nil {
			return fmt.Errorf("invalid %s: %w", env, err)
		}
	}
	return nil
}

// LoggingConfig converts the logging flags.
func (o *Options) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = o.LogLevel
	cfg.Format = o.LogFormat
	cfg.FilePath = o.LogFile
	return cfg
}

// engine is the configured checker for one command run.
type engine struct {
	checker      *duplicates.Checker
	mode         bib.Mode
	policySource string
}

func (o *Options) engine() (*engine, error) {
	mode, err := bib.ParseMode(o.Mode)
	if err != nil {
		return nil, err
	}

	policies := duplicates.DefaultPolicies()
	source := "built-in"
	if o.PolicyPath != "" {
		policies, err = duplicates.LoadPolicies(o.PolicyPath)
		if err != nil {
			return nil, err
		}
		source = o.PolicyPath
	}

	slog.Debug("Engine configured", "mode", mode.String(), "policy", source, "threshold", policies.Threshold())
	return &engine{
		checker:      duplicates.NewChecker(policies),
		mode:         mode,
		policySource: source,
	}, nil
}

// readEntryFile reads a single entry stored as JSON.
func readEntryFile(path string) (*bib.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry file: %w", err)
	}

	var e bib.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to parse entry file %s: %w", path, err)
	}
	return &e, nil
}
