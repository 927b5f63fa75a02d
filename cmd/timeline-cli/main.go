// Command timeline builds the hireline activity timeline locally from the
// backend's REST API and prints it.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hireline/timeline/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:8000/api"

var (
	apiClient *client.Client
	flagURL   string
	flagKey   string
	flagFmt   string
)

var outputFormats = []string{"json", "table", "quiet"}

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("timeline version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("timeline version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "timeline",
		Short:   "Hireline activity timeline from the command line",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !slices.Contains(outputFormats, flagFmt) {
				fatal("invalid --format", fmt.Errorf("%q is not one of json|table|quiet", flagFmt))
			}
			resolveConfig()
			apiClient = newAPIClient()
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Backend API base URL (env: HIRELINE_URL)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "api-key", "", "Backend API token (env: HIRELINE_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")

	doctorCmd := newDoctorCmd()
	doctorCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // doctor resolves settings itself

	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(doctorCmd)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newAPIClient() *client.Client {
	var opts []client.Option
	if flagKey != "" {
		opts = append(opts, client.WithAPIKey(flagKey))
	}
	return client.New(flagURL, opts...)
}

// cliLogger reports fetch diagnostics on stderr so stdout stays parseable.
func cliLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	return log
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".hireline", "config.yaml"), nil
}

func loadConfigFile() (string, *configFile, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfgPath, nil, err
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfgPath, nil, err
	}
	return cfgPath, &cfg, nil
}

// settings returns the URL and key the config file provides, preferring
// the active profile over the flat fields.
func (cfg *configFile) settings() (url, apiKey string) {
	url, apiKey = cfg.URL, cfg.APIKey
	if cfg.Profiles == nil {
		return url, apiKey
	}
	profileName := cfg.ActiveProfile
	if profileName == "" {
		profileName = "default"
	}
	if p, ok := cfg.Profiles[profileName]; ok {
		if p.URL != "" {
			url = p.URL
		}
		if p.APIKey != "" {
			apiKey = p.APIKey
		}
	}
	return url, apiKey
}

// resolveSettings applies flag, then env, then config file precedence.
func resolveSettings(url, apiKey string, cfg *configFile) (string, string) {
	if url == defaultURL {
		if v := os.Getenv("HIRELINE_URL"); v != "" {
			url = v
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("HIRELINE_API_KEY")
	}

	if cfg != nil {
		fileURL, fileKey := cfg.settings()
		if url == defaultURL && fileURL != "" {
			url = fileURL
		}
		if apiKey == "" && fileKey != "" {
			apiKey = fileKey
		}
	}

	return url, apiKey
}

func resolveConfig() {
	_, cfg, err := loadConfigFile()
	if err != nil {
		cfg = nil
	}
	flagURL, flagKey = resolveSettings(flagURL, flagKey, cfg)
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
