// Package cli implements the blocklibrary command-line interface:
// serve, doctor, and version subcommands for the cobra root command in
// cmd/blocklibrary.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/blocklibrary/docstore"
	"github.com/jonwraymond/blocklibrary/githost"
	"github.com/jonwraymond/blocklibrary/library"
	"github.com/jonwraymond/blocklibrary/registry"
	"github.com/jonwraymond/blocklibrary/version"
)

// DefaultConfigFile is probed in the working directory when no
// --config flag names a file.
const DefaultConfigFile = "blocklibrary.yaml"

// envPrefix namespaces the environment variables overlaying the config
// file.
const envPrefix = "BLOCKLIB_"

// Config is the CLI configuration, merged from lowest to highest
// precedence: the YAML config file, BLOCKLIB_* environment variables,
// and command flags. Zero values defer to package defaults.
type Config struct {
	// Org and Repo are the default content organization and
	// repository.
	Org  string `yaml:"org"`
	Repo string `yaml:"repo"`

	// Branch and Root select the remote branch and block directory.
	Branch string `yaml:"branch"`
	Root   string `yaml:"root"`

	// UseLocal and LocalPath select a local default source.
	UseLocal  bool   `yaml:"use_local"`
	LocalPath string `yaml:"local_path"`

	// AdminURL, PagePattern, and Token configure the admin API client.
	AdminURL    string `yaml:"admin_url"`
	PagePattern string `yaml:"page_pattern"`
	Token       string `yaml:"token"`

	// GitAPIURL and GitToken configure the Git-hosting client.
	GitAPIURL string `yaml:"git_api_url"`
	GitToken  string `yaml:"git_token"`

	// Paths overrides the library document locations.
	Paths PathsConfig `yaml:"paths"`
}

// PathsConfig locates the library documents within a repository. Zero
// values select the library package defaults.
type PathsConfig struct {
	Placeholders string `yaml:"placeholders"`
	Templates    string `yaml:"templates"`
	Config       string `yaml:"config"`
	Docs         string `yaml:"docs"`
}

// LoadConfig reads the YAML config file at path and overlays BLOCKLIB_*
// environment variables. An empty path probes DefaultConfigFile, whose
// absence is not an error; an explicitly named file must exist.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case explicit || !os.IsNotExist(err):
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays BLOCKLIB_* environment variables. A set-but-empty
// variable clears the file value.
func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}
	setString(&c.Org, "ORG")
	setString(&c.Repo, "REPO")
	setString(&c.Branch, "BRANCH")
	setString(&c.Root, "ROOT")
	setString(&c.LocalPath, "LOCAL_PATH")
	setString(&c.AdminURL, "ADMIN_URL")
	setString(&c.PagePattern, "PAGE_PATTERN")
	setString(&c.Token, "TOKEN")
	setString(&c.GitAPIURL, "GIT_API_URL")
	setString(&c.GitToken, "GIT_TOKEN")
	if v, ok := os.LookupEnv(envPrefix + "USE_LOCAL"); ok {
		c.UseLocal = v == "1" || strings.EqualFold(v, "true")
	}
}

// newLogger builds the CLI logger: a text handler on stderr, Debug
// level when verbose. Stdout stays clean for the stdio MCP transport.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildRegistry wires the configured clients into a tool registry.
func buildRegistry(cfg Config, logger *slog.Logger) *registry.Registry {
	docs := docstore.NewClient(docstore.Config{
		BaseURL:     cfg.AdminURL,
		PagePattern: cfg.PagePattern,
		Token:       cfg.Token,
		Logger:      logger,
	})
	host := githost.NewClient(githost.Config{
		BaseURL: cfg.GitAPIURL,
		Token:   cfg.GitToken,
		Logger:  logger,
	})
	return registry.New(registry.Config{
		ServerVersion: version.Commit,
		Org:           cfg.Org,
		Repo:          cfg.Repo,
		Branch:        cfg.Branch,
		Root:          cfg.Root,
		UseLocal:      cfg.UseLocal,
		LocalPath:     cfg.LocalPath,
		Paths: library.Paths{
			Placeholders: cfg.Paths.Placeholders,
			Templates:    cfg.Paths.Templates,
			Config:       cfg.Paths.Config,
			Docs:         cfg.Paths.Docs,
		},
		Docs:    docs,
		GitHost: host,
		Logger:  logger,
	})
}
