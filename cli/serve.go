package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var (
		configPath string
		httpAddr   string
		verbose    bool
		org        string
		repo       string
		branch     string
		root       string
		useLocal   bool
		localPath  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the block-library tools over MCP",
		Long: `Serve the block-library tool catalog to MCP clients.

By default the server speaks the stdio transport on stdin/stdout, the
form MCP clients spawn as a subprocess. Logs go to stderr so stdout
stays clean for the protocol. With --http the server listens on the
given address using the streamable HTTP transport instead.

Configuration merges, lowest precedence first: blocklibrary.yaml (or
the --config file), BLOCKLIB_* environment variables, and flags.

Examples:
  blocklibrary serve --org acme --repo site
  blocklibrary serve --local-path ./blocks --verbose
  blocklibrary serve --http :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("org") {
				cfg.Org = org
			}
			if flags.Changed("repo") {
				cfg.Repo = repo
			}
			if flags.Changed("branch") {
				cfg.Branch = branch
			}
			if flags.Changed("root") {
				cfg.Root = root
			}
			if flags.Changed("use-local") {
				cfg.UseLocal = useLocal
			}
			if flags.Changed("local-path") {
				cfg.LocalPath = localPath
			}

			reg := buildRegistry(cfg, logger)
			defer func() {
				_ = reg.Close()
			}()

			if httpAddr != "" {
				logger.Info("serving MCP over HTTP", "addr", httpAddr)
				return http.ListenAndServe(httpAddr, reg.HTTPHandler())
			}
			logger.Info("serving MCP over stdio")
			return reg.ServeStdio(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the YAML config file")
	cmd.Flags().StringVar(&httpAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	cmd.Flags().StringVar(&org, "org", "", "default content organization")
	cmd.Flags().StringVar(&repo, "repo", "", "default content repository")
	cmd.Flags().StringVar(&branch, "branch", "", "remote branch (default main)")
	cmd.Flags().StringVar(&root, "root", "", "block root directory (default blocks)")
	cmd.Flags().BoolVar(&useLocal, "use-local", false, "read blocks from the local filesystem")
	cmd.Flags().StringVar(&localPath, "local-path", "", "explicit local blocks directory")

	return cmd
}
