package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/blocklibrary/docstore"
	"github.com/jonwraymond/blocklibrary/source"
)

// adminProbeTimeout bounds the admin API reachability check.
const adminProbeTimeout = 5 * time.Second

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var (
		configPath string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the block-library environment",
		Long: `Environment health check for blocklibrary.

Validates:
- Content source resolution (remote org/repo or a local blocks directory)
- Document address (org/repo for admin API writes)
- Admin API reachability
- Bearer token presence

Examples:
  blocklibrary doctor             # Run full health check
  blocklibrary doctor --quiet     # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}

			results := runChecks(cmd.Context(), cfg)

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				printResults(results, hasErrors)
			}
			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the YAML config file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

func runChecks(ctx context.Context, cfg Config) []CheckResult {
	return []CheckResult{
		checkContentSource(cfg),
		checkDocumentAddress(cfg),
		checkAdminAPI(ctx, cfg),
		checkToken(cfg),
	}
}

// checkContentSource resolves the configured content source.
func checkContentSource(cfg Config) CheckResult {
	src, err := source.Resolve(source.Options{
		Org:       cfg.Org,
		Repo:      cfg.Repo,
		Branch:    cfg.Branch,
		Root:      cfg.Root,
		UseLocal:  cfg.UseLocal,
		LocalPath: cfg.LocalPath,
	})
	if err != nil {
		return CheckResult{
			Name:    "Content source",
			Status:  "✗",
			Details: "  " + err.Error(),
		}
	}
	return CheckResult{Name: "Content source", Status: "✓", Details: "  " + src.Info().String()}
}

// checkDocumentAddress verifies org/repo are configured for the tools
// that address admin API documents.
func checkDocumentAddress(cfg Config) CheckResult {
	if cfg.Org == "" || cfg.Repo == "" {
		return CheckResult{
			Name:    "Document address",
			Status:  "⚠",
			Details: "  org/repo not configured; sheet and document tools need them per call",
		}
	}
	return CheckResult{Name: "Document address", Status: "✓", Details: fmt.Sprintf("  %s/%s", cfg.Org, cfg.Repo)}
}

// checkAdminAPI probes the admin API root. Any HTTP response counts as
// reachable; only transport failures fail the check.
func checkAdminAPI(ctx context.Context, cfg Config) CheckResult {
	base := cfg.AdminURL
	if base == "" {
		base = docstore.DefaultBaseURL
	}

	ctx, cancel := context.WithTimeout(ctx, adminProbeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return CheckResult{Name: "Admin API", Status: "✗", Details: "  " + err.Error()}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return CheckResult{
			Name:    "Admin API",
			Status:  "✗",
			Details: fmt.Sprintf("  %s unreachable: %v", base, err),
		}
	}
	resp.Body.Close()
	return CheckResult{Name: "Admin API", Status: "✓", Details: fmt.Sprintf("  %s (HTTP %d)", base, resp.StatusCode)}
}

// checkToken reports whether a bearer token is configured.
func checkToken(cfg Config) CheckResult {
	if cfg.Token == "" {
		return CheckResult{
			Name:    "Token",
			Status:  "⚠",
			Details: "  no token configured (set BLOCKLIB_TOKEN); writes to protected repositories will fail",
		}
	}
	return CheckResult{Name: "Token", Status: "✓"}
}

func printResults(results []CheckResult, hasErrors bool) {
	fmt.Println()
	fmt.Println("Check              Status")
	fmt.Println("─────────────────────────")
	for _, r := range results {
		fmt.Printf("%-18s %s\n", r.Name, coloredStatus(r.Status))
	}
	fmt.Println()

	hasDetails := false
	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			if !hasDetails {
				fmt.Println("Details:")
				hasDetails = true
			}
			fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
		}
	}

	if hasErrors {
		fmt.Println("\n✗ Issues found.")
	} else {
		fmt.Println("All checks passed.")
	}
}

func coloredStatus(status string) string {
	switch status {
	case "✓":
		return color.New(color.FgGreen).Sprint(status)
	case "⚠":
		return color.New(color.FgYellow).Sprint(status)
	default:
		return color.New(color.FgRed).Sprint(status)
	}
}
