// Package cli provides the azdo-mcp command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/azdo-mcp/internal/adapters/driven/auth"
	"github.com/custodia-labs/azdo-mcp/internal/adapters/driven/config/file"
	"github.com/custodia-labs/azdo-mcp/internal/adapters/driving/mcp"
	"github.com/custodia-labs/azdo-mcp/internal/config"
	"github.com/custodia-labs/azdo-mcp/internal/connectors/azdo"
	"github.com/custodia-labs/azdo-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/azdo-mcp/internal/core/services"
	"github.com/custodia-labs/azdo-mcp/internal/logger"
)

var (
	version = "dev"

	verbose   bool
	configDir string

	// Set by setupServices, or directly by tests.
	cfg           config.Config
	searchService driving.SearchService
	azdoClient    *azdo.Client
)

var rootCmd = &cobra.Command{
	Use:   "azdo-mcp",
	Short: "Azure DevOps search for AI assistants",
	Long: `azdo-mcp exposes Azure DevOps code, wiki and work item search to AI
assistants over the Model Context Protocol.

Code search results are enriched with the content of each matching file at
the commit the search index saw.

Configuration is read from ~/.azdo-mcp/config.toml, a .env file in the
working directory and AZDO_* environment variables, in increasing order of
precedence. Flags override all of them.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "write debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "settings directory (default ~/.azdo-mcp)")
	rootCmd.PersistentFlags().String(config.FlagOrganization, "", "Azure DevOps organization (overrides AZDO_ORG)")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the CLI, the MCP server and the
// User-Agent header.
func SetVersion(v string) {
	version = v
	mcp.Version = v
	azdo.Version = v
}

// openStore opens the settings file in the configured directory.
func openStore() (*file.ConfigStore, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	return store, nil
}

// loadConfig resolves the configuration from all sources.
func loadConfig() (config.Config, error) {
	store, err := openStore()
	if err != nil {
		return config.Config{}, err
	}
	c, err := config.Load(store, config.Options{Flags: rootCmd.PersistentFlags()})
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

// setupServices wires the Azure DevOps client and search service.
// It is a no-op when a search service has already been set.
func setupServices() error {
	if searchService != nil {
		return nil
	}

	c, err := loadConfig()
	if err != nil {
		return err
	}
	if err := c.RequireOrganization(); err != nil {
		return err
	}

	tokens := auth.NewTokenProvider(c.Auth, c.Token, config.EnvToken)
	client, err := azdo.NewClient(azdo.Config{
		Organization:      c.Organization,
		OrgURL:            c.OrgURL,
		SearchURL:         c.SearchURL,
		SearchAPIVersion:  c.SearchAPIVersion,
		GitAPIVersion:     c.GitAPIVersion,
		Timeout:           c.Timeout,
		RequestsPerSecond: c.RequestsPerSecond,
	}, tokens)
	if err != nil {
		return fmt.Errorf("create Azure DevOps client: %w", err)
	}

	logger.Debug("Organization %s, auth %s, max fetches %d", c.Organization, c.Auth, c.MaxFetches)

	cfg = c
	azdoClient = client
	searchService = services.NewSearchService(client, services.NewEnricher(client, c.MaxFetches))
	return nil
}
