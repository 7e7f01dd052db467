package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/azdo-mcp/internal/config"
	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `View the effective configuration or change values in the settings file.

The settings file is ~/.azdo-mcp/config.toml unless --config-dir is given.
Environment variables and .env values take precedence over it.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the settings file",
	Long: `Set a value in the settings file.

Keys:
  azdo.organization         organization name
  azdo.org_url              organization URL (default https://dev.azure.com/<org>)
  azdo.search_url           search URL (default https://almsearch.dev.azure.com/<org>)
  azdo.search_api_version   search REST api-version
  azdo.git_api_version      git REST api-version
  azdo.auth                 bearer, pat or none
  azdo.token                access token used when AZDO_TOKEN is unset
  azdo.timeout              HTTP timeout, e.g. 30s
  azdo.requests_per_second  proactive request rate
  enrichment.max_fetches    concurrent file fetches per code search (1-50)
  mcp.port                  HTTP port for "azdo-mcp mcp serve"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		cmd.Println(store.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	c, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Printf("Settings file: %s\n", store.Path())
	cmd.Println()

	cmd.Println("[Azure DevOps]")
	cmd.Printf("  Organization: %s\n", orUnset(c.Organization))
	cmd.Printf("  Org URL: %s\n", orDefault(c.OrgURL))
	cmd.Printf("  Search URL: %s\n", orDefault(c.SearchURL))
	cmd.Printf("  Search API version: %s\n", orDefault(c.SearchAPIVersion))
	cmd.Printf("  Git API version: %s\n", orDefault(c.GitAPIVersion))
	cmd.Printf("  Timeout: %s\n", c.Timeout)
	if c.RequestsPerSecond > 0 {
		cmd.Printf("  Requests per second: %g\n", c.RequestsPerSecond)
	} else {
		cmd.Printf("  Requests per second: (default)\n")
	}
	cmd.Println()

	cmd.Println("[Auth]")
	cmd.Printf("  Method: %s\n", c.Auth)
	if c.Auth != domain.AuthMethodNone {
		cmd.Printf("  Token: %s\n", tokenStatus(c.Token))
	}
	cmd.Println()

	cmd.Println("[Enrichment]")
	cmd.Printf("  Max concurrent fetches: %d\n", c.MaxFetches)
	cmd.Println()

	cmd.Println("[MCP]")
	if c.Port > 0 {
		cmd.Printf("  HTTP port: %d\n", c.Port)
	} else {
		cmd.Printf("  HTTP port: (not set, stdio only)\n")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], strings.TrimSpace(args[1])

	value, err := config.ParseValue(key, raw)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	// Reject a combination Load would refuse, e.g. max_fetches out of range.
	if _, err := loadConfig(); err != nil {
		return fmt.Errorf("saved, but the configuration is now invalid: %w", err)
	}

	if key == config.KeyToken {
		cmd.Printf("Set %s = %s\n", key, maskToken(raw))
	} else {
		cmd.Printf("Set %s = %v\n", key, value)
	}
	return nil
}

// tokenStatus describes where the token will come from without printing it.
func tokenStatus(configured string) string {
	if v := strings.TrimSpace(os.Getenv(config.EnvToken)); v != "" {
		return maskToken(v) + " (from " + config.EnvToken + ")"
	}
	if configured != "" {
		return maskToken(configured)
	}
	return "(not set)"
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
