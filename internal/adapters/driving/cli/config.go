package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key in the config file",
	Long: `Sets a dot-notation key, such as sync.batch_limit or api.request_delay,
in the configuration file. Integers and booleans are stored as TOML numbers
and booleans; everything else is stored as a string.`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE:        runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	s, err := requireServices("configuration")
	if err != nil {
		return err
	}
	st := s.Settings

	if s.Config != nil {
		cmd.Printf("Config file: %s\n", s.Config.Path())
		if keys := s.Config.Keys(); len(keys) > 0 {
			cmd.Printf("Set in file: %s\n", strings.Join(keys, ", "))
		}
		cmd.Println()
	}
	cmd.Println("[sync]")
	cmd.Printf("  strategy            = %s\n", st.Sync.Strategy)
	cmd.Printf("  batch_limit         = %d\n", st.Sync.BatchLimit)
	cmd.Printf("  max_duration        = %s\n", st.Sync.MaxDuration)
	if !st.Sync.WindowFloor.IsZero() {
		cmd.Printf("  window_floor        = %s\n", st.Sync.WindowFloor.Start().Format("2006-01"))
	}
	cmd.Println("[api]")
	cmd.Printf("  base_url            = %s\n", st.API.BaseURL)
	cmd.Printf("  token_url           = %s\n", st.API.TokenURL)
	cmd.Printf("  timeout             = %s\n", st.API.Timeout)
	cmd.Printf("  request_delay       = %s\n", st.API.RequestDelay)
	cmd.Printf("  rate_limit_cooldown = %s\n", st.API.RateLimitCooldown)
	cmd.Printf("  max_retries         = %d\n", st.API.MaxRetries)
	cmd.Printf("  thread_concurrency  = %d\n", st.API.ThreadConcurrency)
	cmd.Printf("  status              = %s\n", st.API.Status)
	cmd.Println("[paths]")
	cmd.Printf("  archive             = %s\n", st.Paths.Archive)
	cmd.Printf("  index               = %s\n", st.Paths.Index)
	cmd.Printf("  checkpoint          = %s\n", st.CheckpointPath())
	cmd.Printf("  state               = %s\n", st.Paths.State)
	if st.Metrics.Textfile != "" {
		cmd.Println("[metrics]")
		cmd.Printf("  textfile            = %s\n", st.Metrics.Textfile)
	}
	cmd.Println("[credentials]")
	cmd.Printf("  method              = %s\n", credentialMethod(st.Credentials))
	return nil
}

func credentialMethod(c domain.Credentials) string {
	switch {
	case c.AccessToken != "":
		return "access token (HS_ACCESS_TOKEN)"
	case c.ClientID != "" && c.ClientSecret != "":
		return "client credentials (HS_APP_ID, HS_APP_SECRET)"
	default:
		return "not configured"
	}
}

// editableConfig opens the configuration file without validating it, so a
// broken setting can still be repaired.
func editableConfig() (ConfigEditor, error) {
	if services != nil && services.Config != nil {
		return services.Config, nil
	}
	if openConfig == nil {
		return nil, fmt.Errorf("configuration not configured")
	}
	return openConfig(configPath)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	config, err := editableConfig()
	if err != nil {
		return err
	}

	key, raw := strings.TrimSpace(args[0]), args[1]
	value := parseConfigValue(raw)
	prev, had := config.Get(key)
	if err := config.Set(key, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	cmd.Printf("Set %s = %v in %s", key, value, config.Path())
	if had {
		cmd.Printf(" (was %v)", prev)
	}
	cmd.Println()
	return nil
}

// parseConfigValue maps a command-line value onto a TOML type.
func parseConfigValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
