package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dt-pm-tools/jsm-panel/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure JIRA connection and panel settings",
	Long:  `Interactively set up the JIRA URL, email, API token and aggregation strategy. Settings are saved to ~/.jsm-panel.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Existing values (file, env and defaults) seed every prompt.
		cfg := appConfig

		cfg.URL = prompt(reader, "JIRA URL", cfg.URL, "e.g., https://your-org.atlassian.net")
		cfg.Email = prompt(reader, "Email", cfg.Email, "")

		fmt.Print("API Token (input hidden): ")
		tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		if token := strings.TrimSpace(string(tokenBytes)); token != "" {
			cfg.Token = token
		}

		cfg.Panel.Strategy = prompt(reader, "Strategy (link|subtasks)", cfg.Panel.Strategy, "")
		if cfg.Panel.Strategy == config.StrategyLink {
			cfg.Panel.LinkPattern = prompt(reader, "Linked issue key pattern", cfg.Panel.LinkPattern, "")
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

// prompt reads one line, keeping current when the answer is empty.
func prompt(reader *bufio.Reader, label, current, hint string) string {
	switch {
	case current != "":
		fmt.Printf("%s [%s]: ", label, current)
	case hint != "":
		fmt.Printf("%s (%s): ", label, hint)
	default:
		fmt.Printf("%s: ", label)
	}
	answer, _ := reader.ReadString('\n')
	if answer = strings.TrimSpace(answer); answer != "" {
		return answer
	}
	return current
}

func init() {
	rootCmd.AddCommand(configCmd)
}
