package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"mhwmm/internal/source/nexusmods"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Nexus Mods API key",
	Long: `Manage the Nexus Mods API key used to look up mod names.

Use 'mhwmm auth nexus' to store a key.
Use 'mhwmm auth logout' to remove it.
Use 'mhwmm auth status' to check which key is in use.

The NEXUSMODS_API_KEY environment variable takes precedence over a stored key.`,
}

var authNexusCmd = &cobra.Command{
	Use:   "nexus [api-key]",
	Short: "Store a Nexus Mods API key",
	Long: `Store a Nexus Mods API key in the local database.

When no key is given it is read from the terminal without echo.

To get a key:
  1. Visit https://www.nexusmods.com/users/myaccount?tab=api
  2. Click "Request an API Key" if you don't have one
  3. Copy your Personal API Key`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthNexus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored Nexus Mods API key",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a Nexus Mods API key is available",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authNexusCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthNexus(cmd *cobra.Command, args []string) error {
	var apiKey string
	if len(args) > 0 {
		apiKey = strings.TrimSpace(args[0])
	} else {
		var err error
		apiKey, err = readAPIKey()
		if err != nil {
			return fmt.Errorf("reading API key: %w", err)
		}
	}
	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	if err := svc.SaveSourceToken(nexusmods.SourceID, apiKey); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	fmt.Println("Saved Nexus Mods API key.")
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	if err := svc.DeleteSourceToken(nexusmods.SourceID); err != nil {
		return fmt.Errorf("removing token: %w", err)
	}
	fmt.Println("Removed Nexus Mods credentials.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	if key := env.GetString("nexus_api_key"); key != "" {
		fmt.Printf("Nexus Mods: authenticated via NEXUSMODS_API_KEY (key: %s)\n", maskAPIKey(key))
		return nil
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	token, err := svc.GetSourceToken(nexusmods.SourceID)
	if err != nil {
		return fmt.Errorf("checking token: %w", err)
	}
	if token == nil {
		fmt.Println("Nexus Mods: not authenticated")
		return nil
	}
	fmt.Printf("Nexus Mods: authenticated (key: %s, saved %s)\n", maskAPIKey(token.APIKey), token.UpdatedAt.Local().Format("2006-01-02"))
	return nil
}

// readAPIKey prompts for and reads an API key from the terminal
func readAPIKey() (string, error) {
	fmt.Print("Enter API key: ")

	if term.IsTerminal(int(os.Stdin.Fd())) {
		keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimSpace(string(keyBytes)), nil
	}

	// Piped input
	key, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && key == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(key), nil
}

// maskAPIKey keeps the first and last four characters of a key
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
