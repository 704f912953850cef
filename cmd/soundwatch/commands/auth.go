package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"soundwatch/internal/client/standard"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store an API bearer token in .env and verify it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print("Bearer token: ")
		reader := bufio.NewReader(os.Stdin)
		token, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("unable to read token: %w", err)
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return fmt.Errorf("empty token")
		}

		if err := writeEnvValue(".env", "TWITTER_BEARER_TOKEN", token); err != nil {
			return err
		}

		cfg.Twitter.BearerToken = token
		client, err := standard.New(cfg.Twitter, logger)
		if err != nil {
			return err
		}
		if err := client.Verify(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Token verified and saved to .env")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}

// writeEnvValue updates or appends one key in a dotenv file.
func writeEnvValue(path, key, value string) error {
	var lines []string
	if data, err := os.ReadFile(path); err == nil {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("unable to read %s: %w", path, err)
	}

	replaced := false
	for i, line := range lines {
		if strings.HasPrefix(line, key+"=") {
			lines[i] = fmt.Sprintf("%s=%s", key, value)
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, fmt.Sprintf("%s=%s", key, value))
	}

	out := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}

	return nil
}
