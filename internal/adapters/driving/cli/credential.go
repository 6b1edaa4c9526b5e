package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/folio-labs/folio-cli/internal/adapters/driven/embedding/openai"
)

// APIKeyEnvVar supplies the remote embedding credential without a
// prompt. The key is held in memory only and never written to disk.
const APIKeyEnvVar = "FOLIO_API_KEY"

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Verify a remote embedding API key",
	Long: `Prompts for an embedding API key with echo disabled and verifies it
against the embeddings endpoint. The key is never stored; export it as
` + APIKeyEnvVar + ` so other commands can use it for the session.`,
	RunE: runCredential,
}

func init() {
	rootCmd.AddCommand(credentialCmd)
}

func runCredential(cmd *cobra.Command, _ []string) error {
	cmd.Print("Enter API key: ")
	key := readSecret()
	cmd.Println()
	if key == "" {
		return errors.New("no API key entered")
	}

	model := ""
	if configStore != nil {
		model = configStore.GetString("embedding.model")
	}

	svc, err := openai.NewEmbeddingService(openai.Config{APIKey: key, Model: model})
	if err != nil {
		return fmt.Errorf("configuring embedding service: %w", err)
	}
	defer svc.Close()

	cmd.Print("Verifying... ")
	if err := svc.Ping(cmd.Context()); err != nil {
		cmd.Println("FAILED")
		return fmt.Errorf("key verification failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Key is valid for %s. Export it for this session:\n", svc.ModelName())
	cmd.Printf("  export %s=...\n", APIKeyEnvVar)
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	// Fallback to regular input for piped stdin.
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
