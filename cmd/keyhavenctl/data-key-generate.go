package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keyhaven/keyhaven/pkg/keybox"
)

// dataKeyGenerateCmd represents the data-key generate command
var dataKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a master encryption key",
	Long: `
Generate a master encryption key

Use this command to generate a new Base64-encoded 256 bit master key. Once
generated, this key should be placed into the environment of the KeyHaven
server. The at-rest encryption key for item secrets is derived from it.

Example:

$ export KEYHAVEN_MASTER_KEY="$(keyhavenctl data-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		bytes, err := keybox.RandomBytes(32)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to generate key:", err)
			os.Exit(1)
		}
		fmt.Printf("%s", base64.StdEncoding.Strict().EncodeToString(bytes))
	},
}

func init() {
	dataKeyCmd.AddCommand(dataKeyGenerateCmd)
}
