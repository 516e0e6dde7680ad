package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "keyhavenctl",
	Short: "KeyHaven secrets management server",
	Long:  `keyhavenctl runs and administers the KeyHaven secrets management server.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
