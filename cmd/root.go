// Package cmd provides command-line interface functionality for tmxtools.
// tmxtools is a collection of utilities for inspecting and converting
// TMX texture containers from PlayStation 2 era games.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// It provides the main entry point for the tmxtools application.
var rootCmd = &cobra.Command{
	Use:   "tmxtools",
	Short: "Tools for inspecting and converting PS2 TMX texture files",
	Long: `tmxtools - A collection of utilities for decoding and encoding
TMX texture containers used by PlayStation 2 era games.

Currently supports:
  - TMX decode (TMX -> PNG/BMP raster + YAML metadata sidecar)
  - TMX encode (PNG/BMP raster + YAML metadata -> TMX)
  - TMX info (inspect header fields without writing any output)

Examples:
  tmxtools tmx decode TEXTURE.TMX texture.png
  tmxtools tmx encode texture.png TEXTURE.TMX --format PSMT8
  tmxtools tmx info TEXTURE.TMX

Use 'tmxtools [command] --help' for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main() and serves as the entry point for command execution.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
