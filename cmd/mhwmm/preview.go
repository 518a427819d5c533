package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"mhwmm/internal/core"
	"mhwmm/internal/domain"

	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <archive>",
	Short: "List an archive's entries and where its nativePC folder is",
	Long: `Inspect a mod archive without installing it.

Shows every entry in archive order and whether the archive contains a
nativePC folder (matched case-insensitively, at any depth).

Examples:
  mhwmm preview ~/Downloads/TransmogPlus-1234-1-0.zip
  mhwmm preview --json mod.zip`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	if err := requireZip(args[0]); err != nil {
		return err
	}
	preview, err := core.NewInspector().Inspect(args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(preview); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}

	if preview.HasNativePC {
		fmt.Printf("nativePC: %s\n", colorGreen(preview.NativePCPath))
	} else {
		fmt.Printf("nativePC: %s\n", colorYellow("not found (files will be installed to the game root)"))
	}
	fmt.Printf("Entries (%d):\n", len(preview.Files))
	for _, node := range preview.Files {
		if node.IsDirectory {
			fmt.Printf("  %s/\n", strings.TrimRight(node.Path, `/\`))
			continue
		}
		fmt.Printf("  %s\n", node.Path)
	}
	return nil
}

// requireZip rejects archive formats the extractor cannot read
func requireZip(path string) error {
	if core.NewExtractor().CanExtract(path) {
		return nil
	}
	return domain.Invalid("open archive", path, fmt.Errorf("%w: only .zip archives are supported", domain.ErrArchiveUnreadable))
}
