package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mhwmm/internal/core"
	"mhwmm/internal/source/nexusmods"
	"mhwmm/internal/tui"
	"mhwmm/internal/tui/views"

	"github.com/spf13/cobra"
)

var (
	installName       string
	installNexusID    string
	installCategories []string
	installEnable     bool
)

var installCmd = &cobra.Command{
	Use:   "install [archive]",
	Short: "Install a mod archive into the mod store",
	Long: `Extract a ZIP archive into the mod store and register it as a disabled mod.

The archive may be a local path or an http(s) URL. When no archive is
given, a file picker opens. The mod name defaults to the
Nexus Mods name when a Nexus ID is known and an API key is available, and to
the title parsed from the archive file name otherwise. Nexus download names
like "Title-1234-1-0-1700000000.zip" also provide the Nexus ID.

Examples:
  mhwmm install ~/Downloads/TransmogPlus-1234-1-0.zip
  mhwmm install mod.zip --name "Better Lighting" --category Cosmetic
  mhwmm install mod.zip --nexus-id 1234 --enable
  mhwmm install https://example.com/files/Mod-1234-1-0.zip`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVarP(&installName, "name", "n", "", "mod name (default: derived from the archive)")
	installCmd.Flags().StringVar(&installNexusID, "nexus-id", "", "Nexus Mods ID")
	installCmd.Flags().StringSliceVarP(&installCategories, "category", "c", nil, "category (repeatable)")
	installCmd.Flags().BoolVar(&installEnable, "enable", false, "enable the mod after installing")

	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	var archive string
	if len(args) > 0 {
		archive = args[0]
	} else {
		archive, err = svc.SelectArchive(ctx, tui.NewPicker(""))
		if err != nil {
			return cancelledOnNoSelection(err)
		}
	}

	if core.IsRemoteArchive(archive) {
		tmpDir, err := os.MkdirTemp("", "mhwmm-download-")
		if err != nil {
			return fmt.Errorf("creating download directory: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		result, err := core.NewDownloader(nil).Fetch(ctx, archive, tmpDir, printProgress)
		if err != nil {
			return err
		}
		fmt.Println()
		if verbose {
			fmt.Printf("Downloaded %s (sha256 %s)\n", filepath.Base(result.Path), result.SHA256)
		}
		archive = result.Path
	}

	if err := requireZip(archive); err != nil {
		return err
	}

	parsed := core.ParseArchiveName(archive)
	nexusID := installNexusID
	if nexusID == "" {
		nexusID = parsed.NexusID
	}

	name := installName
	if name == "" {
		name = lookupNexusName(ctx, svc, nexusID)
	}
	if name == "" {
		name = parsed.Title
	}

	manifest, err := svc.Install(ctx, core.InstallRequest{
		ArchivePath: archive,
		Name:        name,
		ExternalID:  nexusID,
		Categories:  installCategories,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Installed %s (%d files, %s)\n", manifest.Name, manifest.Files.Count(), views.FormatSize(manifest.FileSize))
	if len(manifest.Files.NativePC) == 0 {
		fmt.Println(colorYellow("  No nativePC folder found; files will be placed in the game root"))
	}

	if !installEnable {
		fmt.Printf("Run 'mhwmm enable %q' to activate it.\n", manifest.Name)
		return nil
	}
	if err := svc.Enable(ctx, manifest.Name); err != nil {
		return fmt.Errorf("enabling %s: %w", manifest.Name, err)
	}
	fmt.Printf("Enabled %s\n", manifest.Name)
	return nil
}

func printProgress(p core.DownloadProgress) {
	if p.TotalBytes > 0 {
		fmt.Printf("\rDownloading... %3.0f%% (%s)", p.Percentage, views.FormatSize(p.TotalBytes))
		return
	}
	fmt.Printf("\rDownloading... %s", views.FormatSize(p.Downloaded))
}

// lookupNexusName fetches the mod name from Nexus Mods. Lookups are best
// effort: without a key or on any failure it returns "".
func lookupNexusName(ctx context.Context, svc *core.Service, nexusID string) string {
	if nexusID == "" {
		return ""
	}
	apiKey := getNexusAPIKey(svc)
	if apiKey == "" {
		return ""
	}
	paths, err := resolvePaths()
	if err != nil {
		return ""
	}

	info, err := nexusmods.NewClient(nil, apiKey).GetMod(ctx, paths.Prefs.NexusGameDomain, nexusID)
	if err != nil {
		if verbose {
			fmt.Printf("Nexus lookup for %s failed: %v\n", nexusID, err)
		}
		return ""
	}
	return strings.TrimSpace(info.Name)
}
