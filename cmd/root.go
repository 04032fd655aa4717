// Package cmd carries the CLI surface: scan flags, the non-interactive
// modes (dry-run, report, undo, history, config helpers), and TUI startup.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/entro314-labs/claudesweep/internal/config"
	"github.com/entro314-labs/claudesweep/internal/history"
	"github.com/entro314-labs/claudesweep/internal/logging"
	"github.com/entro314-labs/claudesweep/internal/scanner"
	"github.com/entro314-labs/claudesweep/internal/trash"
	"github.com/entro314-labs/claudesweep/internal/tui"

	"github.com/entro314-labs/claudesweep/internal/app"
)

var (
	flagPath          string
	flagDryRun        bool
	flagIncludeGlobal bool
	flagPermanent     bool
	flagUndo          bool
	flagHistory       bool
	flagReport        bool
	flagExport        string
	flagInitConfig    bool
	flagConfigPath    bool
)

var rootCmd = &cobra.Command{
	Use:   "claudesweep",
	Short: "Find and delete " + scanner.MarkerName + " directories",
	Long: `claudesweep scans a directory tree for ` + scanner.MarkerName + ` directories, shows
their disk usage and owning project, and deletes the ones you select —
reversibly through the platform trash by default, with an undoable
deletion history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// Execute runs the CLI. Handled conditions (including "nothing to undo")
// exit zero; only unrecoverable setup failures exit non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&flagPath, "path", "p", "", "directory to scan (default: home directory)")
	flags.BoolVar(&flagDryRun, "dry-run", false, "list folders without the interactive TUI")
	flags.BoolVar(&flagIncludeGlobal, "include-global", false, "include the global ~/"+scanner.MarkerName+" directory")
	flags.BoolVar(&flagPermanent, "permanent", false, "permanently delete instead of moving to trash")
	flags.BoolVar(&flagUndo, "undo", false, "undo the last trash-based deletion")
	flags.BoolVar(&flagHistory, "history", false, "show deletion history")
	flags.BoolVar(&flagReport, "report", false, "generate a space analysis report")
	flags.StringVar(&flagExport, "export", "", "report export format: json, csv")
	flags.BoolVar(&flagInitConfig, "init-config", false, "create a default config file")
	flags.BoolVar(&flagConfigPath, "config-path", false, "print the config file location")
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.NewFromEnv()

	if flagConfigPath {
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}

	if flagInitConfig {
		created, err := config.InitDefault()
		if err != nil {
			return fmt.Errorf("create config: %w", err)
		}
		path, _ := config.Path()
		if created {
			fmt.Println("Created config at:", path)
		} else {
			fmt.Println("Config already exists:", path)
		}
		return nil
	}

	if flagUndo {
		return runUndo(logger)
	}
	if flagHistory {
		return runHistory(logger)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load config; using defaults")
	}

	// Root resolution order: flag > config > home directory. A missing
	// home directory is the one unrecoverable setup failure.
	root := flagPath
	if root == "" {
		if len(cfg.Scan.DefaultPaths) > 0 {
			root = cfg.Scan.DefaultPaths[0]
		} else {
			home, homeErr := os.UserHomeDir()
			if homeErr != nil {
				return fmt.Errorf("could not resolve home directory: %w", homeErr)
			}
			root = home
		}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve path %s: %w", root, err)
	}

	includeGlobal := flagIncludeGlobal || cfg.Scan.IncludeGlobal
	permanent := flagPermanent || cfg.Behavior.PermanentDelete
	sc := scanner.New(absRoot, includeGlobal, cfg.Scan.ExcludePatterns)

	if flagReport {
		return runReport(sc, flagExport)
	}
	if flagDryRun {
		return runDryRun(sc)
	}

	method := trash.MethodTrash
	if permanent {
		method = trash.MethodPermanent
	}

	historyPath, err := history.DefaultPath()
	if err != nil {
		logger.Warn().Err(err).Msg("no cache directory; deletions will not be recorded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return tui.Run(ctx, tui.Options{
		Scanner:         sc,
		Backend:         trash.Default(),
		Method:          method,
		ConfirmDeletes:  cfg.Behavior.ConfirmDelete,
		ShowProjectType: cfg.Display.ShowProjectType,
		ShowFilterBar:   cfg.Display.ShowFilterBar,
		DefaultSort:     app.ParseSortOrder(cfg.Display.DefaultSort),
		HistoryPath:     historyPath,
		Logger:          logger,
	})
}

// collectFolders drains a full scan for the non-interactive modes.
func collectFolders(sc *scanner.Scanner) []scanner.Folder {
	var folders []scanner.Folder
	for ev := range sc.Scan(context.Background()) {
		switch ev := ev.(type) {
		case scanner.FoundEvent:
			folders = append(folders, ev.Folder)
		case scanner.CompleteEvent:
			return folders
		}
	}
	return folders
}
