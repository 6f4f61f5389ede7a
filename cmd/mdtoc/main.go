package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"mdtoc/internal/config"
	"mdtoc/internal/crawler"
	"mdtoc/internal/git"
	"mdtoc/internal/markdown"
	"mdtoc/internal/toc"
	"mdtoc/internal/watch"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "mdtoc",
		Short: "Keep Markdown tables of contents in sync with document headings",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the mdtoc config file")

	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(watchCmd)

	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookRunCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// target is one file to process. Files named directly on the command line are
// explicit: a missing TOC region is an error for them, while crawled files
// without markers are simply not TOC-managed and get skipped.
type target struct {
	path     string
	explicit bool
}

// skipMissingMarkers reports whether an update error should be ignored for a
// target: crawled files without a TOC region are simply not managed, while
// files named explicitly on the command line must have one.
func skipMissingMarkers(err error, t target) bool {
	return errors.Is(err, toc.ErrNoMarkers) && !t.explicit
}

func resolveTargets(cfg *config.Config, args []string) []target {
	if len(args) == 0 {
		args = []string{"."}
	}
	cr := crawler.New(cfg.Extensions, cfg.IgnoreDirs)
	var targets []target
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			log.Fatalf("Failed to stat %s: %v", arg, err)
		}
		if info.IsDir() {
			if err := cr.Scan(arg, func(path string) {
				targets = append(targets, target{path: path})
			}); err != nil {
				log.Fatalf("Failed to scan %s: %v", arg, err)
			}
			continue
		}
		targets = append(targets, target{path: arg, explicit: true})
	}
	return targets
}

var updateCmd = &cobra.Command{
	Use:   "update [path...]",
	Short: "Regenerate the TOC region of Markdown documents",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		u := toc.NewUpdater(cfg)

		updated, failed := 0, 0
		for _, t := range resolveTargets(cfg, args) {
			changed, err := u.UpdateFile(t.path)
			switch {
			case skipMissingMarkers(err, t):
				// Crawled file without a TOC region; nothing to maintain.
			case err != nil:
				log.Printf("⚠️  %v", err)
				failed++
			case changed:
				fmt.Printf("✍️  %s\n", t.path)
				updated++
			}
		}

		fmt.Printf("✅ %d updated, %d failed\n", updated, failed)
		if failed > 0 {
			os.Exit(1)
		}
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [path...]",
	Short: "Verify TOC regions are up to date without writing (CI mode)",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		u := toc.NewUpdater(cfg)

		stale, failed := 0, 0
		for _, t := range resolveTargets(cfg, args) {
			needsUpdate, err := u.CheckFile(t.path)
			switch {
			case skipMissingMarkers(err, t):
			case err != nil:
				log.Printf("⚠️  %v", err)
				failed++
			case needsUpdate:
				fmt.Printf("📝 %s: TOC is stale\n", t.path)
				stale++
			}
		}

		if stale > 0 || failed > 0 {
			fmt.Printf("❌ %d stale, %d failed. Run 'mdtoc update' to fix.\n", stale, failed)
			os.Exit(1)
		}
		fmt.Println("✅ All TOCs up to date.")
	},
}

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "Print the heading outline of a Markdown document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("Failed to read %s: %v", args[0], err)
		}
		for _, h := range markdown.ExtractHeadings(source) {
			fmt.Printf("%s%s (h%d)\n", strings.Repeat("  ", h.Level-1), h.Text, h.Level)
		}
	},
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Pre-commit hook integration",
}

const preCommitScript = `#!/bin/sh
# Installed by mdtoc. Regenerates tables of contents for staged Markdown files
# and re-stages them before the commit completes.
exec mdtoc hook run
`

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install mdtoc as the repository's pre-commit hook",
	Run: func(cmd *cobra.Command, args []string) {
		hooksDir, err := git.HooksDir()
		if err != nil {
			log.Fatalf("Failed to locate hooks directory: %v", err)
		}
		hookPath := filepath.Join(hooksDir, "pre-commit")
		if _, err := os.Stat(hookPath); err == nil {
			log.Fatalf("A pre-commit hook already exists at %s; remove it first", hookPath)
		}
		if err := os.MkdirAll(hooksDir, 0755); err != nil {
			log.Fatalf("Failed to create hooks directory: %v", err)
		}
		if err := os.WriteFile(hookPath, []byte(preCommitScript), 0755); err != nil {
			log.Fatalf("Failed to write hook: %v", err)
		}
		fmt.Printf("✅ Installed pre-commit hook at %s\n", hookPath)
	},
}

var hookRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Update TOCs of staged Markdown files and re-stage them",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		u := toc.NewUpdater(cfg)

		staged, err := git.StagedMarkdownFiles(cfg.Extensions)
		if err != nil {
			log.Fatalf("Failed to list staged files: %v", err)
		}
		if len(staged) == 0 {
			return
		}

		var restage []string
		for _, path := range staged {
			changed, err := u.UpdateFile(path)
			switch {
			case errors.Is(err, toc.ErrNoMarkers):
				// Staged Markdown without a TOC region; not managed.
			case err != nil:
				log.Fatalf("Pre-commit TOC update failed: %v", err)
			case changed:
				fmt.Printf("✍️  %s\n", path)
				restage = append(restage, path)
			}
		}

		if err := git.Add(restage); err != nil {
			log.Fatalf("Failed to re-stage updated files: %v", err)
		}
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a tree and regenerate TOCs on save",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		u := toc.NewUpdater(cfg)
		cr := crawler.New(cfg.Extensions, cfg.IgnoreDirs)

		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		w, err := watch.New(
			func(path string) bool { return cr.Matches(filepath.Base(path)) },
			func(path string) {
				changed, err := u.UpdateFile(path)
				switch {
				case errors.Is(err, toc.ErrNoMarkers):
				case err != nil:
					log.Printf("⚠️  %v", err)
				case changed:
					fmt.Printf("✍️  %s\n", path)
				}
			},
			func(path string) bool {
				base := filepath.Base(path)
				for _, ign := range cfg.IgnoreDirs {
					if base == ign {
						return false
					}
				}
				return true
			},
		)
		if err != nil {
			log.Fatalf("Failed to create watcher: %v", err)
		}

		dirs, err := cr.Dirs(root)
		if err != nil {
			log.Fatalf("Failed to walk %s: %v", root, err)
		}
		for _, dir := range dirs {
			if err := w.Add(dir); err != nil {
				log.Printf("⚠️  Cannot watch %s: %v", dir, err)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := w.Start(ctx); err != nil {
			log.Fatalf("Failed to start watcher: %v", err)
		}
		fmt.Printf("👀 Watching %d directories under %s (Ctrl-C to stop)\n", len(dirs), root)
		<-ctx.Done()
		w.Stop()
	},
}
