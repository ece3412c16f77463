// haircuts — locator and downloader for the BanRep DCV monthly haircut
// publications (Repos and External Debt).
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcvtools/haircuts/api"
	"github.com/dcvtools/haircuts/internal/calendar"
	"github.com/dcvtools/haircuts/internal/config"
	"github.com/dcvtools/haircuts/internal/feed"
	"github.com/dcvtools/haircuts/internal/fetch"
	"github.com/dcvtools/haircuts/internal/infra"
	"github.com/dcvtools/haircuts/internal/resolver"
	"github.com/dcvtools/haircuts/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "haircuts",
	Short: "haircuts — BanRep DCV haircut publication locator",
	Long: `Locates and downloads the monthly collateral haircut files (Repos and
External Debt) published by Banco de la República, working around the
portal's shifting file-naming conventions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("strategy", "", "resolution strategy override (direct, listing, auto)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(monthsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// newResolver assembles the configured resolver stack.
func newResolver(cmd *cobra.Command) resolver.Resolver {
	client := infra.NewHTTPClient(time.Duration(cfg.Resolver.ProbeTimeoutSec) * time.Second)
	limiter := infra.NewRateLimiter(cfg.Resolver.RateLimitPerSec, time.Second)
	cache := infra.NewCache(time.Duration(cfg.Resolver.ListingCacheSec) * time.Second)

	direct := resolver.NewDirect(cfg.Portal.FilesURL, resolver.NewProber(client, limiter))
	listing := resolver.NewListing(cfg.Portal.BaseURL, cfg.Portal.ListingURL,
		cfg.Resolver.MaxListingPages, client, limiter, cache)

	strategy := cfg.Resolver.Strategy
	if override, _ := cmd.Flags().GetString("strategy"); override != "" {
		strategy = override
	}
	switch strategy {
	case "direct":
		return direct
	case "listing":
		return listing
	default:
		return resolver.NewComposite(direct, listing)
	}
}

// parsePeriod validates the category/year/month positional arguments.
func parsePeriod(args []string) (models.Period, error) {
	cat, err := models.ParseCategory(args[0])
	if err != nil {
		return models.Period{}, err
	}
	var year int
	if _, err := fmt.Sscanf(args[1], "%d", &year); err != nil {
		return models.Period{}, fmt.Errorf("invalid year %q", args[1])
	}
	m, err := calendar.ValidateMonth(args[2])
	if err != nil {
		return models.Period{}, err
	}
	return models.Period{Category: cat, Year: year, Month: m.Name}, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("haircuts %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Resolve Command ---

var resolveCmd = &cobra.Command{
	Use:   "resolve [category] [year] [month]",
	Short: "Resolve the file URL for one monthly publication",
	Long: `Resolve the published file URL for a (category, year, month) selection.

Examples:
  haircuts resolve repos 2025 diciembre
  haircuts resolve deuda-externa 2024 enero --strategy listing`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePeriod(args)
		if err != nil {
			return err
		}

		result, err := newResolver(cmd).Resolve(cmd.Context(), p)
		if err != nil {
			return err
		}
		if result.Found {
			fmt.Printf("✅ %s\n   %s  (strategy: %s)\n", p, result.URL, result.Strategy)
			return nil
		}

		fmt.Printf("❌ %s — no published file found; candidates tried:\n", p)
		for _, c := range result.Candidates {
			fmt.Printf("   %s\n", c)
		}
		return nil
	},
}

// --- Fetch Command ---

var fetchCmd = &cobra.Command{
	Use:   "fetch [category] [year] [month]",
	Short: "Resolve and download one monthly publication",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePeriod(args)
		if err != nil {
			return err
		}

		result, err := newResolver(cmd).Resolve(cmd.Context(), p)
		if err != nil {
			return err
		}
		if !result.Found {
			fmt.Printf("❌ %s — no published file found (%d candidates tried)\n",
				p, len(result.Candidates))
			return nil
		}

		fetcher := fetch.New(time.Duration(cfg.Download.TimeoutSec) * time.Second)
		dl, err := fetcher.Download(cmd.Context(), p, result.URL)
		if err != nil {
			return err
		}

		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = cfg.Download.Dir
		}
		dest := filepath.Join(outDir, dl.Filename)
		if err := os.WriteFile(dest, dl.Bytes, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
		fmt.Printf("✅ %s (%d bytes)\n", dest, dl.Size)
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("out", "", "output directory (default: download.dir)")
}

// --- Batch Command ---

var batchCmd = &cobra.Command{
	Use:   "batch [year]",
	Short: "Resolve a whole year of publications",
	Long: `Resolve every month of a year for one or both categories, optionally
downloading the found files into a single zip archive.

Examples:
  haircuts batch 2024
  haircuts batch 2023 --category repos --zip haircuts-2023.zip`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var year int
		if _, err := fmt.Sscanf(args[0], "%d", &year); err != nil {
			return fmt.Errorf("invalid year %q", args[0])
		}

		categories := []models.Category{models.CategoryRepos, models.CategoryExternalDebt}
		if catArg, _ := cmd.Flags().GetString("category"); catArg != "" {
			cat, err := models.ParseCategory(catArg)
			if err != nil {
				return err
			}
			categories = []models.Category{cat}
		}

		var periods []models.Period
		for _, cat := range categories {
			for _, m := range calendar.Months() {
				periods = append(periods, models.Period{Category: cat, Year: year, Month: m.Name})
			}
		}

		items := resolver.Batch(cmd.Context(), newResolver(cmd), periods, cfg.Batch.Concurrency)

		var found []resolver.BatchItem
		for _, item := range items {
			switch {
			case item.Err != nil:
				fmt.Printf("⚠️  %s — %v\n", item.Period, item.Err)
			case item.Result.Found:
				fmt.Printf("✅ %s → %s\n", item.Period, item.Result.URL)
				found = append(found, item)
			default:
				fmt.Printf("❌ %s\n", item.Period)
			}
		}
		fmt.Printf("\n%d/%d publications located\n", len(found), len(periods))

		zipPath, _ := cmd.Flags().GetString("zip")
		if zipPath == "" || len(found) == 0 {
			return nil
		}

		fetcher := fetch.New(time.Duration(cfg.Download.TimeoutSec) * time.Second)
		var downloads []*models.Download
		for _, item := range found {
			dl, err := fetcher.Download(cmd.Context(), item.Period, item.Result.URL)
			if err != nil {
				fmt.Printf("⚠️  %v\n", err)
				continue
			}
			downloads = append(downloads, dl)
		}

		archive, err := fetch.Zip(downloads)
		if err != nil {
			return err
		}
		if err := os.WriteFile(zipPath, archive, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", zipPath, err)
		}
		fmt.Printf("📦 %s (%d files)\n", zipPath, len(downloads))
		return nil
	},
}

func init() {
	batchCmd.Flags().String("category", "", "limit to one category (repos, deuda-externa)")
	batchCmd.Flags().String("zip", "", "download found files into this zip archive")
}

// --- Latest Command ---

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "List recent haircut announcements from the portal feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := feed.NewWatcher(cfg.Portal.FeedURL).Latest(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("fetch portal feed: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("no haircut announcements in the feed")
			return nil
		}
		for _, e := range entries {
			stamp := ""
			if !e.PublishedAt.IsZero() {
				stamp = e.PublishedAt.Format("2006-01-02") + "  "
			}
			fmt.Printf("%s%s\n   %s\n", stamp, e.Title, e.URL)
		}
		return nil
	},
}

func init() {
	latestCmd.Flags().Int("limit", 10, "maximum entries to list")
}

// --- Months Command ---

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List the month vocabulary and supported years",
	Run: func(cmd *cobra.Command, args []string) {
		for _, m := range calendar.Months() {
			fmt.Printf("%s  %s\n", m.Num2D, m.Name)
		}
		years := calendar.Years()
		fmt.Printf("\nyears: %d–%d\n", years[0], years[len(years)-1])
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		fetcher := fetch.New(time.Duration(cfg.Download.TimeoutSec) * time.Second)
		srv := api.NewServer(cfg, newResolver(cmd), fetcher)
		return srv.Run()
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  haircuts — Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:    %s (%s)\n", version, commit)
		fmt.Println()
		fmt.Println("  Configuration:")
		fmt.Printf("    Portal:     %s\n", cfg.Portal.BaseURL)
		fmt.Printf("    Files root: %s\n", cfg.Portal.FilesURL)
		fmt.Printf("    Listing:    %s\n", cfg.Portal.ListingURL)
		fmt.Printf("    Strategy:   %s\n", cfg.Resolver.Strategy)
		fmt.Printf("    Batch:      %d workers\n", cfg.Batch.Concurrency)
		fmt.Printf("    API:        %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
