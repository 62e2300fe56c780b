package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sjsage522/couponworker/config"
	"sjsage522/couponworker/internal/crawler"
	"sjsage522/couponworker/logger"
	"sjsage522/couponworker/services/cache"
)

type crawlFlags struct {
	output   string
	pages    int
	category string
	spider   string
	sink     string
	profiles string
}

func newCrawlCommand() *cobra.Command {
	flags := &crawlFlags{}

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl coupon sites and write the accepted coupons",
		Example: `  couponworker crawl --spider coupons_com --pages 5
  couponworker crawl -s retailmenot -o retailmenot.json
  couponworker crawl -s coupons_com,retailmenot --sink redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output JSON file (default coupons_<spider>_<timestamp>.json)")
	cmd.Flags().IntVarP(&flags.pages, "pages", "p", 0, "maximum number of pages to fetch (0 = no limit)")
	cmd.Flags().StringVarP(&flags.category, "category", "c", "", "category of interest (recorded only, results are not filtered)")
	cmd.Flags().StringVarP(&flags.spider, "spider", "s", "coupons_com", "spider to run: coupons_com, coupons, retailmenot, demo_coupons (comma-separated for several)")
	cmd.Flags().StringVar(&flags.sink, "sink", "", "output sink: file or redis (default from SINK)")
	cmd.Flags().StringVar(&flags.profiles, "profiles", "", "YAML file with extra site profiles (default from PROFILES_FILE)")

	return cmd
}

func runCrawl(cmd *cobra.Command, flags *crawlFlags) error {
	if flags.pages < 0 {
		return fmt.Errorf("--pages must be non-negative, got %d", flags.pages)
	}
	if flags.sink != "" {
		cfg.Sink = strings.ToLower(flags.sink)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	profilesFile := cfg.ProfilesFile
	if flags.profiles != "" {
		profilesFile = flags.profiles
	}

	profiles, err := crawler.LoadProfiles(profilesFile)
	if err != nil {
		return err
	}

	cacheSvc := cache.New(cfg.MemcacheAddr)
	opts := crawler.OptionsFromConfig(cfg, flags.pages)
	spiders, err := crawler.CreateSpiders(flags.spider, profiles, opts, cacheSvc)
	if err != nil {
		return err
	}

	output := flags.output
	if output == "" && cfg.Sink == config.SinkFile {
		output = defaultOutputName(strings.ReplaceAll(flags.spider, ",", "_"), time.Now())
	}

	categoryNote(cmd.OutOrStdout(), flags.category)
	logger.Default.Info().
		Str("spider", flags.spider).
		Int("pages", flags.pages).
		Str("sink", cfg.Sink).
		Str("output", output).
		Str("category", flags.category).
		Msg("Starting crawl")

	summary, err := run(cmd.Context(), runOptions{
		spiders:  spiders,
		output:   output,
		interval: cfg.CrawlInterval,
	})
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), summary, output)
	return nil
}
