package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"sjsage522/couponworker/config"
	"sjsage522/couponworker/internal/crawler"
)

func newDemoCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the offline demo spider through the pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Sink = config.SinkFile
			if output == "" {
				output = defaultOutputName(crawler.DemoSpiderName, time.Now())
			}

			summary, err := run(cmd.Context(), runOptions{
				spiders: []crawler.Spider{crawler.NewDemoSpider()},
				output:  output,
			})
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output JSON file (default coupons_demo_coupons_<timestamp>.json)")
	return cmd
}
