package cmd

import (
	"github.com/spf13/cobra"

	"sjsage522/couponworker/config"
	"sjsage522/couponworker/internal/crawler"
)

func newExtractCommand() *cobra.Command {
	var (
		site      string
		sourceURL string
		output    string
		profiles  string
	)

	cmd := &cobra.Command{
		Use:   "extract <file.html>...",
		Short: "Extract coupons from saved HTML pages using a site profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if profiles == "" {
				profiles = cfg.ProfilesFile
			}
			loaded, err := crawler.LoadProfiles(profiles)
			if err != nil {
				return err
			}
			profile, ok := loaded[site]
			if !ok {
				return errUnknownSite(site, loaded)
			}

			cfg.Sink = config.SinkFile
			spider := crawler.NewFileSpider(profile, cfg.MaxFragmentsPerPage, sourceURL, args...)
			summary, err := run(cmd.Context(), runOptions{
				spiders: []crawler.Spider{spider},
				output:  output,
			})
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary, output)
			return nil
		},
	}

	cmd.Flags().StringVar(&site, "site", "coupons_com", "site profile used to read the pages")
	cmd.Flags().StringVar(&sourceURL, "url", "", "source URL stamped on the records (default file:// path)")
	cmd.Flags().StringVarP(&output, "output", "o", "extracted_coupons.json", "output JSON file")
	cmd.Flags().StringVar(&profiles, "profiles", "", "YAML file with extra site profiles")
	return cmd
}
