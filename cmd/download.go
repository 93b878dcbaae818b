package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oceanlake/oceanlake/catalog"
	"github.com/oceanlake/oceanlake/config"
	"github.com/oceanlake/oceanlake/download"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:     "download",
	Short:   "Download a database release archive and unpack it",
	Example: `oceanlake download -d ARGO --domain PHY --destination /data/releases`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Read(configPath)
		if err != nil {
			return fmt.Errorf("couldn't read config: %w", err)
		}
		if downloadDestination != "" {
			cfg.Download.Destination = downloadDestination
		}
		if downloadBaseURL != "" {
			cfg.Download.BaseURL = downloadBaseURL
		}

		domainName := downloadDomain
		if domainName == "" {
			domainName = string(catalog.PHY)
		}
		domain, err := catalog.ParseDomain(domainName)
		if err != nil {
			return err
		}

		client := &download.Client{BaseURL: cfg.Download.BaseURL}
		dir, err := client.Fetch(ctx, downloadDatabase, domain, !downloadNoQC, cfg.Download.Destination)
		if err != nil {
			return fmt.Errorf("couldn't download database %s: %w", downloadDatabase, err)
		}

		fmt.Printf("Downloaded %s to %s\n", downloadDatabase, dir)
		return nil
	},
}

var downloadDatabase string
var downloadDomain string
var downloadNoQC bool
var downloadDestination string
var downloadBaseURL string

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringVarP(&downloadDatabase, "database", "d", "", "Database to download.")
	downloadCmd.Flags().StringVar(&downloadDomain, "domain", "", "Parameter domain, PHY or BGC.")
	downloadCmd.Flags().BoolVar(&downloadNoQC, "no-qc", false, "Download the full release instead of the QC one.")
	downloadCmd.Flags().StringVar(&downloadDestination, "destination", "", "Directory to unpack the release into.")
	downloadCmd.Flags().StringVar(&downloadBaseURL, "base-url", "", "Release store URL.")
	downloadCmd.MarkFlagRequired("database")
}
