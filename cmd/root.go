package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oceanlake",
	Short: "Unified access to the converted ocean observation archives",
	Long: `oceanlake reads the converted parquet archives of the cataloged
ocean observation databases as one table: shared variables aligned,
missing ones padded, every row tagged with its originating database.`,
	SilenceErrors: true,
}

func Execute(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "oceanlake.yml", "Path to the configuration file.")
}
