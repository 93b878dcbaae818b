package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oceanlake/oceanlake/config"
	"github.com/oceanlake/oceanlake/loader"
	"github.com/oceanlake/oceanlake/output"
)

// peekCmd represents the peek command
var peekCmd = &cobra.Command{
	Use:   "peek",
	Short: "Print the first rows of the unified dataset",
	Example: `oceanlake peek --root /data/releases --limit 20
oceanlake peek --databases ARGO,GLODAP --domain BGC --variables LATITUDE,DOXY,DB_NAME`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Read(configPath)
		if err != nil {
			return fmt.Errorf("couldn't read config: %w", err)
		}
		if peekRoot != "" {
			cfg.RootPath = peekRoot
		}
		if len(peekDatabases) > 0 {
			cfg.Databases = peekDatabases
		}
		if peekDomain != "" {
			cfg.Domain = peekDomain
		}
		if len(peekVariables) > 0 {
			cfg.Variables = peekVariables
		}
		if peekNoQC {
			cfg.NoQC = true
		}

		session, err := loader.New(loader.Options{
			Databases: cfg.Databases,
			Domain:    cfg.Domain,
			Variables: cfg.Variables,
			RootPath:  cfg.RootPath,
			NoQC:      cfg.NoQC,
		})
		if err != nil {
			return fmt.Errorf("couldn't create loading session: %w", err)
		}

		result, err := session.Get(ctx, loader.GetOptions{})
		if err != nil {
			return fmt.Errorf("couldn't load dataset: %w", err)
		}

		formatter, err := output.NewFormatter(os.Stdout, peekFormat)
		if err != nil {
			return err
		}
		if err := output.Print(ctx, result, formatter, peekLimit); err != nil {
			return fmt.Errorf("couldn't print dataset: %w", err)
		}
		return nil
	},
}

var peekRoot string
var peekDatabases []string
var peekDomain string
var peekVariables []string
var peekNoQC bool
var peekLimit int
var peekFormat string

func init() {
	rootCmd.AddCommand(peekCmd)
	peekCmd.Flags().StringVar(&peekRoot, "root", "", "Directory the source directories live under.")
	peekCmd.Flags().StringSliceVar(&peekDatabases, "databases", nil, "Databases to read, all cataloged ones when empty.")
	peekCmd.Flags().StringVar(&peekDomain, "domain", "", "Parameter domain, PHY or BGC.")
	peekCmd.Flags().StringSliceVar(&peekVariables, "variables", nil, "Variables to read, the full admitted universe when empty.")
	peekCmd.Flags().BoolVar(&peekNoQC, "no-qc", false, "Admit the non-quality-controlled variables too.")
	peekCmd.Flags().IntVar(&peekLimit, "limit", 20, "Number of rows to print, 0 for all.")
	peekCmd.Flags().StringVar(&peekFormat, "output", "table", "Output format, table or csv.")
}
