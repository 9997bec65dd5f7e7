/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tgi-tools/printer"
)

var Verbose bool
var Debug bool

var configErr error

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tgi-extract [flags] dir",
	Short: "TGI extraction of plot clipped images (drone and gantry)",
	Long: `Compute the Triangular Greenness Index (green - 0.39*red - 0.61*blue)
	for every plot clipped image under dir and summarise each plot as mean,
	median, quartiles, variance and standard deviation.

	dir is searched recursively for files whose name contains ".tif". The
	directory holding each image is the plot id, and dir itself must contain
	the scan date as YYYY-MM-DD. Negative index values are treated as noise
	and left out of the statistics.

	The report is written to <outdir>/<date>_tgi_extraction.<csv|parquet>.

	Settings outside the flags are read from .tgi-extract.yaml (working
	directory or home) or TGI_* environment variables:
		workers:        worker pool size, 0 for one less than the CPU count
		on_error:       fail-fast (default) or skip to leave broken plots out
		format:         csv (default) or parquet
		decoder:        gdal (default) or tiff for the pure Go reader
		exclude_marker: drop report columns containing this, default "named:"
		progress:       show a progress bar, default true`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevels()
		return runExtract(cmd.Context(), args[0])
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	err := rootCmd.Execute()
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			_ = printer.Error(err.Error(), "", "Run 'tgi-extract --help' for usage.")
		}
		os.Exit(1)
	}
}

func setLogLevels() {
	if viper.GetBool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	} else if viper.GetBool("verbose") {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

func initConfig() {
	viper.SetConfigName(".tgi-extract")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetEnvPrefix("TGI")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = err
		}
		return
	}
	logrus.Debugf("Using config file %s", viper.ConfigFileUsed())
}

func init() {
	cobra.OnInitialize(initConfig)

	viper.SetDefault("workers", 0)
	viper.SetDefault("on_error", "fail-fast")
	viper.SetDefault("format", "csv")
	viper.SetDefault("decoder", "gdal")
	viper.SetDefault("exclude_marker", "named:")
	viper.SetDefault("progress", true)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Verbose output")
	err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	if err != nil {
		logrus.Exit(1)
	}
	rootCmd.PersistentFlags().BoolVarP(&Debug, "debug", "d", false, "Debug output")
	err = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	if err != nil {
		logrus.Exit(1)
	}

	rootCmd.Flags().StringP("outdir", "o", "tgi_extraction_out", "Output directory")
	err = viper.BindPFlag("outdir", rootCmd.Flags().Lookup("outdir"))
	if err != nil {
		logrus.Exit(1)
	}

	rootCmd.Flags().StringP("fieldbook", "f", "", "Fieldbook for the season used to append treatment")
	err = viper.BindPFlag("fieldbook", rootCmd.Flags().Lookup("fieldbook"))
	if err != nil {
		logrus.Exit(1)
	}
}
