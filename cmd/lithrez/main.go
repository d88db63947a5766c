package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lithrez/rez"
	"github.com/lithrez/rez/internal/config"
	"github.com/lithrez/rez/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lithrez",
	Short: "Inspect and extract legacy REZ archive files",
}

var infoCmd = &cobra.Command{
	Use:   "info <file.rez>",
	Short: "Print archive header metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var listCmd = &cobra.Command{
	Use:   "list <file.rez>",
	Short: "Print the archive directory tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var extractCmd = &cobra.Command{
	Use:   "extract <file.rez> <output-dir>",
	Short: "Extract archive resources to a directory",
	Args:  cobra.ExactArgs(2),
	RunE:  runExtract,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-output-dir", "", "directory to write log files (if set, logs are written to both stderr and file)")

	extractCmd.Flags().StringArrayP("filter", "f", nil, "glob pattern selecting resources to extract (repeatable)")
	extractCmd.Flags().Int("chunk-size", 0, "extraction copy buffer size in bytes (0 uses the default)")

	viper.BindPFlag("chunk_size", extractCmd.Flags().Lookup("chunk-size"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_output_dir", rootCmd.PersistentFlags().Lookup("log-output-dir"))

	rootCmd.AddCommand(infoCmd, listCmd, extractCmd)
}

// initConfig reads in config file and environment variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "lithrez"))
		}
		viper.AddConfigPath("/etc/lithrez")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("LITHREZ")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setup unmarshals the effective configuration and installs the logger.
func setup() error {
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logging.Setup(cfg.LogLevel, cfg.LogOutputDir); err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}

	return nil
}

// runInfo prints header metadata for one archive
func runInfo(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}

	header, err := rez.ReadFileHeader(args[0])
	if err != nil {
		return fmt.Errorf("failed to read archive header: %w", err)
	}

	fmt.Printf("File type:    %s\n", header.FileType)
	fmt.Printf("Title:        %s\n", header.UserTitle)
	fmt.Printf("Version:      %d\n", header.Version)
	fmt.Printf("Modified:     %d\n", header.Time)
	fmt.Printf("Root block:   %d+%d bytes\n", header.RootDirPosition, header.RootDirSize)
	fmt.Printf("Sorted:       %t\n", header.IsSorted)

	return nil
}

// runList decodes an archive and prints its directory tree
func runList(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}

	slog.Debug("opening archive", "file", args[0])

	r, err := rez.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	header := r.Header()
	fmt.Printf("%s: %s (version %d)\n", filepath.Base(args[0]), header.UserTitle, header.Version)

	return rez.WriteTree(os.Stdout, r.Entries())
}

// runExtract extracts archive resources, optionally narrowed by glob filters
func runExtract(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}

	filters, err := cmd.Flags().GetStringArray("filter")
	if err != nil {
		return err
	}
	filters = append(cfg.Filters, filters...)

	r, err := rez.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	slog.Info("extracting archive", "file", args[0], "output", args[1], "filters", len(filters))
	start := time.Now()

	var count int
	var total int64
	opts := rez.ExtractOptions{
		Filters:        filters,
		CopyChunkSize:  cfg.ChunkSize,
		OnResourceDone: func(res *rez.Resource, written int64, outputPath string) {
			count++
			total += written
			slog.Debug("extracted resource", "path", outputPath, "bytes", written)
		},
	}

	if err := r.Extract(cmd.Context(), args[1], opts); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	slog.Info("extraction complete",
		"resources", count,
		"bytes", total,
		"elapsed", time.Since(start).Round(time.Millisecond))

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
