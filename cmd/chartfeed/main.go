package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configFile string

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// A missing .env is fine; real environment variables still apply.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chartfeed",
		Short:         "Currency pair price charts from CryptoCompare history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultCfg, "Path to config file")

	rootCmd.AddCommand(newServeCmd(), newChartCmd(), newExportCmd())
	return rootCmd
}
