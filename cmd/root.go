/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Global flags
var (
	logFile  string
	logLevel string
	dataDir  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spotlook",
	Short: "Browse Spotify artists from the terminal",
	Long: `spotlook is a terminal client for browsing Spotify artists.

It signs in with your Spotify account using the Authorization Code with PKCE
flow (a browser window opens the first time), then lets you search artists
and look at their profile, top tracks and discography, either through
one-shot commands or the interactive 'spotlook tui'.

Register an app at https://developer.spotify.com/dashboard and add
http://127.0.0.1:5173/auth as a redirect URI before running 'spotlook auth'.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default: log.file from config, else stderr)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory for the session store (default: ~/.local/share/spotlook)")
}
