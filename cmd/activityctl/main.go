package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL string
	output string
	token  string
)

var rootCmd = &cobra.Command{
	Use:   "activityctl",
	Short: "Activity log CLI",
	Long:  `activityctl queries subject activity history and operates the activity log store.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&apiURL, "api-url", "a", "http://localhost:8080", "Activity API URL")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", os.Getenv("ACTIVITY_TOKEN"), "Bearer token (default $ACTIVITY_TOKEN)")
}
