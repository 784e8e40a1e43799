package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lzjever/mbos-activity/internal/activity"
)

var (
	historyPage     int
	historyPageSize int
	historyScope    string
)

var historyCmd = &cobra.Command{
	Use:   "history <subject-kind> <subject-id>",
	Short: "Show a subject's activity history, newest first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewClient(apiURL, token)

		q := url.Values{}
		q.Set("page", strconv.Itoa(historyPage))
		q.Set("page_size", strconv.Itoa(historyPageSize))
		if historyScope != "" {
			q.Set("scope", historyScope)
		}
		path := fmt.Sprintf("/v1/%s/%s/activities?%s", url.PathEscape(args[0]), url.PathEscape(args[1]), q.Encode())

		var page activity.Page
		if err := client.Get(path, &page); err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), output, page)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyPage, "page", 1, "Page number, starting at 1")
	historyCmd.Flags().IntVar(&historyPageSize, "page-size", 10, "Entries per page")
	historyCmd.Flags().StringVar(&historyScope, "scope", "", `Expected scope: "system" or a tenant id`)
	rootCmd.AddCommand(historyCmd)
}
