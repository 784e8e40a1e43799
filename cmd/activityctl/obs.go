package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/spf13/cobra"
)

var obsCmd = &cobra.Command{
	Use:   "obs",
	Short: "Observability commands (query a Prometheus-compatible server)",
}

var promURL string

type PromResponse struct {
	Status string `json:"status"`
	Data   struct {
		Result []struct {
			Metric map[string]string `json:"metric"`
			Value  []interface{}     `json:"value"`
		} `json:"result"`
	} `json:"data"`
}

var obsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show request and append rates",
	Run: func(cmd *cobra.Command, args []string) {
		printQueries(cmd.OutOrStdout(), map[string]string{
			"HTTP Request Rate": `sum(rate(activity_http_requests_total[5m]))`,
			"HTTP Error Rate":   `sum(rate(activity_http_requests_total{status=~"5.."}[5m]))`,
			"Append Rate":       `sum(rate(activity_append_total[5m]))`,
			"Active Requests":   `sum(activity_active_requests)`,
		})
	},
}

var obsLatencyCmd = &cobra.Command{
	Use:   "latency",
	Short: "Show request and page latency",
	Run: func(cmd *cobra.Command, args []string) {
		printQueries(cmd.OutOrStdout(), map[string]string{
			"HTTP P50": `histogram_quantile(0.5, sum(rate(activity_http_request_duration_seconds_bucket[5m])) by (le))`,
			"HTTP P95": `histogram_quantile(0.95, sum(rate(activity_http_request_duration_seconds_bucket[5m])) by (le))`,
			"Page P95": `histogram_quantile(0.95, sum(rate(activity_page_duration_seconds_bucket[5m])) by (le))`,
		})
	},
}

var obsDriftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Show decoder drift counters",
	Run: func(cmd *cobra.Command, args []string) {
		printQueries(cmd.OutOrStdout(), map[string]string{
			"Unregistered Decoder": `sum(increase(activity_unregistered_decoder_total[1h]))`,
			"Malformed Payload":    `sum(increase(activity_malformed_payload_total[1h]))`,
		})
	},
}

func printQueries(out io.Writer, queries map[string]string) {
	names := make([]string, 0, len(queries))
	for name := range queries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s: %s\n", name, queryProm(promURL, queries[name]))
	}
}

func queryProm(baseURL, query string) string {
	resp, err := http.Get(baseURL + "/api/v1/query?query=" + url.QueryEscape(query))
	if err != nil {
		return "error: " + err.Error()
	}
	defer resp.Body.Close()

	var promResp PromResponse
	if err := json.NewDecoder(resp.Body).Decode(&promResp); err != nil {
		return "parse error"
	}

	if len(promResp.Data.Result) == 0 {
		return "no data"
	}

	result := promResp.Data.Result[0]
	if len(result.Value) >= 2 {
		return fmt.Sprintf("%v", result.Value[1])
	}
	return "no value"
}

func init() {
	obsCmd.PersistentFlags().StringVar(&promURL, "prom-url", "http://localhost:9090", "Prometheus query API URL")
	obsCmd.AddCommand(obsSummaryCmd, obsLatencyCmd, obsDriftCmd)
	rootCmd.AddCommand(obsCmd)
}
