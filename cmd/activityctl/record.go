package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

var (
	recordEventKind      string
	recordRevision       uint32
	recordPayloadFile    string
	recordIdempotencyKey string
)

type recordResponse struct {
	EntryID  string `json:"entry_id"`
	Replayed bool   `json:"replayed,omitempty"`
}

var recordCmd = &cobra.Command{
	Use:   "record <subject-kind> <subject-id>",
	Short: "Append an event to a subject's history",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readPayload(cmd.InOrStdin(), recordPayloadFile)
		if err != nil {
			return err
		}

		body := map[string]interface{}{
			"event_kind": recordEventKind,
			"revision":   recordRevision,
			"payload":    payload,
		}
		var headers map[string]string
		if recordIdempotencyKey != "" {
			headers = map[string]string{"Idempotency-Key": recordIdempotencyKey}
		}

		client := NewClient(apiURL, token)
		path := fmt.Sprintf("/v1/%s/%s/activities", url.PathEscape(args[0]), url.PathEscape(args[1]))
		var resp recordResponse
		if err := client.Post(path, body, headers, &resp); err != nil {
			return err
		}
		if resp.Replayed {
			fmt.Fprintf(cmd.OutOrStdout(), "Entry %s already recorded\n", resp.EntryID)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Entry %s recorded\n", resp.EntryID)
		return nil
	},
}

// readPayload reads a JSON document from path, or from stdin when path is "-".
func readPayload(stdin io.Reader, path string) (json.RawMessage, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	return json.RawMessage(b), nil
}

func init() {
	recordCmd.Flags().StringVar(&recordEventKind, "event-kind", "", "Event kind, e.g. UserCreated")
	recordCmd.Flags().Uint32Var(&recordRevision, "revision", 1, "Payload schema revision")
	recordCmd.Flags().StringVarP(&recordPayloadFile, "payload", "p", "-", `Payload JSON file ("-" reads stdin)`)
	recordCmd.Flags().StringVar(&recordIdempotencyKey, "idempotency-key", "", "Makes retries of this call safe")
	recordCmd.MarkFlagRequired("event-kind")
	rootCmd.AddCommand(recordCmd)
}
