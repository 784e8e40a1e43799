package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lzjever/mbos-activity/internal/activity"
)

func printResult(out io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		return printYAML(out, v)
	case "table", "":
		printTable(out, v)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// printYAML goes through JSON first so keys follow the json tags.
func printYAML(out io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := json.Unmarshal(b, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(generic)
}

func printTable(out io.Writer, v interface{}) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	switch data := v.(type) {
	case activity.Page:
		if len(data.Items) == 0 {
			fmt.Fprintf(out, "No activity on page %d (%d entries in %d pages).\n", data.Page, data.TotalCount, data.PageCount)
			return
		}
		fmt.Fprintln(w, "TIMESTAMP\tACTOR\tMESSAGE")
		for _, it := range data.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\n", it.Timestamp.UTC().Format(time.RFC3339), it.ActorFullName, truncate(it.Message, 80))
		}
		fmt.Fprintf(w, "\nPage %d/%d\t%d entries\t\n", data.Page, data.PageCount, data.TotalCount)
	case []CatalogRow:
		fmt.Fprintln(w, "EVENT KIND\tREVISION\tSUBJECT")
		for _, r := range data {
			fmt.Fprintf(w, "%s\t%d\t%s\n", r.EventKind, r.Revision, r.SubjectKind)
		}
	case DriftReport:
		fmt.Fprintf(w, "Stored kinds:\t%d\n", data.Stored)
		fmt.Fprintf(w, "Registered decoders:\t%d\n", data.Registered)
		if len(data.Missing) == 0 {
			fmt.Fprintln(w, "Missing decoders:\tnone")
		}
		for _, k := range data.Missing {
			fmt.Fprintf(w, "Missing decoder:\t%s\n", k)
		}
	default:
		json.NewEncoder(out).Encode(v)
	}
	w.Flush()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
