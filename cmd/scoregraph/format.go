package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mvaldes/scoregraph"
)

// output renders a query result on stdout in the selected format.
func output(result any) error {
	if flagFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return outputText(os.Stdout, result)
}

func outputText(w io.Writer, result any) error {
	switch v := result.(type) {
	case *scoregraph.GraphSummary:
		formatSummaryText(w, v)
	case []scoregraph.WorkInfo:
		formatWorksText(w, v)
	case []scoregraph.MeasureComplexity:
		formatMeasuresText(w, v)
	case []scoregraph.MovementProfile:
		formatMovementsText(w, v)
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

func formatSummaryText(w io.Writer, summary *scoregraph.GraphSummary) {
	fmt.Fprintln(w, "Graph Summary")
	fmt.Fprintln(w, "=============")
	fmt.Fprintf(w, "Nodes: %d\n", summary.Nodes)
	fmt.Fprintf(w, "Edges: %d\n", summary.Edges)
	fmt.Fprintln(w)

	if len(summary.Types) > 0 {
		fmt.Fprintln(w, "Types:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, tc := range summary.Types {
			fmt.Fprintf(tw, "  %s\t%d\n", tc.Type, tc.Count)
		}
		tw.Flush()
	}
}

func formatWorksText(w io.Writer, works []scoregraph.WorkInfo) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPOSER\tSOURCE")
	for _, work := range works {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", work.ID, work.Title, work.Composer, work.Source)
	}
	tw.Flush()
}

func formatMeasuresText(w io.Writer, measures []scoregraph.MeasureComplexity) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MEASURE\tNUMBER\tLCI\tNOTES")
	for _, m := range measures {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%d\n", m.MeasureID, m.Number, m.LCI, m.NoteCount)
	}
	tw.Flush()
}

func formatMovementsText(w io.Writer, profiles []scoregraph.MovementProfile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MOVEMENT\tINDEX\tGCI\tMEASURES")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%d\n", p.MovementID, p.Index, p.GCI, p.MeasureCount)
	}
	tw.Flush()
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
