package main

import (
	"fmt"

	"github.com/mvaldes/scoregraph"
	"github.com/spf13/cobra"
)

var flagLimit int

var queryCmd = &cobra.Command{
	Use:   "query <document.jsonld> <summary|works|top-measures|movements>",
	Short: "Query an extracted graph document",
	Long:  "Projects the document into an in-memory SQLite database and answers one of the built-in queries.",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&flagLimit, "limit", 10, "maximum rows for top-measures (0 = all)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	doc, err := scoregraph.LoadDocument(args[0])
	if err != nil {
		return err
	}

	engine := scoregraph.New()
	q, err := engine.Query(doc)
	if err != nil {
		return err
	}
	defer q.Close()

	switch args[1] {
	case "summary":
		summary, err := q.Summary()
		if err != nil {
			return err
		}
		return output(summary)

	case "works":
		works, err := q.Works()
		if err != nil {
			return err
		}
		return output(works)

	case "top-measures":
		measures, err := q.TopMeasures(flagLimit)
		if err != nil {
			return err
		}
		return output(measures)

	case "movements":
		profiles, err := q.MovementProfiles()
		if err != nil {
			return err
		}
		return output(profiles)
	}
	return fmt.Errorf("unknown query %q: must be summary, works, top-measures or movements", args[1])
}
