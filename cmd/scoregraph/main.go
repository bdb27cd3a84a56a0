package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mvaldes/scoregraph"
	"github.com/spf13/cobra"
)

var flagFormat string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "scoregraph",
	Short:         "MusicXML to property-graph extraction with complexity profiling",
	Long:          "Scoregraph converts MusicXML piano scores into a JSON-LD property graph and derives per-measure and per-movement technical complexity indices.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(queryCmd)
}

var (
	flagOut   string
	flagMerge bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <score.xml>",
	Short: "Extract a MusicXML score into a JSON-LD graph document",
	Long:  "Runs the metadata, structure, notation, expression, and complexity passes over a MusicXML file and writes the resulting graph document.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&flagOut, "out", "o", "", "output path (default: input base name with .jsonld)")
	extractCmd.Flags().BoolVar(&flagMerge, "merge", false, "merge into the output document if it already exists")
}

func runExtract(cmd *cobra.Command, args []string) error {
	start := time.Now()

	engine := scoregraph.New()
	sc, err := scoregraph.ParseFile(args[0])
	if err != nil {
		return err
	}

	outPath := flagOut
	if outPath == "" {
		outPath = jsonldPath(args[0])
	}

	var (
		doc *scoregraph.Document
		sum scoregraph.Summary
	)
	if flagMerge {
		if doc, err = mergeTarget(outPath); err != nil {
			return err
		}
		if sum, err = engine.ExtractInto(doc, sc); err != nil {
			return err
		}
	} else {
		if doc, sum, err = engine.Extract(sc); err != nil {
			return err
		}
	}

	if err := scoregraph.SaveDocument(doc, outPath); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr,
		"Extracted %s in %s: %d movements, %d measures, %d notes, %d rests\n",
		filepath.Base(args[0]), time.Since(start).Round(time.Millisecond),
		sum.Movements, sum.Measures, sum.Notes, sum.Rests)
	if sum.SkippedPitches > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d notes without a usable pitch\n", sum.SkippedPitches)
	}
	fmt.Fprintf(os.Stderr, "Document: %s\n", outPath)
	return nil
}

var profileCmd = &cobra.Command{
	Use:   "profile <document.jsonld | score.xml | directory>",
	Short: "Compute or refresh the complexity profile of graph documents",
	Long:  "Recomputes the per-measure local complexity indices and per-movement global complexity profiles. Accepts an extracted JSON-LD document, a directory of them, or a MusicXML file which is extracted first.",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().StringVarP(&flagOut, "out", "o", "", "output path (default: rewrite the document in place)")
}

func runProfile(cmd *cobra.Command, args []string) error {
	engine := scoregraph.New()

	if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
		if flagOut != "" {
			return fmt.Errorf("--out does not apply when profiling a directory")
		}
		return profileDir(engine, args[0])
	}

	var doc *scoregraph.Document
	outPath := flagOut

	if isMusicXML(args[0]) {
		extracted, _, err := engine.ExtractFile(args[0])
		if err != nil {
			return err
		}
		doc = extracted
		if outPath == "" {
			outPath = jsonldPath(args[0])
		}
	} else {
		loaded, err := scoregraph.LoadDocument(args[0])
		if err != nil {
			return err
		}
		doc = loaded
		if err := engine.Profile(doc); err != nil {
			return err
		}
		if outPath == "" {
			outPath = args[0]
		}
	}

	if err := scoregraph.SaveDocument(doc, outPath); err != nil {
		return err
	}
	return reportProfiles(engine, doc, outPath)
}

// profileDir recomputes every .jsonld document in a directory in place.
func profileDir(engine *scoregraph.Engine, dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.jsonld"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .jsonld documents in %s", dir)
	}
	for _, path := range paths {
		doc, err := scoregraph.LoadDocument(path)
		if err != nil {
			return err
		}
		if err := engine.Profile(doc); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := scoregraph.SaveDocument(doc, path); err != nil {
			return err
		}
		if err := reportProfiles(engine, doc, path); err != nil {
			return err
		}
	}
	return nil
}

func reportProfiles(engine *scoregraph.Engine, doc *scoregraph.Document, outPath string) error {
	q, err := engine.Query(doc)
	if err != nil {
		return err
	}
	defer q.Close()

	profiles, err := q.MovementProfiles()
	if err != nil {
		return err
	}
	for _, p := range profiles {
		fmt.Fprintf(os.Stderr, "Movement %d: GCI %.4f over %d measures\n",
			p.Index, p.GCI, p.MeasureCount)
	}
	fmt.Fprintf(os.Stderr, "Document: %s\n", outPath)
	return nil
}

// mergeTarget loads the existing output document, or starts an empty one
// when none has been written yet.
func mergeTarget(path string) (*scoregraph.Document, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return scoregraph.NewDocument(), nil
		}
		return nil, err
	}
	return scoregraph.LoadDocument(path)
}

func isMusicXML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".musicxml":
		return true
	}
	return false
}

// jsonldPath maps an input path to its sibling .jsonld document.
func jsonldPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".jsonld"
}
