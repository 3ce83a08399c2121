// Command normalize runs the normalization pipeline over a CSV or XLSX
// file and prints the result as JSON.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"

	"finsight/internal/ingest"
	"finsight/internal/normalize"
)

func main() {
	in := flag.String("in", "", "input file (.csv or .xlsx)")
	unpivot := flag.Bool("unpivot", false, "unpivot year columns into transactions")
	merge := flag.Bool("merge-debit-credit", false, "merge debit/credit columns into a signed amount")
	invert := flag.Bool("invert", false, "invert amount signs")
	debitCol := flag.String("debit", "", "debit column name for the merge")
	creditCol := flag.String("credit", "", "credit column name for the merge")
	amountCol := flag.String("amount", "", "amount column name for sign inversion")
	compact := flag.Bool("compact", false, "print compact JSON instead of indented")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if *in == "" {
		logger.Error("missing required -in flag")
		flag.Usage()
		os.Exit(2)
	}

	file, err := os.Open(*in)
	if err != nil {
		logger.Error("opening input", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer file.Close()

	rows, _, err := ingest.Read(*in, file)
	if err != nil {
		logger.Error("reading input", slog.String("file", *in), slog.String("error", err.Error()))
		os.Exit(1)
	}

	rules := normalize.DefaultRules()
	rules.Unpivot = *unpivot
	rules.DebitCreditMerge = *merge
	rules.InvertNegatives = *invert

	mapping := normalize.ColumnMapping{
		Debit:  *debitCol,
		Credit: *creditCol,
		Amount: *amountCol,
	}

	result, err := normalize.NewNormalizer(logger).Normalize(rows, mapping, rules)
	if err != nil {
		logger.Error("normalization failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := writeJSON(os.Stdout, result, !*compact); err != nil {
		logger.Error("encoding result", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
