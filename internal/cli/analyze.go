package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rostercore/internal/analytics"
)

func newAnalyzeCmd() *cobra.Command {
	var countOf float64
	var cumulative bool
	var filePath string

	c := &cobra.Command{
		Use:   "analyze [number]...",
		Short: "Summarize a numeric series",
		Long:  "Summarize a numeric series given as arguments, read from a file, or both. File values are whitespace separated.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := append([]string(nil), args...)
			if filePath != "" {
				b, err := os.ReadFile(filePath)
				if err != nil {
					return fmt.Errorf("read series file: %w", err)
				}
				raw = append(raw, strings.Fields(string(b))...)
			}
			if len(raw) == 0 {
				return fmt.Errorf("no values given: pass numbers as arguments or via --file")
			}
			values := make([]float64, 0, len(raw))
			for _, arg := range raw {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("invalid number %q", arg)
				}
				values = append(values, v)
			}

			avg, err := analytics.Average(values)
			if err != nil {
				return err
			}
			min, _ := analytics.Min(values)
			max, _ := analytics.Max(values)
			spread, _ := analytics.Range(values)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "count:   %d\n", len(values))
			fmt.Fprintf(out, "average: %g\n", avg)
			fmt.Fprintf(out, "min:     %g\n", min)
			fmt.Fprintf(out, "max:     %g\n", max)
			fmt.Fprintf(out, "range:   %g\n", spread)
			if cmd.Flags().Changed("count-of") {
				fmt.Fprintf(out, "occurrences of %g: %d\n", countOf, analytics.CountOccurrences(values, countOf))
			}
			if cumulative {
				fmt.Fprintf(out, "cumulative: %v\n", analytics.CumulativeSum(values))
			}
			return nil
		},
	}
	c.Flags().Float64Var(&countOf, "count-of", 0, "count occurrences of this value")
	c.Flags().BoolVar(&cumulative, "cumulative", false, "print the running totals")
	c.Flags().StringVar(&filePath, "file", "", "read series values from this file")
	return c
}
