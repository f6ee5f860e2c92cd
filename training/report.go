package training

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// FormatReport renders the candidate comparison as a text table, winner
// marked with an asterisk.
func FormatReport(result *Result) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 2, 0, 2, ' ', 0)

	fmt.Fprintln(w, "Model\tMSE\tRMSE\tMAE\tR2\tCV R2 (mean±std)\tAccuracy")
	for i, rep := range result.Reports {
		name := rep.Name
		if i == result.BestIndex {
			name += " *"
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f±%.4f\t%.1f%%\n",
			name, rep.MSE, rep.RMSE, rep.MAE, rep.R2, rep.CVMean, rep.CVStd, rep.Accuracy)
	}
	w.Flush()

	fmt.Fprintf(&sb, "\nBest model: %s (R2 = %.4f)\n", result.Best().Name, result.Best().R2)
	return sb.String()
}
