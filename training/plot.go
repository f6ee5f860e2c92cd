package training

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/socialpulse/addictml/pkg/errors"
)

// SaveComparisonChart writes a bar chart of held-out R² per candidate.
// The image format follows the path extension (.png, .svg, .pdf).
func SaveComparisonChart(result *Result, path string) error {
	if len(result.Reports) == 0 {
		return errors.NewValueError("training.SaveComparisonChart", "no candidate reports to plot")
	}

	p := plot.New()
	p.Title.Text = "Model Comparison"
	p.Y.Label.Text = "R² (held-out)"
	p.Y.Min = 0

	values := make(plotter.Values, len(result.Reports))
	names := make([]string, len(result.Reports))
	for i, rep := range result.Reports {
		values[i] = rep.R2
		names[i] = rep.Name
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return errors.Wrap(err, "failed to build bar chart")
	}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrap(err, "failed to save comparison chart")
	}
	return nil
}
