package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Bar colors per condition: blue, purple, orange.
var barColors = []color.Color{
	color.RGBA{R: 0x2E, G: 0x86, B: 0xAB, A: 0xFF},
	color.RGBA{R: 0xA2, G: 0x3B, B: 0x72, A: 0xFF},
	color.RGBA{R: 0xF1, G: 0x8F, B: 0x01, A: 0xFF},
}

// randomChance is the reference line: one hit in four choices.
const randomChance = 0.25

// SaveChart renders the hint-follow-rate bar chart to a PNG at path.
// One bar per condition, a dashed reference line at random chance, and
// the rate printed above each bar.
func SaveChart(stats []ConditionStat, path string) error {
	if len(stats) == 0 {
		return fmt.Errorf("no conditions to plot")
	}

	p := plot.New()
	p.Title.Text = "Fraction of Times Model Picked Hinted Answer"
	p.X.Label.Text = "Condition"
	p.Y.Label.Text = "Fraction Picked Hinted Answer"
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	labels := make([]string, len(stats))
	valueLabels := plotter.XYLabels{}

	for i, s := range stats {
		labels[i] = s.Label

		bar, err := plotter.NewBarChart(plotter.Values{s.FollowRate}, vg.Points(50))
		if err != nil {
			return fmt.Errorf("build bar for %s: %w", s.Label, err)
		}
		bar.XMin = float64(i)
		bar.Color = barColors[i%len(barColors)]
		bar.LineStyle.Width = vg.Points(1)
		p.Add(bar)

		valueLabels.XYs = append(valueLabels.XYs, plotter.XY{X: float64(i), Y: s.FollowRate + 0.02})
		valueLabels.Labels = append(valueLabels.Labels, fmt.Sprintf("%.3f", s.FollowRate))
	}

	texts, err := plotter.NewLabels(valueLabels)
	if err != nil {
		return fmt.Errorf("build value labels: %w", err)
	}
	for i := range texts.TextStyle {
		texts.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(texts)

	chance, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: randomChance},
		{X: float64(len(stats)-1) + 0.5, Y: randomChance},
	})
	if err != nil {
		return fmt.Errorf("build reference line: %w", err)
	}
	chance.LineStyle.Color = color.RGBA{R: 0xCC, A: 0xFF}
	chance.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(4)}
	p.Add(chance)
	p.Legend.Add("Random Chance (25%)", chance)
	p.Legend.Top = true

	p.NominalX(labels...)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}
