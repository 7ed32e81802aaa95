package evaluate

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/model"
)

var (
	curveColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	chanceGrey = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

func plotROC(path string, c model.Curve, auc float64) error {
	p := newUnitPlot("ROC Curve", "False Positive Rate", "True Positive Rate")

	curve, err := curveLine(c)
	if err != nil {
		return err
	}
	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return err
	}
	chance.Color = chanceGrey
	chance.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(plotter.NewGrid(), chance, curve)
	p.Legend.Add(fmt.Sprintf("AUC = %.4f", auc), curve)
	p.Legend.Left = false
	p.Legend.Top = false
	return p.Save(5*vg.Inch, 5*vg.Inch, path)
}

func plotPR(path string, c model.Curve, ap float64) error {
	p := newUnitPlot("Precision-Recall Curve", "Recall", "Precision")

	curve, err := curveLine(c)
	if err != nil {
		return err
	}
	p.Add(plotter.NewGrid(), curve)
	p.Legend.Add(fmt.Sprintf("AP = %.4f", ap), curve)
	p.Legend.Top = true
	return p.Save(5*vg.Inch, 5*vg.Inch, path)
}

func newUnitPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1.02
	return p
}

func curveLine(c model.Curve) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(c.X))
	for i := range c.X {
		pts[i].X = c.X[i]
		pts[i].Y = c.Y[i]
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	l.Color = curveColor
	l.LineStyle.Width = vg.Points(2)
	return l, nil
}
