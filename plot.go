/*
Copyright © 2024 the ROAMS authors.
This file is part of ROAMS.

ROAMS is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ROAMS is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ROAMS.  If not, see <http://www.gnu.org/licenses/>.
*/

package roams

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotCombined draws the mean combined cumulative emission
// distribution on a logarithmic emission axis, with the mean
// production transition point marked, and saves it in dir.
func (m *Model) plotCombined(res *Results, dir string) error {
	x := rowMeans(res.Combined)
	y := meanRemainingPercent(res)
	xys := make(plotter.XYs, 0, len(x))
	for i := range x {
		if x[i] <= 0 {
			// Zero-emission rows have no place on a log axis.
			continue
		}
		xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
	}
	if len(xys) == 0 {
		return consistencyf("combined distribution has no positive emissions to plot")
	}

	p := plot.New()
	p.Title.Text = "Combined emission distribution"
	p.X.Label.Text = "Emission rate (kg/h)"
	p.Y.Label.Text = "Percent of emissions from sources at least this large"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.X.Min = 1e-2
	p.X.Max = xys[len(xys)-1].X
	p.Y.Min = 0
	p.Y.Max = 100

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("roams: plotting combined distribution: %w", err)
	}
	p.Add(line)
	p.Legend.Add("combined", line)

	tp := mean(res.ProdTransition)
	if tp > 0 {
		vline, err := plotter.NewLine(plotter.XYs{{X: tp, Y: 0}, {X: tp, Y: 100}})
		if err != nil {
			return fmt.Errorf("roams: plotting transition point: %w", err)
		}
		vline.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(vline)
		p.Legend.Add(fmt.Sprintf("transition point (%.0f kg/h)", tp), vline)
	}

	path := filepath.Join(dir, "combined_cumulative.png")
	log.Infof("roams: saving %s", path)
	if err := p.Save(7*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("roams: saving %s: %w", path, err)
	}
	return nil
}
