/*
 * cgplot.go, part of cgrange.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package cgplot draws the histograms obtained by the range finding, and the
//potentials obtained from them by Boltzmann inversion.
package cgplot

import (
	"fmt"
	"image/color"

	"github.com/rmera/cgrange/boltzmann"
	"github.com/rmera/cgrange/histo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Size is the side of the (square) plots.
var Size = 4 * vg.Inch

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//line adds the points in xy to p, joined by a line of the given color.
func line(p *plot.Plot, xy plotter.XYs, c color.Color) error {
	l, s, err := plotter.NewLinePoints(xy)
	if err != nil {
		return err
	}
	l.Color = c
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(l, s)
	return nil
}

//Histogram plots the counts of h against the bin centers, and saves the plot to filename.
//The format is given by the extension of filename.
func Histogram(h *histo.Data, title, filename string) error {
	if h.NBins() == 0 {
		return Error{fmt.Sprintf("Empty histogram for %s", title), filename, []string{"Histogram"}, false}
	}
	xy := make(plotter.XYs, h.NBins())
	for i, c := range h.Centers() {
		xy[i].X = c
		xy[i].Y = h.View()[i]
	}
	p := basicPlot(title, "Coordinate", "Counts")
	if err := line(p, xy, color.RGBA{B: 200, A: 255}); err != nil {
		return Error{err.Error(), filename, []string{"Histogram"}, true}
	}
	if err := p.Save(Size, Size, filename); err != nil {
		return Error{err.Error(), filename, []string{"Save", "Histogram"}, true}
	}
	return nil
}

//Potential plots the inverted potential pts, and optionally the fitted one, fit, evaluated at the same points.
func Potential(pts []boltzmann.Point, fit func(r float64) float64, title, filename string) error {
	if len(pts) == 0 {
		return Error{fmt.Sprintf("No points for %s", title), filename, []string{"Potential"}, false}
	}
	xy := make(plotter.XYs, len(pts))
	for i, v := range pts {
		xy[i].X, xy[i].Y = v.R, v.U
	}
	p := basicPlot(title, "Coordinate", "Potential")
	if err := line(p, xy, color.RGBA{R: 255, A: 255}); err != nil {
		return Error{err.Error(), filename, []string{"Potential"}, true}
	}
	if fit != nil {
		fxy := make(plotter.XYs, len(pts))
		for i, v := range pts {
			fxy[i].X, fxy[i].Y = v.R, fit(v.R)
		}
		if err := line(p, fxy, color.RGBA{G: 150, A: 255}); err != nil {
			return Error{err.Error(), filename, []string{"Potential"}, true}
		}
	}
	if err := p.Save(Size, Size, filename); err != nil {
		return Error{err.Error(), filename, []string{"Save", "Potential"}, true}
	}
	return nil
}

//Error is the error type for the cgplot package. Empty data gives non-critical errors.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("cgplot: %s (file %s)", err.message, err.filename)
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err Error) FileName() string { return err.filename }

func (err Error) Critical() bool { return err.critical }
