/*
 * boltzmann.go, part of cgrange.
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

package boltzmann

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/rmera/cgrange"
	"github.com/rmera/cgrange/histo"
)

//ZeroCountPotential is the potential given to empty bins.
const ZeroCountPotential = 100.0

//Basis evaluates the basis functions of the defined interactions of a class.
type Basis interface {
	//Values returns the index of the first basis function of the i-th interaction
	//that is not zero at r, and the values of the consecutive functions from that one.
	Values(i int, r float64) (int, []float64)
}

//System is a linear system built one row at a time.
type System interface {
	//AddRow adds the values vals to the given row, starting from column.
	AddRow(row, column int, vals []float64)
	//SetTarget sets the right-hand side of the row.
	SetTarget(row int, value float64)
	//Solve solves the system built so far.
	Solve() error
}

//Backend provides a basis and an empty system for each class to be inverted.
//Setup is expected to set the ColumnIndices of the class.
type Backend interface {
	Setup(C *cgrange.InteractionClass) (Basis, System, error)
}

//Settings contains the constants used in the inversion.
type Settings struct {
	Temperature float64
	//Boltzmann is the Boltzmann constant, in the energy units wanted for the potentials.
	Boltzmann float64
	//Normalization multiplies every count.
	Normalization float64
}

//DefaultSettings returns 300 K, the Boltzmann constant in kcal/(mol K), and a normalization of 1.
func DefaultSettings() Settings {
	return Settings{Temperature: 300.0, Boltzmann: 0.0019872067, Normalization: 1.0}
}

//KT returns the product of the temperature and the Boltzmann constant.
func (S Settings) KT() float64 {
	return S.Temperature * S.Boltzmann
}

//ShellNormalized returns the count in the spherical shell between r-width and r,
//normalized by the shell volume, the box volume and the number of pairs.
func ShellNormalized(count, r, width, norm, volume, npairs float64) float64 {
	rw := r - width
	ret := count * 3.0 / (4.0 * math.Pi * (r*r*r - rw*rw*rw))
	return ret * 2.0 * norm * volume / npairs
}

//Normalized returns the count normalized by the number of pairs.
func Normalized(count, norm, npairs float64) float64 {
	return count * 2.0 * norm / npairs
}

//Potential returns the potential for a (normalized) count. Empty bins get
//ZeroCountPotential, and potentials are kept within +/- VeryLarge.
func (S Settings) Potential(count, normalized float64) float64 {
	if count <= 0 {
		return ZeroCountPotential
	}
	p := -S.KT() * math.Log(normalized)
	if p > cgrange.VeryLarge {
		p = cgrange.VeryLarge
	} else if p < -cgrange.VeryLarge {
		p = -cgrange.VeryLarge
	}
	return p
}

//Point is one value of a potential.
type Point struct {
	R float64
	U float64
}

//Inverter performs the Boltzmann inversion of the histograms of a model.
type Inverter struct {
	Settings
	Topology cgrange.Topology
	//Volume is the box volume used for nonbonded pairs.
	Volume float64
	//Dir is the directory with the histogram files.
	Dir string
}

//New returns an Inverter for the given topology and box volume,
//which reads the histograms from dir.
func New(s Settings, top cgrange.Topology, volume float64, dir string) *Inverter {
	if dir == "" {
		dir = "."
	}
	return &Inverter{Settings: s, Topology: top, Volume: volume, Dir: dir}
}

//Invertible reports whether the class has histograms that can be inverted.
func Invertible(C *cgrange.InteractionClass) bool {
	switch C.Kind.Type {
	case cgrange.OneBody, cgrange.ThreeBodyNonbonded:
		return false
	}
	return C.Distribution.On() && C.Kind.HasDistribution()
}

//Run inverts every class of the model that has histograms, each one with its own
//basis and system, obtained from b. Classes are solved independently, so the
//column index of each is set to 0 while it is being processed.
func (I *Inverter) Run(m *cgrange.Model, b Backend) error {
	for _, C := range m.Classes {
		if !Invertible(C) {
			continue
		}
		if err := I.runClass(C, b); err != nil {
			return errDecorate(err, "Run")
		}
	}
	return nil
}

func (I *Inverter) runClass(C *cgrange.InteractionClass, b Backend) error {
	icci := C.ColumnIndex
	C.ColumnIndex = 0
	defer func() { C.ColumnIndex = icci }()
	basis, sys, err := b.Setup(C)
	if err != nil {
		return errDecorate(err, "runClass")
	}
	if err = I.Class(C, basis, sys); err != nil {
		return errDecorate(err, "runClass")
	}
	if err = sys.Solve(); err != nil {
		return errDecorate(err, "runClass")
	}
	log.Printf("Boltzmann inversion done for %s interactions", C.FullName())
	return nil
}

//Class adds to sys one row per histogram bin of every defined interaction of C:
//the basis functions at the bin center, with the potential as target.
func (I *Inverter) Class(C *cgrange.InteractionClass, basis Basis, sys System) error {
	row := 0
	for i := 0; i < C.NDefined(); i++ {
		pts, err := I.Potentials(C, i)
		if err != nil {
			return errDecorate(err, "Class")
		}
		for _, p := range pts {
			first, vals := basis.Values(i, p.R)
			sys.AddRow(row, C.ColumnIndex+C.ColumnIndices[i]+first, vals)
			sys.SetTarget(row, p.U)
			row++
		}
	}
	return nil
}

//Pairs returns the number of pairs and the volume used to normalize the i-th
//interaction of C, and whether the spherical shell normalization applies.
func (I *Inverter) Pairs(C *cgrange.InteractionClass, i int) (npairs, volume float64, shell bool) {
	switch C.Kind.Type {
	case cgrange.PairNonbonded:
		count := cgrange.TypeCount(I.Topology)
		t := C.Types[i]
		npairs = float64(count[t[0]] * count[t[1]])
		if t[0] == t[1] {
			npairs -= float64(count[t[0]])
		}
		return npairs, I.Volume, true
	case cgrange.PairBonded:
		return 2.0, 1.0, true
	}
	return 1.0, 1.0, false
}

//Entries returns the number of histogram rows used for the i-th interaction of C.
func Entries(C *cgrange.InteractionClass, i int) int {
	return int((C.Upper[i] - C.Lower[i]) / C.Binwidth)
}

//HistName returns the name of the histogram file of the i-th interaction of C.
func (I *Inverter) HistName(C *cgrange.InteractionClass, i int) string {
	return filepath.Join(I.Dir, C.FileStem(i)+cgrange.HistExt)
}

//readHist reads the rows of the histogram of the i-th interaction of C.
func (I *Inverter) readHist(C *cgrange.InteractionClass, i int) (*histo.Table, error) {
	n := Entries(C, i)
	if n <= 0 {
		return new(histo.Table), nil
	}
	name := I.HistName(C, i)
	T, err := histo.ReadTableFile(name, n)
	if err != nil {
		return nil, errDecorate(err, "readHist")
	}
	if T.Len() < n {
		return nil, Error{fmt.Sprintf("%d histogram rows read, %d expected", T.Len(), n), name, []string{"readHist"}, true}
	}
	return T, nil
}

//Potentials returns the potential at each histogram bin of the i-th interaction of C.
func (I *Inverter) Potentials(C *cgrange.InteractionClass, i int) ([]Point, error) {
	T, err := I.readHist(C, i)
	if err != nil {
		return nil, errDecorate(err, "Potentials")
	}
	npairs, volume, shell := I.Pairs(C, i)
	if npairs <= 0 {
		return nil, Error{fmt.Sprintf("No site pairs for interaction %s", C.InteractionName(i)), "", []string{"Potentials"}, true}
	}
	ret := make([]Point, T.Len())
	for j, r := range T.Centers {
		n := T.Counts[j]
		var norm float64
		if shell {
			norm = ShellNormalized(n, r, C.Binwidth, I.Normalization, volume, npairs)
		} else {
			norm = Normalized(n, I.Normalization, npairs)
		}
		ret[j] = Point{R: r, U: I.Potential(n, norm)}
	}
	return ret, nil
}

//CountBonded returns the total count of the histogram of the i-th interaction of C
//times the normalization, truncated to an integer.
func (I *Inverter) CountBonded(C *cgrange.InteractionClass, i int) (int, error) {
	T, err := I.readHist(C, i)
	if err != nil {
		return 0, errDecorate(err, "CountBonded")
	}
	var sum float64
	for _, v := range T.Counts {
		sum += v
	}
	return int(sum * I.Normalization), nil
}

//Errors

//Error is the error type for the boltzmann package.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename != "" {
		return fmt.Sprintf("boltzmann: %s (file %s) [%s]", err.message, err.filename, strings.Join(err.deco, " < "))
	}
	return fmt.Sprintf("boltzmann: %s [%s]", err.message, strings.Join(err.deco, " < "))
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

func (err Error) FileName() string { return err.filename }

func (err Error) Critical() bool { return err.critical }

func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case Error:
		e.deco = e.Decorate(caller)
		return e
	case cgrange.Error:
		e.Decorate(caller)
		return e
	}
	return err
}
