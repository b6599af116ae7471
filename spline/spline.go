/*
 * spline.go, part of cgrange.
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

//Package spline fits potentials to linear B-splines (hat functions) on
//uniform knots, by regularized linear least squares.
package spline

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmera/cgrange"
	"github.com/rmera/cgrange/boltzmann"
	"gonum.org/v1/gonum/mat"
)

//TableExt is the extension of the tabulated potential files.
const TableExt = ".table"

//Knots is a set of uniformly spaced knots.
type Knots struct {
	Lower   float64
	Spacing float64
	N       int
}

//NewKnots returns knots spanning [lower, upper], with a spacing as close as possible
//to the given one. There are always at least 2 knots.
func NewKnots(lower, upper, spacing float64) Knots {
	n := int((upper-lower)/spacing+0.5) + 1
	if n < 2 {
		n = 2
	}
	h := (upper - lower) / float64(n-1)
	if h <= 0 {
		h = spacing
	}
	return Knots{Lower: lower, Spacing: h, N: n}
}

//Upper returns the position of the last knot.
func (K Knots) Upper() float64 {
	return K.Lower + K.Spacing*float64(K.N-1)
}

//locate returns the interval containing r, and the fractional position of r in it.
//Points outside the knots are placed in the first or last interval.
func (K Knots) locate(r float64) (int, float64) {
	t := (r - K.Lower) / K.Spacing
	k := int(math.Floor(t))
	if k < 0 {
		k = 0
	} else if k > K.N-2 {
		k = K.N - 2
	}
	t -= float64(k)
	t = math.Max(0, math.Min(1, t))
	return k, t
}

//Linear is a linear B-spline basis for every defined interaction of a class.
type Linear struct {
	Knots []Knots
	vals  [2]float64
}

//NewLinear builds the basis for the class C over the ranges found for it, and
//sets its ColumnIndices. A non-positive spacing means the class bin width.
func NewLinear(C *cgrange.InteractionClass, spacing float64) (*Linear, error) {
	if spacing <= 0 {
		spacing = C.Binwidth
	}
	if spacing <= 0 {
		return nil, Error{fmt.Sprintf("No knot spacing for the %s class", C.FullName()), []string{"NewLinear"}, true}
	}
	n := C.NDefined()
	L := &Linear{Knots: make([]Knots, n)}
	if len(C.ColumnIndices) != n+1 {
		C.ColumnIndices = make([]int, n+1)
	}
	col := 0
	for i := 0; i < n; i++ {
		L.Knots[i] = NewKnots(C.Lower[i], C.Upper[i], spacing)
		C.ColumnIndices[i] = col
		col += L.Knots[i].N
	}
	C.ColumnIndices[n] = col
	return L, nil
}

//Values returns the index, among the functions of the i-th interaction, of the
//first function not zero at r, and the values of it and the next one. The slice
//is reused by the next call.
func (L *Linear) Values(i int, r float64) (int, []float64) {
	k, t := L.Knots[i].locate(r)
	L.vals[0] = 1 - t
	L.vals[1] = t
	return k, L.vals[:]
}

//Dense is a linear system stored in a dense matrix, solved by least squares
//with Tikhonov regularization.
type Dense struct {
	cols    int
	lambda  float64
	rows    [][]float64
	targets []float64
	coef    []float64
}

//DefaultLambda keeps columns with no data (and the rest) near zero.
const DefaultLambda = 1e-8

//NewDense returns an empty system with the given number of columns.
//lambda is the regularization parameter, DefaultLambda if not positive.
func NewDense(cols int, lambda float64) *Dense {
	if lambda <= 0 {
		lambda = DefaultLambda
	}
	return &Dense{cols: cols, lambda: lambda}
}

func (D *Dense) grow(row int) {
	for len(D.rows) <= row {
		D.rows = append(D.rows, make([]float64, D.cols))
		D.targets = append(D.targets, 0)
	}
}

//AddRow adds vals to the given row, starting at column. Values that fall beyond
//the last column are ignored.
func (D *Dense) AddRow(row, column int, vals []float64) {
	D.grow(row)
	for j, v := range vals {
		if c := column + j; c >= 0 && c < D.cols {
			D.rows[row][c] += v
		}
	}
}

//SetTarget sets the right-hand side of the given row.
func (D *Dense) SetTarget(row int, value float64) {
	D.grow(row)
	D.targets[row] = value
}

//Rows returns the number of rows in the system.
func (D *Dense) Rows() int {
	return len(D.rows)
}

//Solve minimizes |Ax-b|^2 + lambda|x|^2, by solving the augmented system
//[A; sqrt(lambda)I]x = [b; 0].
func (D *Dense) Solve() error {
	if D.cols == 0 {
		D.coef = nil
		return nil
	}
	m := len(D.rows)
	A := mat.NewDense(m+D.cols, D.cols, nil)
	b := mat.NewVecDense(m+D.cols, nil)
	for i, r := range D.rows {
		A.SetRow(i, r)
		b.SetVec(i, D.targets[i])
	}
	l := math.Sqrt(D.lambda)
	for j := 0; j < D.cols; j++ {
		A.Set(m+j, j, l)
	}
	var x mat.VecDense
	if err := x.SolveVec(A, b); err != nil {
		if c, ok := err.(mat.Condition); ok {
			log.Printf("Warning: ill-conditioned system, condition number %g", float64(c))
		} else {
			return Error{fmt.Sprintf("Least squares solution failed: %s", err.Error()), []string{"Solve"}, true}
		}
	}
	D.coef = make([]float64, D.cols)
	for j := range D.coef {
		D.coef[j] = x.AtVec(j)
	}
	return nil
}

//Coefficients returns the solution, or nil if Solve hasn't been called.
func (D *Dense) Coefficients() []float64 {
	return D.coef
}

//Solution is the fit obtained for one class.
type Solution struct {
	Class  *cgrange.InteractionClass
	Basis  *Linear
	System *Dense
}

//Potential returns the fitted potential of the i-th interaction at r.
func (S *Solution) Potential(i int, r float64) float64 {
	coef := S.System.Coefficients()
	if coef == nil {
		return 0
	}
	first, vals := S.Basis.Values(i, r)
	col := S.Class.ColumnIndex + S.Class.ColumnIndices[i] + first
	var u float64
	for j, v := range vals {
		if col+j < len(coef) {
			u += v * coef[col+j]
		}
	}
	return u
}

//WriteTables writes, for every interaction with a sampled range, the file
//<file stem>.table in dir, with the fitted potential at every step from the
//lower to the upper end of the range.
func (S *Solution) WriteTables(dir string, step float64) error {
	C := S.Class
	for i := 0; i < C.NDefined(); i++ {
		if C.Excluded(i) || !C.Sampled(i) {
			continue
		}
		name := filepath.Join(dir, C.FileStem(i)+TableExt)
		if err := S.writeTable(name, i, step); err != nil {
			return errDecorate(err, "WriteTables")
		}
	}
	return nil
}

func (S *Solution) writeTable(name string, i int, step float64) error {
	C := S.Class
	if step <= 0 {
		step = S.Basis.Knots[i].Spacing
	}
	f, err := os.Create(name)
	if err != nil {
		return Error{err.Error(), []string{"os.Create", "writeTable"}, true}
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "#r\tU\n")
	n := int((C.Upper[i]-C.Lower[i])/step + 0.5)
	for j := 0; j <= n; j++ {
		r := C.Lower[i] + float64(j)*step
		fmt.Fprintf(w, "%f\t%f\n", r, S.Potential(i, r))
	}
	if err := w.Flush(); err != nil {
		return Error{err.Error(), []string{"Flush", "writeTable"}, true}
	}
	return nil
}

//Backend builds a Linear basis and a Dense system for each class, and keeps the
//solutions. It fulfills boltzmann.Backend.
type Backend struct {
	//Spacing between knots. 0 means the bin width of each class.
	Spacing float64
	//Lambda is the regularization parameter. 0 means DefaultLambda.
	Lambda    float64
	Solutions []*Solution
}

//Setup prepares the basis and the system for class C.
func (B *Backend) Setup(C *cgrange.InteractionClass) (boltzmann.Basis, boltzmann.System, error) {
	L, err := NewLinear(C, B.Spacing)
	if err != nil {
		return nil, nil, errDecorate(err, "Setup")
	}
	D := NewDense(C.ColumnIndices[C.NDefined()], B.Lambda)
	B.Solutions = append(B.Solutions, &Solution{Class: C, Basis: L, System: D})
	return L, D, nil
}

//Errors

//Error is the error type for the spline package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("spline: %s [%s]", err.message, strings.Join(err.deco, " < "))
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

func (err Error) Critical() bool { return err.critical }

func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.deco = e.Decorate(caller)
		return e
	}
	return err
}
