/*
 * params.go, part of cgrange.
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

package cgrange

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	HelicalParamFile = "hel.prm"
	DensityParamFile = "den.prm"
)

//readParamLines reads n lines of whitespace-separated fields with at least 3
//fields each, from r. filename is only used for error messages.
func readParamLines(r io.Reader, n int, filename string) ([][]string, error) {
	ret := make([][]string, 0, n)
	s := bufio.NewScanner(r)
	for i := 0; i < n; i++ {
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return nil, fileError("readParamLines", filename, err)
			}
			return nil, configError("readParamLines", ParamLinesMissing, filename)
		}
		fields := strings.Fields(s.Text())
		if len(fields) < 3 {
			return nil, configError("readParamLines", ParamTooFewElements, filename, i+1)
		}
		ret = append(ret, fields)
	}
	return ret, nil
}

//atof reads the longest decimal number at the start of s, like the C function,
//and returns 0 if there is none. "1.5abc" is 1.5, "abc" and "" are 0.
func atof(s string) float64 {
	s = strings.TrimLeft(s, " \t")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	//the exponent only counts if it has digits.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	//out of range values give ±Inf, as with strtod.
	f, _ := strconv.ParseFloat(s[:i], 64)
	return f
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

//ReadHelicalParams reads n lines of the form "name r0 sigma2 ..." from r.
func ReadHelicalParams(r io.Reader, n int) (*HelicalParams, error) {
	lines, err := readParamLines(r, n, HelicalParamFile)
	if err != nil {
		return nil, errDecorate(err, "ReadHelicalParams")
	}
	h := &HelicalParams{R0: make([]float64, n), Sigma2: make([]float64, n)}
	for i, v := range lines {
		h.R0[i] = atof(v[1])
		h.Sigma2[i] = atof(v[2])
	}
	return h, nil
}

//ReadDensityParams reads n lines of the form "name name2 sigma [switch]" from r,
//and returns the sigma and switching distance of each. Missing switching
//distances are 0.
func ReadDensityParams(r io.Reader, n int) ([]float64, []float64, error) {
	lines, err := readParamLines(r, n, DensityParamFile)
	if err != nil {
		return nil, nil, errDecorate(err, "ReadDensityParams")
	}
	sigma := make([]float64, n)
	switching := make([]float64, n)
	for i, v := range lines {
		sigma[i] = atof(v[2])
		if len(v) > 3 {
			switching[i] = atof(v[3])
		}
	}
	return sigma, switching, nil
}

func openParamFile(name string) (*os.File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, CGError{message: "Problem opening parameter file", filename: name, deco: []string{"openParamFile"}, critical: true, cause: err}
	}
	return f, nil
}
