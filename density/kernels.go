/*
 * kernels.go, part of cgrange.
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

//Package density prepares the local-density interactions of a coarse-grained
//model: it validates the weight-function parameters, precomputes the constants
//of the four supported weight functions, builds the bitmask that tells which
//pairs of density groups interact between two site types, and accumulates the
//per-site densities of a frame.
package density

import (
	"fmt"
	"log"
	"math"

	"github.com/rmera/cgrange/limits"
)

//Kernel is the weight function used to count neighbors. Its value is the
//class subtype of the density interactions.
type Kernel int

const (
	None            Kernel = iota //no density interactions
	Gaussian                      //shifted-force Gaussian
	Switching                     //shifted-force tanh switching function
	Lucy                          //Lucy polynomial
	RelativeEntropy               //relative-entropy style polynomial
)

func (k Kernel) String() string {
	switch k {
	case None:
		return "none"
	case Gaussian:
		return "shifted-force Gaussian"
	case Switching:
		return "shifted-force switching (tanh)"
	case Lucy:
		return "Lucy-style"
	case RelativeEntropy:
		return "Relative-Entropy style"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

//Constants holds, for each defined density interaction, the quantities
//that the weight functions need and that only depend on the parameters.
//C0 to C6 are only allocated for the RelativeEntropy kernel.
type Constants struct {
	Denom   []float64
	UCutoff []float64
	FCutoff []float64
	C0      []float64
	C2      []float64
	C4      []float64
	C6      []float64
}

//NewConstants computes the weight-function constants for n = len(sigma) interactions
//using the given kernel and cutoff. switching is only used by the Switching kernel
//and can be nil otherwise. A sigma below limits.VerySmall is an error for the
//Gaussian and Switching kernels, and so is an unknown kernel.
func NewConstants(k Kernel, cutoff float64, sigma, switching []float64) (*Constants, error) {
	n := len(sigma)
	c := &Constants{
		Denom:   make([]float64, n),
		UCutoff: make([]float64, n),
		FCutoff: make([]float64, n),
	}
	cutoff2 := cutoff * cutoff
	switch k {
	case None:
	case Gaussian:
		for i := 0; i < n; i++ {
			if sigma[i] < limits.VerySmall {
				return nil, Error{"Density sigma parameter is too small!", []string{"NewConstants"}, true}
			}
			c.Denom[i] = 2.0 * sigma[i] * sigma[i]
			c.UCutoff[i] = -math.Exp(-cutoff2 / c.Denom[i])
			c.FCutoff[i] = -2.0 * cutoff * c.UCutoff[i] / c.Denom[i]
			log.Printf("%d: density_sigma %f, cutoff %f, u_cutoff %f, f_cutoff %f, denom %f", i, sigma[i], cutoff, c.UCutoff[i], c.FCutoff[i], c.Denom[i])
		}
	case Switching:
		if len(switching) < n {
			return nil, Error{fmt.Sprintf("%d switching distances given for %d density interactions", len(switching), n), []string{"NewConstants"}, true}
		}
		for i := 0; i < n; i++ {
			if sigma[i] < limits.VerySmall {
				return nil, Error{"Density sigma parameter is too small!", []string{"NewConstants"}, true}
			}
			c.Denom[i] = sigma[i] / 0.5
			arg := (cutoff - switching[i]) / sigma[i]
			c.UCutoff[i] = 0.5 * math.Tanh(arg)
			c.FCutoff[i] = 0.5 / (sigma[i] * math.Cosh(arg) * math.Cosh(arg))
			log.Printf("%d: density_switch %f, density_sigma %f, cutoff %f, u_cutoff %f, f_cutoff %f, denom %f", i, switching[i], sigma[i], cutoff, c.UCutoff[i], c.FCutoff[i], c.Denom[i])
		}
	case Lucy:
		for i := 0; i < n; i++ {
			c.Denom[i] = math.Pow(cutoff, 4.0)
			log.Printf("%d: cutoff %f, u_cutoff %f, f_cutoff %f, denom %f", i, cutoff, c.UCutoff[i], c.FCutoff[i], c.Denom[i])
		}
	case RelativeEntropy:
		c.C0 = make([]float64, n)
		c.C2 = make([]float64, n)
		c.C4 = make([]float64, n)
		c.C6 = make([]float64, n)
		for i := 0; i < n; i++ {
			x := sigma[i] * sigma[i] / cutoff2
			c.Denom[i] = (1 - x) * (1 - x) * (1 - x)
			c.C0[i] = (1.0 - 3.0*x) / c.Denom[i]
			c.C2[i] = 6.0 * x / (cutoff2 * c.Denom[i])
			c.C4[i] = 3 * (1.0 + x) / (cutoff2 * cutoff2 * c.Denom[i])
			c.C6[i] = 2.0 / (cutoff2 * cutoff2 * cutoff2 * c.Denom[i])
		}
	default:
		return nil, Error{fmt.Sprintf("Set-up called for density interactions with invalid class subtype %d", int(k)), []string{"NewConstants"}, true}
	}
	return c, nil
}

//Weight returns the contribution of a neighbor at distance r to the density of
//the i-th interaction. It is zero at and beyond the cutoff, and, for the
//shifted-force kernels, goes to zero there with a zero slope.
//sigma and switching are the parameters NewConstants received.
func (c *Constants) Weight(k Kernel, i int, r, cutoff, sigma, switching float64) float64 {
	if r >= cutoff {
		return 0
	}
	switch k {
	case Gaussian:
		return math.Exp(-r*r/c.Denom[i]) + c.UCutoff[i] + (r-cutoff)*c.FCutoff[i]
	case Switching:
		return c.UCutoff[i] - 0.5*math.Tanh((r-switching)/sigma) + (r-cutoff)*c.FCutoff[i]
	case Lucy:
		d := cutoff - r
		return (cutoff + 3*r) * d * d * d / c.Denom[i]
	case RelativeEntropy:
		if r <= sigma {
			return 1
		}
		r2 := r * r
		return c.C0[i] + r2*(c.C2[i]+r2*(-c.C4[i]+r2*c.C6[i]))
	}
	return 0
}
