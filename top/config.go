/*
 * config.go, part of cgrange.
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

package top

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/rmera/cgrange"
	"github.com/rmera/cgrange/boltzmann"
)

//ClassConfig contains the settings of one interaction class.
type ClassConfig struct {
	Subtype  int     `toml:"subtype"`
	Cutoff   float64 `toml:"cutoff"`
	Binwidth float64 `toml:"binwidth"`
	//OutputDistribution is 0 (no distribution), 1 (temporary) or 2 (kept).
	OutputDistribution int `toml:"output_distribution"`
}

//Classes holds the configuration of each class. Classes not given are not used.
type Classes struct {
	OneBody            *ClassConfig `toml:"one_body"`
	PairNonbonded      *ClassConfig `toml:"pair_nonbonded"`
	PairBonded         *ClassConfig `toml:"pair_bonded"`
	Angular            *ClassConfig `toml:"angular"`
	Dihedral           *ClassConfig `toml:"dihedral"`
	R13                *ClassConfig `toml:"r13"`
	R14                *ClassConfig `toml:"r14"`
	R15                *ClassConfig `toml:"r15"`
	Density            *ClassConfig `toml:"density"`
	RadiusOfGyration   *ClassConfig `toml:"radius_of_gyration"`
	Helical            *ClassConfig `toml:"helical"`
	ThreeBodyNonbonded *ClassConfig `toml:"three_body_nonbonded"`
}

//MoleculeConfig describes one molecule. Helical contacts are pairs of positions
//in the Sites list.
type MoleculeConfig struct {
	Name    string  `toml:"name"`
	Sites   []int   `toml:"sites"`
	Helical [][]int `toml:"helical"`
}

//GroupConfig is a density group, given by the names of its types.
type GroupConfig struct {
	Name  string   `toml:"name"`
	Types []string `toml:"types"`
}

//BIConfig contains the settings for the Boltzmann inversion.
type BIConfig struct {
	Temperature float64 `toml:"temperature"`
	Boltzmann   float64 `toml:"boltzmann"`
	//Normalization multiplies all counts. 0 means 1 over the number of frames.
	Normalization float64 `toml:"normalization"`
	SplineSpacing float64 `toml:"spline_spacing"`
	Lambda        float64 `toml:"lambda"`
	//TableStep is the spacing of the tabulated potentials. 0 means the spline spacing.
	TableStep float64 `toml:"table_step"`
}

//Config is the whole content of a model file.
type Config struct {
	Dimension int              `toml:"dimension"`
	Types     []string         `toml:"types"`
	Sites     []string         `toml:"sites"`
	Molecules []MoleculeConfig `toml:"molecules"`
	Bonds     [][]int          `toml:"bonds"`
	Angles    [][]int          `toml:"angles"`
	Dihedrals [][]int          `toml:"dihedrals"`
	Groups    []GroupConfig    `toml:"density_groups"`
	Classes   Classes          `toml:"classes"`
	BI        BIConfig         `toml:"bi"`
}

//DefaultBinwidth is used for classes that give no bin width.
const DefaultBinwidth = 0.01

//Decode reads a TOML model from r.
func Decode(r io.Reader) (*Config, error) {
	var c Config
	if err := toml.NewDecoder(r).Decode(&c); err != nil {
		return nil, Error{fmt.Sprintf("Can't decode model: %s", err.Error()), "", []string{"Decode"}, true}
	}
	return &c, nil
}

//ReadConfig reads the TOML model in the file name.
func ReadConfig(name string) (*Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"os.Open", "ReadConfig"}, true}
	}
	defer f.Close()
	c, err := Decode(f)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			e.deco = e.Decorate("ReadConfig")
			return nil, e
		}
		return nil, err
	}
	return c, nil
}

//Settings returns the Boltzmann inversion constants, with the defaults
//for the ones not given. frames is used for the default normalization.
func (B BIConfig) Settings(frames int) boltzmann.Settings {
	s := boltzmann.DefaultSettings()
	if B.Temperature > 0 {
		s.Temperature = B.Temperature
	}
	if B.Boltzmann > 0 {
		s.Boltzmann = B.Boltzmann
	}
	if B.Normalization > 0 {
		s.Normalization = B.Normalization
	} else if frames > 0 {
		s.Normalization = 1.0 / float64(frames)
	}
	return s
}

//distribution converts the configuration value.
func distribution(d int) (cgrange.Distribution, error) {
	switch d {
	case 0:
		return cgrange.DistOff, nil
	case 1:
		return cgrange.DistTemporary, nil
	case 2:
		return cgrange.DistKeep, nil
	}
	return cgrange.DistOff, Error{fmt.Sprintf("Invalid output_distribution %d", d), "", []string{"distribution"}, true}
}
