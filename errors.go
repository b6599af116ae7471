/*
 * errors.go, part of cgrange.
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
	"fmt"
	"strings"
)

//CGError is the general error type of the package. Configuration errors are
//critical: a range finding that returned one must not be used to write
//range files.
type CGError struct {
	message  string
	filename string
	deco     []string
	critical bool
	cause    error
}

func (err CGError) Error() string {
	msg := err.message
	if err.filename != "" {
		msg = fmt.Sprintf("%s (file %s)", msg, err.filename)
	}
	if len(err.deco) > 0 {
		msg = fmt.Sprintf("%s [%s]", msg, strings.Join(err.deco, " < "))
	}
	return msg
}

//Decorate adds dec to the decoration slice of the error and returns the slice.
func (err CGError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns true if the error is critical, false otherwise
func (err CGError) Critical() bool { return err.critical }

//FileName returns the file associated to the error, if any.
func (err CGError) FileName() string { return err.filename }

//Unwrap returns the underlying error, if any.
func (err CGError) Unwrap() error { return err.cause }

//configError returns a critical error with the given message.
func configError(caller, format string, a ...interface{}) CGError {
	return CGError{message: fmt.Sprintf(format, a...), deco: []string{caller}, critical: true}
}

//fileError wraps an I/O error related to filename.
func fileError(caller, filename string, err error) CGError {
	return CGError{message: err.Error(), filename: filename, deco: []string{caller}, critical: true, cause: err}
}

//errDecorate adds caller to the decoration of err if it implements Error,
//and returns err.
func errDecorate(err error, caller string) error {
	switch e := err.(type) {
	case CGError:
		e.deco = e.Decorate(caller)
		return e
	case Error:
		e.Decorate(caller)
		return e
	}
	return err
}

const (
	UnrecognizedSubtype = "Unrecognized %s class subtype %d!"
	DihedralNot3D       = "Dihedral calculations are currently only implemented for 3-dimensional systems."
	ParamLinesMissing   = "More lines expected in %s!"
	ParamTooFewElements = "Each line needs to have at least 3 elements! (%s line %d)"
)
