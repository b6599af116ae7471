/*
 * stf.go, part of cgrange.
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

package stf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/cgrange"
	v3 "github.com/rmera/cgrange/v3"
)

const (
	lzwLitwidth int = 8
	//DefaultPrec is the precision used when none is given.
	DefaultPrec = 2
)

//Write!

//StfW writes stf trajectories.
type StfW struct {
	f         *os.File
	h         io.WriteCloser
	w         *bufio.Writer
	nsites    int
	filename  string
	writeable bool
	prec      int
}

//Close flushes and closes the trajectory. The handle can't be used afterwards.
func (S *StfW) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	err := S.w.Flush()
	if err2 := S.h.Close(); err == nil {
		err = err2
	}
	if err2 := S.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	return nil
}

//Len returns the number of sites per frame.
func (S *StfW) Len() int {
	return S.nsites
}

//WNext writes the frame coord, and the box vectors, if given (9 values).
func (S *StfW) WNext(coord *v3.Matrix, box ...[]float64) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	v := coord.NVecs()
	if v != S.nsites {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.nsites), S.filename, []string{"WNext"}, true}
	}
	var temp [3]float64
	for i := 0; i < v; i++ {
		coord.Vec(&temp, i)
		S.w.WriteString(coordsEncode(temp, S.prec))
	}
	var err error
	if len(box) > 0 && len(box[0]) >= 9 {
		b := box[0]
		_, err = fmt.Fprintf(S.w, "* %g %g %g %g %g %g %g %g %g\n", b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7], b[8])
	} else {
		_, err = S.w.WriteString("*\n")
	}
	if err != nil {
		return Error{err.Error(), S.filename, []string{"WNext"}, true}
	}
	return nil
}

//compressor returns a function to wrap a writer, according to the
//last letter of the file name.
func compressor(name string, level int) func(io.Writer) (io.WriteCloser, error) {
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		return func(a io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		return func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, level) }
	case 'r':
		return func(a io.Writer) (io.WriteCloser, error) { return flate.NewWriter(a, level) }
	}
	return func(a io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	}
}

//NewWriter creates the trajectory name for frames of nsites sites. The header, if not nil,
//is written at the beginning of the file, and its "prec" key, if present, sets the precision.
//The optional compression level is used for the zstd, gzip and flate formats.
func NewWriter(name string, nsites int, header map[string]string, compressionLevel ...int) (*StfW, error) {
	level := 9
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	S := &StfW{nsites: nsites, filename: name, prec: DefaultPrec}
	if header == nil {
		header = make(map[string]string)
	}
	if p, ok := header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			S.prec = prec
		} else {
			log.Printf("Invalid precision for trajectory %s. Will use the default", S.filename)
		}
	}
	header["prec"] = strconv.Itoa(S.prec)
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"os.Create", "NewWriter"}, true}
	}
	S.h, err = compressor(name, level)(S.f)
	if err != nil {
		S.f.Close()
		return nil, Error{"Can't set compression " + err.Error(), S.filename, []string{"NewWriter"}, true}
	}
	S.w = bufio.NewWriter(S.h)
	for k, v := range header {
		fmt.Fprintf(S.w, "%s=%s\n", k, v)
	}
	fmt.Fprintf(S.w, "** %d\n", S.nsites)
	S.writeable = true
	return S, nil
}

//Read!

//StfR reads stf trajectories. It fulfills cgrange.Traj.
type StfR struct {
	f        *os.File
	dec      io.ReadCloser
	h        *bufio.Reader
	nsites   int
	filename string
	prec     int
	readable bool
}

//zstdCloser adapts *zstd.Decoder, whose Close returns nothing, to io.ReadCloser.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func scale(prec int) float64 {
	if prec == DefaultPrec {
		return 100.0
	}
	return math.Pow(10.0, float64(prec))
}

func coordsEncode(f [3]float64, prec int) string {
	p := scale(prec)
	var temp [3]int
	for i, v := range f {
		temp[i] = int(math.RoundToEven(v * p))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

func decompressor(name string) func(io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		return func(a io.Reader) (io.ReadCloser, error) { return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		return func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	case 'r':
		return func(a io.Reader) (io.ReadCloser, error) { return flate.NewReader(a), nil }
	}
	return func(a io.Reader) (io.ReadCloser, error) {
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return zstdCloser{r}, nil
	}
}

//New opens a stf trajectory for reading, and returns a pointer
//to the handle, a map with the metadata in the header
//and error or nil.
func New(name string) (*StfR, map[string]string, error) {
	S := &StfR{nsites: -1, filename: name, prec: DefaultPrec}
	var err error
	S.f, err = os.Open(S.filename)
	if err != nil {
		return nil, nil, Error{err.Error(), name, []string{"os.Open", "New"}, true}
	}
	S.dec, err = decompressor(name)(bufio.NewReader(S.f))
	if err != nil {
		S.f.Close()
		return nil, nil, Error{"Can't read header " + err.Error(), S.filename, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.dec)
	m := make(map[string]string)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			S.close()
			return nil, nil, Error{"Can't read header " + err.Error(), S.filename, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				S.close()
				return nil, nil, Error{fmt.Sprintf("Can't read site number from '%s'", str), S.filename, []string{"New"}, true}
			}
			S.nsites, err = strconv.Atoi(nat[1])
			if err != nil {
				S.close()
				return nil, nil, Error{fmt.Sprintf("Can't read site number from '%s': %s", nat[1], err.Error()), S.filename, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			S.close()
			return nil, nil, Error{"Malformed header line " + str, S.filename, []string{"New"}, true}
		}
		m[kv[0]] = kv[1]
	}
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			S.prec = prec
		} else {
			log.Printf("Invalid precision for trajectory %s. Will assume the default", S.filename)
		}
	}
	S.readable = true
	return S, m, nil
}

//Readable returns true if the handle is readable (if it is possible to call Next on it)
func (S *StfR) Readable() bool {
	return S.readable
}

func coordsDecode(str string, temp *[3]float64, prec int) error {
	p := scale(prec)
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("Ill formated coordinates line in stf: %d fields: %s", len(s), str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("Can't parse coordinate %d (%s): %w", i, v, err)
		}
		temp[i] = float64(f) / p
	}
	return nil
}

//Next puts in the given matrix (c) the coordinates for the next frame of the trajectory
//and, if given, and the information is present, puts the box vector information in box.
//If c is nil, the frame is read and checked, but discarded.
//At the end of the trajectory, a cgrange.LastFrameError is returned.
func (S *StfR) Next(c *v3.Matrix, box ...[]float64) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < S.nsites; i++ {
		b, err := S.h.ReadString('\n')
		if err != nil {
			if err == io.EOF && i == 0 && b == "" {
				//the trajectory just ended.
				S.close()
				return newlastFrameError(S.filename, "Next")
			}
			return Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if err = coordsDecode(b, &temp, S.prec); err != nil {
			return Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if c == nil {
			continue
		}
		c.SetVec(i, temp)
	}
	s, err := S.h.ReadString('\n')
	if err != nil && !(err == io.EOF && s != "") {
		return Error{"Can't read the frame termination mark " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if !strings.HasPrefix(s, "*") {
		return Error{"Wrong number of sites in frame", S.filename, []string{"Next"}, true}
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		readBox(box[0], s, S.filename)
	}
	return nil
}

//readBox reads the box vectors from the frame termination line s. If they are
//missing or malformed, box is zeroed.
func readBox(box []float64, s, filename string) {
	fields := strings.Fields(s)
	if len(fields) < 10 {
		for i := range box {
			box[i] = 0
		}
		return
	}
	for j, v := range fields[1:10] {
		var err error
		box[j], err = strconv.ParseFloat(v, 64)
		if err != nil {
			log.Printf("Failed to read box in a frame from %s", filename)
			for i := range box {
				box[i] = 0
			}
			return
		}
	}
}

func (S *StfR) close() {
	S.dec.Close()
	S.f.Close()
	S.readable = false
}

//Close closes the object, and marks it as unreadable
func (S *StfR) Close() {
	if !S.readable {
		return
	}
	S.close()
}

//Len returns the number of sites in each frame of the trajectory.
func (S *StfR) Len() int {
	return S.nsites
}

//Errors

var _ cgrange.Traj = (*StfR)(nil)
var _ cgrange.TrajError = Error{}

//Error is the general structure for stf trajectory errors. It fulfills cgrange.TrajError.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("stf file %s error: %s", err.filename, err.message)
}

//Decorate Adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file (always "stf") associated to the error
func (err Error) Format() string { return "stf" }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	NilCoordinates = "Given nil coordinates"
)

//lastFrameError implements cgrange.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "stf" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
