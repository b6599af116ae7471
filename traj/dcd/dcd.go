/*
 * dcd.go, part of cgrange.
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

package dcd

import (
	"bufio"
	"compress/gzip"
	"compress/lzw"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/cgrange"
	v3 "github.com/rmera/cgrange/v3"
)

const (
	maxTitle    int32 = 80
	headerSize  int32 = 84
	cellSize    int32 = 48
	lzwLitwidth       = 8
)

//DCDObj is a DCD trajectory opened for reading.
type DCDObj struct {
	natoms   int32
	frames   int32
	fixed    int32
	readable bool
	readLast bool //The 4th dimension block is absent in the last frame of some files.
	filename string
	unitcell bool
	fourdim  bool
	f        *os.File
	dec      io.ReadCloser
	r        *bufio.Reader
	endian   binary.ByteOrder
	fields   [3][]float32
	cell     [6]float64
}

type nopCloser struct{ io.Reader }

func (nopCloser) Close() error { return nil }

type zstdCloser struct{ *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//source returns a reader for the contents of f, decompressing them according
//to the extension of name.
func source(name string, f io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return gzip.NewReader(f)
	case ".zst":
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		return zstdCloser{d}, nil
	case ".lzw":
		return lzw.NewReader(f, lzw.MSB, lzwLitwidth), nil
	default:
		return nopCloser{f}, nil
	}
}

//New opens the DCD file filename and reads its header.
func New(filename string) (*DCDObj, error) {
	D := &DCDObj{filename: filename}
	var err error
	D.f, err = os.Open(filename)
	if err != nil {
		return nil, Error{err.Error(), filename, []string{"os.Open", "New"}, true}
	}
	D.dec, err = source(filename, bufio.NewReader(D.f))
	if err != nil {
		D.f.Close()
		return nil, Error{err.Error(), filename, []string{"source", "New"}, true}
	}
	D.r = bufio.NewReader(D.dec)
	if err := D.initRead(); err != nil {
		D.close()
		return nil, errDecorate(err, "New")
	}
	for i := range D.fields {
		D.fields[i] = make([]float32, D.natoms)
	}
	D.readable = true
	return D, nil
}

func (D *DCDObj) readErr(err error, caller string) error {
	return Error{err.Error(), D.filename, []string{"binary.Read", caller}, true}
}

func (D *DCDObj) formatErr(message, caller string) error {
	return Error{message, D.filename, []string{caller}, true}
}

//initRead reads the header. Both byte orders are accepted.
func (D *DCDObj) initRead() error {
	first := make([]byte, 4)
	if _, err := io.ReadFull(D.r, first); err != nil {
		return D.readErr(err, "initRead")
	}
	switch {
	case binary.LittleEndian.Uint32(first) == uint32(headerSize):
		D.endian = binary.LittleEndian
	case binary.BigEndian.Uint32(first) == uint32(headerSize):
		D.endian = binary.BigEndian
	default:
		return D.formatErr(NotDCD, "initRead")
	}
	magic := make([]byte, 4)
	if _, err := io.ReadFull(D.r, magic); err != nil {
		return D.readErr(err, "initRead")
	}
	if string(magic) != "CORD" {
		return D.formatErr("Wrong magic number", "initRead")
	}
	//the 20 control integers.
	buf := make([]byte, 80)
	if _, err := io.ReadFull(D.r, buf); err != nil {
		return D.readErr(err, "initRead")
	}
	icntrl := func(k int) int32 { return int32(D.endian.Uint32(buf[4*k:])) }
	//X-plor sets the last one to zero, charmm to its version number.
	if icntrl(19) == 0 {
		return D.formatErr("X-plor DCD not supported", "initRead")
	}
	D.frames = icntrl(0)
	D.fixed = icntrl(8)
	D.unitcell = icntrl(10) != 0
	D.fourdim = icntrl(11) == 1
	if D.fixed != 0 {
		return D.formatErr("Fixed sites not supported", "initRead")
	}
	var check int32
	if err := D.read(&check); err != nil {
		return D.readErr(err, "initRead")
	}
	if check != headerSize {
		return D.formatErr(WrongFormat, "initRead")
	}
	var tsize, ntitle int32
	if err := D.read(&tsize); err != nil {
		return D.readErr(err, "initRead")
	}
	if err := D.read(&ntitle); err != nil {
		return D.readErr(err, "initRead")
	}
	if ntitle < 0 || tsize != 4+ntitle*maxTitle {
		return D.formatErr(WrongFormat, "initRead")
	}
	if _, err := D.r.Discard(int(ntitle * maxTitle)); err != nil {
		return D.readErr(err, "initRead")
	}
	if err := D.read(&check); err != nil {
		return D.readErr(err, "initRead")
	}
	if check != tsize {
		return D.formatErr(WrongFormat, "initRead")
	}
	if err := D.read(&check); err != nil || check != 4 {
		return D.formatErr(WrongFormat, "initRead")
	}
	if err := D.read(&D.natoms); err != nil {
		return D.readErr(err, "initRead")
	}
	if err := D.read(&check); err != nil || check != 4 {
		return D.formatErr(WrongFormat, "initRead")
	}
	if D.natoms <= 0 {
		return D.formatErr("No sites in trajectory", "initRead")
	}
	return nil
}

func (D *DCDObj) read(data any) error {
	return binary.Read(D.r, D.endian, data)
}

//Readable returns true if frames can still be read from the object.
func (D *DCDObj) Readable() bool {
	return D.readable
}

//Len returns the number of sites per frame.
func (D *DCDObj) Len() int {
	return int(D.natoms)
}

//Frames returns the number of frames declared in the header. Programs that
//crashed while writing may leave it lower than the real number.
func (D *DCDObj) Frames() int {
	return int(D.frames)
}

//Next reads the next frame into x and, if given, the unit cell lengths into
//box. A box of 3 elements gets the lengths, one of 9, the diagonal of the
//box matrix. Frames without a unit cell zero the box.
//If x is nil, the frame is read and discarded.
//At the end of the trajectory, a cgrange.LastFrameError is returned.
func (D *DCDObj) Next(x *v3.Matrix, box ...[]float64) error {
	if !D.readable {
		return Error{TrajUnIniRead, D.filename, []string{"Next"}, true}
	}
	if x != nil && x.NVecs() < int(D.natoms) {
		return Error{NotEnoughSpace, D.filename, []string{"Next"}, true}
	}
	hascell, err := D.nextRaw()
	if err != nil {
		if _, ok := err.(*lastFrameError); ok {
			D.close()
		}
		return errDecorate(err, "Next")
	}
	if len(box) > 0 {
		fillBox(box[0], D.cell, hascell)
	}
	if x == nil {
		return nil
	}
	for i := 0; i < int(D.natoms); i++ {
		x.Set(i, 0, float64(D.fields[0][i]))
		x.Set(i, 1, float64(D.fields[1][i]))
		x.Set(i, 2, float64(D.fields[2][i]))
	}
	return nil
}

//fillBox puts the lengths of the CHARMM unit cell (A, gamma, B, beta, alpha, C) in box.
func fillBox(box []float64, cell [6]float64, hascell bool) {
	for i := range box {
		box[i] = 0
	}
	if !hascell {
		return
	}
	switch len(box) {
	case 3:
		box[0], box[1], box[2] = cell[0], cell[2], cell[5]
	case 9:
		box[0], box[4], box[8] = cell[0], cell[2], cell[5]
	}
}

//nextRaw reads one frame into the coordinate fields, and the unit cell, if
//present, into D.cell.
func (D *DCDObj) nextRaw() (bool, error) {
	if D.readLast {
		return false, newlastFrameError(D.filename, "nextRaw")
	}
	var size int32
	if err := D.read(&size); err != nil {
		if err == io.EOF {
			return false, newlastFrameError(D.filename, "nextRaw")
		}
		return false, D.readErr(err, "nextRaw")
	}
	hascell := false
	//Even with the unit cell flag, some programs omit the cell in some
	//frames, so the block size decides whether this is the cell or X.
	if D.unitcell && size == cellSize {
		if err := D.read(D.cell[:]); err != nil {
			return false, D.readErr(err, "nextRaw")
		}
		if err := D.checkSize(size); err != nil {
			return false, errDecorate(err, "nextRaw")
		}
		hascell = true
		size = 0
	} else if D.unitcell && size != D.natoms*4 {
		if err := D.skipBlock(size); err != nil {
			return false, errDecorate(err, "nextRaw")
		}
		size = 0
	}
	for i := range D.fields {
		if i > 0 || size == 0 {
			if err := D.read(&size); err != nil {
				return false, D.readErr(err, "nextRaw")
			}
		}
		if err := D.readFloat32Block(size, D.fields[i]); err != nil {
			return false, errDecorate(err, "nextRaw")
		}
	}
	if D.fourdim {
		if err := D.read(&size); err != nil {
			if err != io.EOF {
				return false, D.readErr(err, "nextRaw")
			}
			D.readLast = true
		} else if err := D.skipBlock(size); err != nil {
			return false, errDecorate(err, "nextRaw")
		}
	}
	return hascell, nil
}

func (D *DCDObj) checkSize(size int32) error {
	var check int32
	if err := D.read(&check); err != nil {
		return D.readErr(err, "checkSize")
	}
	if check != size {
		return D.formatErr("Block size mismatch in frame", "checkSize")
	}
	return nil
}

//readFloat32Block reads a block of size bytes into block, which must hold exactly that many bytes.
func (D *DCDObj) readFloat32Block(size int32, block []float32) error {
	if size != int32(len(block))*4 {
		return D.formatErr(fmt.Sprintf("Coordinate block of %d bytes for %d sites", size, len(block)), "readFloat32Block")
	}
	if err := D.read(block); err != nil {
		return D.readErr(err, "readFloat32Block")
	}
	return D.checkSize(size)
}

func (D *DCDObj) skipBlock(size int32) error {
	if size < 0 {
		return D.formatErr(WrongFormat, "skipBlock")
	}
	if _, err := D.r.Discard(int(size)); err != nil {
		return D.readErr(err, "skipBlock")
	}
	return D.checkSize(size)
}

func (D *DCDObj) close() {
	D.dec.Close()
	D.f.Close()
	D.readable = false
}

//Close closes the trajectory and marks it as unreadable.
func (D *DCDObj) Close() {
	if !D.readable {
		return
	}
	D.close()
}

//Errors

var _ cgrange.Traj = (*DCDObj)(nil)
var _ cgrange.TrajError = Error{}

//Error is the error type for DCD trajectories. It fulfills cgrange.TrajError.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("dcd file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func (err Error) FileName() string { return err.filename }

func (err Error) Format() string { return "dcd" }

func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	NotEnoughSpace = "Not enough space in the matrix for the frame"
	WrongFormat    = "Wrong format in DCD"
	NotDCD         = "Not a DCD file"
)

func errDecorate(err error, caller string) error {
	var e cgrange.Error
	if errors.As(err, &e) {
		e.Decorate(caller)
		return err
	}
	return Error{err.Error(), "", []string{caller}, true}
}

//lastFrameError implements cgrange.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "dcd" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}
