/*
 * dcd_write.go, part of cgrange.
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
	"bytes"
	"encoding/binary"
	"io"
	"os"

	v3 "github.com/rmera/cgrange/v3"
)

//charmmVersion is written in the last control integer, which marks the file as CHARMM-flavored.
const charmmVersion int32 = 24

//DCDWObj is a DCD trajectory opened for writing.
type DCDWObj struct {
	natoms   int32
	frames   int32
	writable bool
	unitcell bool
	filename string
	f        *os.File
	endian   binary.ByteOrder
	buf      bytes.Buffer
	fields   [3][]float32
}

//NewWriter creates filename and writes the header of a DCD trajectory with
//nsites sites per frame. If unitcell is true, a unit cell is written with
//every frame.
func NewWriter(filename string, nsites int, unitcell bool) (*DCDWObj, error) {
	if nsites <= 0 {
		return nil, Error{"No sites to write", filename, []string{"NewWriter"}, true}
	}
	D := &DCDWObj{natoms: int32(nsites), unitcell: unitcell, filename: filename, endian: binary.LittleEndian}
	var err error
	D.f, err = os.Create(filename)
	if err != nil {
		return nil, Error{err.Error(), filename, []string{"os.Create", "NewWriter"}, true}
	}
	if err := D.initWrite(); err != nil {
		D.f.Close()
		return nil, errDecorate(err, "NewWriter")
	}
	for i := range D.fields {
		D.fields[i] = make([]float32, nsites)
	}
	D.writable = true
	return D, nil
}

//put appends data to the buffer. Writing to a bytes.Buffer doesn't fail.
func (D *DCDWObj) put(data ...any) {
	for _, v := range data {
		binary.Write(&D.buf, D.endian, v)
	}
}

func (D *DCDWObj) flush(caller string) error {
	_, err := D.f.Write(D.buf.Bytes())
	D.buf.Reset()
	if err != nil {
		return Error{err.Error(), D.filename, []string{"Write", caller}, true}
	}
	return nil
}

func (D *DCDWObj) initWrite() error {
	var icntrl [20]int32
	icntrl[2] = 1 //steps between frames
	if D.unitcell {
		icntrl[10] = 1
	}
	icntrl[19] = charmmVersion
	D.put(headerSize, []byte("CORD"), icntrl[:9])
	D.put(float32(1)) //time step, in the place of icntrl[9]
	D.put(icntrl[10:], headerSize)
	const ntitle = 2
	title := bytes.Repeat([]byte(" "), int(ntitle*maxTitle))
	copy(title, "REMARKS written by cgrange")
	D.put(4+ntitle*maxTitle, int32(ntitle), title, 4+ntitle*maxTitle)
	D.put(int32(4), D.natoms, int32(4))
	return D.flush("initWrite")
}

//WNext writes x as the next frame. If the trajectory has a unit cell, it is
//taken from box, which can have the 3 lengths or the 9 components of the box
//matrix, of which only the diagonal is used. A missing box gives a zero cell.
func (D *DCDWObj) WNext(x *v3.Matrix, box ...[]float64) error {
	if !D.writable {
		return Error{TrajUnIniWrite, D.filename, []string{"WNext"}, true}
	}
	if x == nil || x.NVecs() != int(D.natoms) {
		return Error{"Coordinates don't match the trajectory size", D.filename, []string{"WNext"}, true}
	}
	if D.unitcell {
		var l [3]float64
		if len(box) > 0 {
			switch b := box[0]; len(b) {
			case 3:
				copy(l[:], b)
			case 9:
				l = [3]float64{b[0], b[4], b[8]}
			}
		}
		D.put(cellSize, []float64{l[0], 90, l[1], 90, 90, l[2]}, cellSize)
	}
	for i := 0; i < int(D.natoms); i++ {
		for j := range D.fields {
			D.fields[j][i] = float32(x.At(i, j))
		}
	}
	size := D.natoms * 4
	for _, block := range D.fields {
		D.put(size, block, size)
	}
	if err := D.flush("WNext"); err != nil {
		return err
	}
	D.frames++
	return D.updateFrames()
}

//updateFrames writes the current number of frames in the header, which DCD
//readers may rely on.
func (D *DCDWObj) updateFrames() error {
	//the frame count goes right after the 84 and the magic number.
	if _, err := D.f.Seek(8, io.SeekStart); err != nil {
		return Error{err.Error(), D.filename, []string{"Seek", "updateFrames"}, true}
	}
	if err := binary.Write(D.f, D.endian, D.frames); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "updateFrames"}, true}
	}
	if _, err := D.f.Seek(0, io.SeekEnd); err != nil {
		return Error{err.Error(), D.filename, []string{"Seek", "updateFrames"}, true}
	}
	return nil
}

//Len returns the number of sites per frame.
func (D *DCDWObj) Len() int {
	return int(D.natoms)
}

//Close closes the file. Further writes fail.
func (D *DCDWObj) Close() error {
	if !D.writable {
		return nil
	}
	D.writable = false
	if err := D.f.Close(); err != nil {
		return Error{err.Error(), D.filename, []string{"Close"}, true}
	}
	return nil
}
