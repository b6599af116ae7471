/*
 * distfiles.go, part of cgrange.
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
	"os"
	"path/filepath"
	"strconv"
)

//DistExt and HistExt are the extensions of the raw-sample and histogram files.
const (
	DistExt = ".dist"
	HistExt = ".hist"
)

//distFiles holds the raw-sample files of the defined interactions of one class,
//one value per line.
type distFiles struct {
	names []string
	files []*os.File
	w     []*bufio.Writer
	buf   []byte
}

//openDistFiles creates one raw-sample file per defined interaction of C in dir.
//If any file can't be created, the ones already open are closed.
func openDistFiles(C *InteractionClass, dir string) (*distFiles, error) {
	n := C.NDefined()
	d := &distFiles{
		names: make([]string, 0, n),
		files: make([]*os.File, 0, n),
		w:     make([]*bufio.Writer, 0, n),
	}
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, C.FileStem(i)+DistExt)
		f, err := os.Create(name)
		if err != nil {
			d.close()
			return nil, fileError("openDistFiles", name, err)
		}
		d.names = append(d.names, name)
		d.files = append(d.files, f)
		d.w = append(d.w, bufio.NewWriter(f))
	}
	return d, nil
}

//write appends v to the file of the i-th defined interaction, with 6 decimals.
func (d *distFiles) write(i int, v float64) error {
	d.buf = strconv.AppendFloat(d.buf[:0], v, 'f', 6, 64)
	d.buf = append(d.buf, '\n')
	_, err := d.w[i].Write(d.buf)
	if err != nil {
		return fileError("distFiles.write", d.names[i], err)
	}
	return nil
}

//close flushes and closes all the files, and returns the first error found.
//It can be called more than once.
func (d *distFiles) close() error {
	if d == nil {
		return nil
	}
	var first error
	for i, f := range d.files {
		if f == nil {
			continue
		}
		if err := d.w[i].Flush(); err != nil && first == nil {
			first = fileError("distFiles.close", d.names[i], err)
		}
		if err := f.Close(); err != nil && first == nil {
			first = fileError("distFiles.close", d.names[i], err)
		}
		d.files[i] = nil
	}
	return first
}

//remove deletes all the files, which must be closed.
func (d *distFiles) remove() error {
	var first error
	for _, name := range d.names {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) && first == nil {
			first = fileError("distFiles.remove", name, err)
		}
	}
	return first
}
