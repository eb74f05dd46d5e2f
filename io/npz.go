package io

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// Entry is one named array inside an .npz archive. Shape is the numpy
// shape and Data the flattened row-major content.
type Entry struct {
	Name  string
	Shape []int
	Data  []float64
}

// Vector wraps a 1D slice as an Entry.
func Vector(name string, xs []float64) Entry {
	return Entry{Name: name, Shape: []int{len(xs)}, Data: xs}
}

// Scalar wraps a single value as a shape-(1,) Entry.
func Scalar(name string, v float64) Entry {
	return Entry{Name: name, Shape: []int{1}, Data: []float64{v}}
}

// Matrix wraps a (ny, nx) table as a 2D Entry.
func Matrix(name string, rows [][]float64) Entry {
	ny := len(rows)
	nx := 0
	if ny > 0 {
		nx = len(rows[0])
	}

	data := make([]float64, 0, ny*nx)
	for _, row := range rows {
		data = append(data, row...)
	}
	return Entry{Name: name, Shape: []int{ny, nx}, Data: data}
}

// Rows reshapes a 2D Entry back into per-row slices.
func (e Entry) Rows() ([][]float64, error) {
	if len(e.Shape) != 2 {
		return nil, fmt.Errorf("Entry '%s' has shape %v, not 2D.",
			e.Name, e.Shape)
	}

	ny, nx := e.Shape[0], e.Shape[1]
	rows := make([][]float64, ny)
	for i := range rows {
		rows[i] = e.Data[i*nx : (i+1)*nx]
	}
	return rows, nil
}

// Value returns the first element, for scalar entries.
func (e Entry) Value() float64 {
	return e.Data[0]
}

// WriteArchive writes the entries to an .npz file, a zip of .npy members.
func WriteArchive(fname string, entries []Entry) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		n := 1
		for _, s := range e.Shape {
			n *= s
		}
		if n != len(e.Data) {
			zw.Close()
			return fmt.Errorf("Entry '%s' has shape %v, but %d values.",
				e.Name, e.Shape, len(e.Data))
		}

		w, err := zw.Create(e.Name + ".npy")
		if err != nil {
			zw.Close()
			return err
		}

		if len(e.Shape) == 2 {
			m := mat.NewDense(e.Shape[0], e.Shape[1], e.Data)
			err = npyio.Write(w, m)
		} else {
			err = npyio.Write(w, e.Data)
		}
		if err != nil {
			zw.Close()
			return fmt.Errorf("Could not write entry '%s' of %s: %s",
				e.Name, fname, err.Error())
		}
	}

	return zw.Close()
}

// ReadArchive reads every member of an .npz file.
func ReadArchive(fname string) (map[string]Entry, error) {
	zr, err := zip.OpenReader(fname)
	if err != nil {
		return nil, fmt.Errorf("Could not read %s: %s", fname, err.Error())
	}
	defer zr.Close()

	out := map[string]Entry{}
	for _, zf := range zr.File {
		name := strings.TrimSuffix(zf.Name, ".npy")

		rc, err := zf.Open()
		if err != nil {
			return nil, err
		}

		r, err := npyio.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("Could not read entry '%s' of %s: %s",
				name, fname, err.Error())
		}

		shape := append([]int{}, r.Header.Descr.Shape...)
		n := 1
		for _, s := range shape {
			n *= s
		}

		data := make([]float64, n)
		if err := r.Read(&data); err != nil {
			rc.Close()
			return nil, fmt.Errorf("Could not read entry '%s' of %s: %s",
				name, fname, err.Error())
		}
		rc.Close()

		out[name] = Entry{Name: name, Shape: shape, Data: data}
	}

	return out, nil
}
