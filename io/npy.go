/*package io reads and writes the flat-file numpy data the analysis
operates on: one .npy file per snapshot or catalog field, and per-halo
.npz archives of derived profiles. Inside an archive everything is
float64; integer quantities like halo IDs are stored as float64
scalars.*/
package io

import (
	"fmt"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// ReadFloats reads a float64 .npy file into a flat slice, whatever its
// shape.
func ReadFloats(fname string) ([]float64, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var xs []float64
	if err := npyio.Read(f, &xs); err != nil {
		return nil, fmt.Errorf("Could not read %s: %s", fname, err.Error())
	}
	return xs, nil
}

// ReadInts reads an int64 .npy file.
func ReadInts(fname string) ([]int64, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var xs []int64
	if err := npyio.Read(f, &xs); err != nil {
		return nil, fmt.Errorf("Could not read %s: %s", fname, err.Error())
	}
	return xs, nil
}

// ReadVectors reads an (N, 3) float64 .npy file, as used for positions and
// velocities. Any other shape is an error.
func ReadVectors(fname string) ([][3]float64, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("Could not read %s: %s", fname, err.Error())
	}

	shape := r.Header.Descr.Shape
	if len(shape) != 2 || shape[1] != 3 {
		return nil, fmt.Errorf("%s has shape %v, but a vector field must "+
			"have shape (N, 3).", fname, shape)
	}

	flat := make([]float64, shape[0]*3)
	if err := r.Read(&flat); err != nil {
		return nil, fmt.Errorf("Could not read %s: %s", fname, err.Error())
	}

	vecs := make([][3]float64, shape[0])
	for i := range vecs {
		vecs[i][0] = flat[3*i]
		vecs[i][1] = flat[3*i+1]
		vecs[i][2] = flat[3*i+2]
	}
	return vecs, nil
}

// WriteFloats writes a flat float64 slice as a 1D .npy file.
func WriteFloats(fname string, xs []float64) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	return npyio.Write(f, xs)
}

// WriteInts writes an int64 slice as a 1D .npy file.
func WriteInts(fname string, xs []int64) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	return npyio.Write(f, xs)
}

// WriteVectors writes an (N, 3) float64 .npy file.
func WriteVectors(fname string, vs [][3]float64) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	flat := make([]float64, 3*len(vs))
	for i, v := range vs {
		flat[3*i], flat[3*i+1], flat[3*i+2] = v[0], v[1], v[2]
	}
	return npyio.Write(f, mat.NewDense(len(vs), 3, flat))
}
