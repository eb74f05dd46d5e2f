package io

import (
	"path/filepath"
)

// SnapshotReader loads per-field .npy files from a snapshot or group
// catalog directory, e.g. Coordinates.npy or Group_M_Crit200.npy.
type SnapshotReader struct {
	Dir string
}

func NewSnapshotReader(dir string) *SnapshotReader {
	return &SnapshotReader{Dir: dir}
}

// Scalar reads a per-particle (or per-halo) scalar field.
func (r *SnapshotReader) Scalar(field string) ([]float64, error) {
	return ReadFloats(filepath.Join(r.Dir, field+".npy"))
}

// Vector reads an (N, 3) field such as Coordinates or Velocities.
func (r *SnapshotReader) Vector(field string) ([][3]float64, error) {
	return ReadVectors(filepath.Join(r.Dir, field+".npy"))
}

// Ints reads an integer field such as particle IDs.
func (r *SnapshotReader) Ints(field string) ([]int64, error) {
	return ReadInts(filepath.Join(r.Dir, field+".npy"))
}
