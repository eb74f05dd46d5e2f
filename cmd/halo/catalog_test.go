package halo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpellner/tngprof/io"
)

func writeCatalog(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, io.WriteFloats(
		filepath.Join(dir, "Group_M_Crit200.npy"),
		[]float64{5e14, 2e13, 1e14, 8e14}))
	require.NoError(t, io.WriteFloats(
		filepath.Join(dir, "Group_R_Crit200.npy"),
		[]float64{1500, 400, 900, 1800}))
	require.NoError(t, io.WriteVectors(
		filepath.Join(dir, "GroupPos.npy"),
		[][3]float64{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}, {4, 4, 4}}))
	require.NoError(t, io.WriteVectors(
		filepath.Join(dir, "GroupVel.npy"),
		[][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}))
	return dir
}

func TestReadCatalog(t *testing.T) {
	c, err := ReadCatalog(writeCatalog(t), DefaultFields)
	require.NoError(t, err)
	require.Equal(t, 4, c.Len())
	require.Equal(t, []int64{0, 1, 2, 3}, c.IDs)
	require.Equal(t, 5e14, c.Masses[0])
	require.Equal(t, [3]float64{3, 3, 3}, c.Positions[2])
}

func TestReadCatalogIDField(t *testing.T) {
	dir := writeCatalog(t)
	require.NoError(t, io.WriteInts(
		filepath.Join(dir, "GroupIDs.npy"), []int64{40, 41, 42, 43}))

	fields := DefaultFields
	fields.ID = "GroupIDs"
	c, err := ReadCatalog(dir, fields)
	require.NoError(t, err)
	require.Equal(t, []int64{40, 41, 42, 43}, c.IDs)

	// An ID file of the wrong length is an error, not a silent truncation.
	require.NoError(t, io.WriteInts(
		filepath.Join(dir, "ShortIDs.npy"), []int64{40, 41}))
	fields.ID = "ShortIDs"
	_, err = ReadCatalog(dir, fields)
	require.Error(t, err)
}

func TestSelectMassRange(t *testing.T) {
	c, err := ReadCatalog(writeCatalog(t), DefaultFields)
	require.NoError(t, err)

	sub := c.SelectMassRange(1e14, 1e15)
	require.Equal(t, []int64{0, 2, 3}, sub.IDs)
	require.Equal(t, []float64{1500, 900, 1800}, sub.Radii)
}

func TestSelectIDs(t *testing.T) {
	c, err := ReadCatalog(writeCatalog(t), DefaultFields)
	require.NoError(t, err)

	sub, err := c.SelectIDs([]int64{3, 1})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 1}, sub.IDs)
	require.Equal(t, []float64{8e14, 2e13}, sub.Masses)
}

func TestVirialTemperatures(t *testing.T) {
	c, err := ReadCatalog(writeCatalog(t), DefaultFields)
	require.NoError(t, err)

	temps := c.VirialTemperatures()
	require.Len(t, temps, 4)
	// More massive halos at comparable radii are hotter.
	require.Greater(t, temps[3], temps[1])
}
