/*package halo reads halo group catalogs and selects the clusters an
analysis runs over.*/
package halo

import (
	"fmt"

	"github.com/cpellner/tngprof/cosmo"
	"github.com/cpellner/tngprof/io"
	"github.com/cpellner/tngprof/selection"
)

// Catalog is an in-memory halo group catalog. Masses are in Msun, radii in
// kpc, positions in the box units of the simulation. IDs come from the
// catalog's ID file, or are the row numbers of the halos when no ID field
// is configured.
type Catalog struct {
	IDs        []int64
	Masses     []float64
	Radii      []float64
	Positions  [][3]float64
	Velocities [][3]float64
}

// Fields names the files of a group catalog directory. ID is optional: an
// empty string numbers the halos by catalog row instead.
type Fields struct {
	ID                               string
	Mass, Radius, Position, Velocity string
}

// DefaultFields matches the TNG FoF group catalogs.
var DefaultFields = Fields{
	Mass:     "Group_M_Crit200",
	Radius:   "Group_R_Crit200",
	Position: "GroupPos",
	Velocity: "GroupVel",
}

// ReadCatalog loads a group catalog from a field-per-file .npy directory.
func ReadCatalog(dir string, fields Fields) (*Catalog, error) {
	r := io.NewSnapshotReader(dir)

	masses, err := r.Scalar(fields.Mass)
	if err != nil {
		return nil, err
	}
	radii, err := r.Scalar(fields.Radius)
	if err != nil {
		return nil, err
	}
	pos, err := r.Vector(fields.Position)
	if err != nil {
		return nil, err
	}
	vel, err := r.Vector(fields.Velocity)
	if err != nil {
		return nil, err
	}

	n := len(masses)
	if len(radii) != n || len(pos) != n || len(vel) != n {
		return nil, fmt.Errorf("The catalog in %s has %d masses, %d radii, "+
			"%d positions and %d velocities.",
			dir, n, len(radii), len(pos), len(vel))
	}

	var ids []int64
	if fields.ID != "" {
		if ids, err = r.Ints(fields.ID); err != nil {
			return nil, err
		}
		if len(ids) != n {
			return nil, fmt.Errorf("The catalog in %s has %d IDs, but %d "+
				"masses.", dir, len(ids), n)
		}
	} else {
		ids = make([]int64, n)
		for i := range ids {
			ids[i] = int64(i)
		}
	}

	return &Catalog{
		IDs: ids, Masses: masses, Radii: radii,
		Positions: pos, Velocities: vel,
	}, nil
}

// Len returns the number of halos in the catalog.
func (c *Catalog) Len() int {
	return len(c.IDs)
}

// Select compresses the catalog down to the halos whose mask entry equals
// index.
func (c *Catalog) Select(mask []int, index int) *Catalog {
	return &Catalog{
		IDs:        selection.Masked(c.IDs, mask, index),
		Masses:     selection.Masked(c.Masses, mask, index),
		Radii:      selection.Masked(c.Radii, mask, index),
		Positions:  selection.Masked(c.Positions, mask, index),
		Velocities: selection.Masked(c.Velocities, mask, index),
	}
}

// SelectMassRange keeps the halos with minMass <= M < maxMass.
func (c *Catalog) SelectMassRange(minMass, maxMass float64) *Catalog {
	mask := selection.Digitize(c.Masses, []float64{minMass, maxMass})
	return c.Select(mask, 1)
}

// SelectIDs keeps the named halos, in the order of ids. IDs missing from
// the catalog are logged and dropped.
func (c *Catalog) SelectIDs(ids []int64) (*Catalog, error) {
	idx, err := selection.SelectIfIn(c.IDs, ids, selection.SearchSort,
		selection.Options{WarnIfNotSubset: true})
	if err != nil {
		return nil, err
	}

	out := &Catalog{
		IDs:        make([]int64, len(idx)),
		Masses:     make([]float64, len(idx)),
		Radii:      make([]float64, len(idx)),
		Positions:  make([][3]float64, len(idx)),
		Velocities: make([][3]float64, len(idx)),
	}
	for i, j := range idx {
		out.IDs[i] = c.IDs[j]
		out.Masses[i] = c.Masses[j]
		out.Radii[i] = c.Radii[j]
		out.Positions[i] = c.Positions[j]
		out.Velocities[i] = c.Velocities[j]
	}
	return out, nil
}

// VirialTemperatures computes T_vir for every halo in the catalog.
func (c *Catalog) VirialTemperatures() []float64 {
	out := make([]float64, len(c.Masses))
	for i := range out {
		out[i] = cosmo.VirialTemperature(c.Masses[i], c.Radii[i])
	}
	return out
}
