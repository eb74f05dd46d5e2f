package io

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Archive is one per-halo .npz file, identified by its file name without
// the extension.
type Archive struct {
	Name    string
	Entries map[string]Entry
}

// ReadArchiveDir loads every .npz file under dir whose name starts with
// stem, in natural order. expect maps entry names to required shapes, with
// -1 as a per-axis wildcard; archives with missing entries or mismatched
// shapes are logged and skipped, or abort the load when failFast is set.
func ReadArchiveDir(
	dir, stem string, expect map[string][]int, failFast bool,
) ([]Archive, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, d := range dirents {
		name := d.Name()
		if !d.IsDir() && strings.HasPrefix(name, stem) &&
			strings.HasSuffix(name, ".npz") {
			names = append(names, name)
		}
	}
	NaturalSort(names)

	archives := []Archive{}
	for _, name := range names {
		entries, err := ReadArchive(filepath.Join(dir, name))
		if err == nil {
			err = checkEntries(name, entries, expect)
		}

		if err != nil {
			if failFast {
				return nil, err
			}
			log.Printf("Skipping %s: %s", name, err.Error())
			continue
		}

		archives = append(archives, Archive{
			Name:    strings.TrimSuffix(name, ".npz"),
			Entries: entries,
		})
	}

	return archives, nil
}

func checkEntries(name string, entries map[string]Entry, expect map[string][]int) error {
	for field, want := range expect {
		e, ok := entries[field]
		if !ok {
			return fmt.Errorf("%s has no entry '%s'.", name, field)
		}
		if !shapeOK(e.Shape, want) {
			return fmt.Errorf("Entry '%s' of %s has shape %v, not %v.",
				field, name, e.Shape, want)
		}
	}
	return nil
}

func shapeOK(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if want[i] != -1 && got[i] != want[i] {
			return false
		}
	}
	return true
}
