package spa

import "github.com/kilianp07/spaplan/core/workdir"

// IsWritten reports whether all four request files exist. Their content is
// not inspected.
func (b *Bridge) IsWritten() bool {
	return b.hasAll(workdir.RequestFiles)
}

// IsScheduled reports whether both result files exist in the result
// directory. Their content is not inspected.
func (b *Bridge) IsScheduled() bool {
	return b.hasAll(workdir.ResultFiles)
}

func (b *Bridge) hasAll(files []workdir.File) bool {
	for _, f := range files {
		if !b.dir.Has(f) {
			return false
		}
	}
	return true
}
