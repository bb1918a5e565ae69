package metadata

import "maps"

// Lookup describes what is being looked up: identifiers, an optional
// filesystem location, and any pre-loaded sidecar data. A Lookup is built
// once per request and never mutated afterwards, so the same value can be
// shared by concurrent provider fetches.
type Lookup struct {
	// IDs maps identifier type to value, e.g. {"asin": "B08G9PRS1K"}.
	IDs map[IDType]string

	// Path is the audiobook file or folder, when known.
	Path string

	// SourceDir is the original download location. Some providers use it
	// for path-based series heuristics.
	SourceDir string

	// Sidecar holds pre-loaded media-server sidecar contents, when the
	// caller already read them from disk.
	Sidecar map[string]any
}

// NewLookup builds a Lookup from a single identifier. The IDs map is owned
// by the returned value.
func NewLookup(idType IDType, id string) Lookup {
	return Lookup{IDs: map[IDType]string{idType: id}}
}

// WithPath returns a copy of the lookup with the book location set.
func (l Lookup) WithPath(path string) Lookup {
	l.Path = path
	return l
}

// WithSourceDir returns a copy of the lookup with the download source set.
func (l Lookup) WithSourceDir(dir string) Lookup {
	l.SourceDir = dir
	return l
}

// WithSidecar returns a copy of the lookup with pre-loaded sidecar data.
func (l Lookup) WithSidecar(data map[string]any) Lookup {
	l.Sidecar = data
	return l
}

// WithID returns a copy of the lookup with an additional identifier.
// The IDs map is cloned so the original lookup stays untouched.
func (l Lookup) WithID(idType IDType, id string) Lookup {
	ids := make(map[IDType]string, len(l.IDs)+1)
	maps.Copy(ids, l.IDs)
	ids[idType] = id
	l.IDs = ids
	return l
}

// ID returns the identifier of the given type, or "" when absent.
func (l Lookup) ID(idType IDType) string {
	return l.IDs[idType]
}

// ASIN returns the ASIN identifier, or "" when absent.
func (l Lookup) ASIN() string {
	return l.IDs[IDTypeASIN]
}

// ISBN returns the ISBN identifier, or "" when absent.
func (l Lookup) ISBN() string {
	return l.IDs[IDTypeISBN]
}
