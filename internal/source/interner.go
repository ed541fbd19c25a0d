package source

import (
	"slices"

	"golang.org/x/text/unicode/norm"
)

type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates strings and hands out stable small IDs.
// ID 0 is reserved for the empty string.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern inserts a string and returns its ID, reusing the existing ID when
// the string was seen before.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}

	// Own copy, so the interner does not pin the caller's backing buffer.
	cpy := string([]byte(s))
	id := StringID(len(i.byID)) //nolint:gosec // interner sizes fit uint32
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternIdent interns an identifier after NFKC normalization. Python
// identifiers compare equal under NFKC (PEP 3131), so two spellings of the
// same identifier map to one ID.
func (i *Interner) InternIdent(s string) StringID {
	if norm.NFKC.IsNormalString(s) {
		return i.Intern(s)
	}
	return i.Intern(norm.NFKC.String(s))
}

// Lookup returns the string for an ID, reporting whether the ID is valid.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup returns the string for an ID and panics on an invalid ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Has reports whether the ID is valid.
func (i *Interner) Has(id StringID) bool {
	return int(id) < len(i.byID)
}

// Len reports the number of interned strings, counting the reserved empty
// string.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot returns a copy of all interned strings.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
