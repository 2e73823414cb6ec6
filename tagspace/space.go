package tagspace

import (
	"fmt"
	"sync"
)

// Space is a validated, read-only view of a declaration table.
type Space struct {
	byName   map[string]ID
	decls    []Decl
	index    []int32 // ID -> position in decls; -1 marks an undeclared hole
	features []Feature
}

// New validates the declarations and builds their Space. Declaration order
// is preserved for iteration.
func New(features []Feature, decls []Decl) (*Space, error) {
	if err := validate(features, decls); err != nil {
		return nil, err
	}

	maxID := ID(-1)
	for _, d := range decls {
		if d.ID > maxID {
			maxID = d.ID
		}
	}

	s := &Space{
		byName:   make(map[string]ID, len(decls)),
		decls:    append([]Decl(nil), decls...),
		index:    make([]int32, int(maxID)+1),
		features: append([]Feature(nil), features...),
	}
	for i := range s.index {
		s.index[i] = -1
	}
	for i, d := range s.decls {
		s.index[d.ID] = int32(i)
		s.byName[d.Name] = d.ID
	}
	return s, nil
}

var (
	defaultSpace     *Space
	defaultSpaceOnce sync.Once
)

// Default returns the Space built from the generated declarations.
// An invalid generated table is a build defect and panics.
func Default() *Space {
	defaultSpaceOnce.Do(func() {
		s, err := New(features, declarations)
		if err != nil {
			panic(fmt.Sprintf("tagspace: generated declarations are invalid: %v", err))
		}
		defaultSpace = s
	})
	return defaultSpace
}

// Lookup returns the declaration for id.
func (s *Space) Lookup(id ID) (Decl, bool) {
	if id < 0 || int(id) >= len(s.index) {
		return Decl{}, false
	}
	pos := s.index[id]
	if pos < 0 {
		return Decl{}, false
	}
	return s.decls[pos], true
}

// Contains reports whether id is declared.
func (s *Space) Contains(id ID) bool {
	return id >= 0 && int(id) < len(s.index) && s.index[id] >= 0
}

// ByName returns the declaration with the given tag name.
func (s *Space) ByName(name string) (Decl, bool) {
	id, ok := s.byName[name]
	if !ok {
		return Decl{}, false
	}
	return s.Lookup(id)
}

// Decls returns the declarations in declaration order.
func (s *Space) Decls() []Decl {
	return append([]Decl(nil), s.decls...)
}

// Len returns the number of declarations.
func (s *Space) Len() int {
	return len(s.decls)
}

// Max returns the highest declared ID, or Invalid for an empty space.
func (s *Space) Max() ID {
	return ID(len(s.index) - 1)
}

// Features returns the declared feature flags.
func (s *Space) Features() []Feature {
	return append([]Feature(nil), s.features...)
}

// Feature returns the declared feature with the given name.
func (s *Space) Feature(name string) (Feature, bool) {
	for _, f := range s.features {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}
