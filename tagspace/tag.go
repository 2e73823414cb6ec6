package tagspace

import "strconv"

//go:generate go run ../cmd/tagsgen -in mtypes.yaml -out zz_generated.go

// ID identifies a marshal kind. Values are assigned explicitly in the
// declaration table and never depend on which entries a configuration keeps.
type ID int32

// Invalid is never declared.
const Invalid ID = -1

// MaxID bounds declared ordinals. Dispatch tables are dense slices indexed
// by ID, so the largest ordinal sets their size.
const MaxID ID = 1<<16 - 1

// Valid reports whether id names a declared marshal kind in the generated table.
func (id ID) Valid() bool {
	return id >= 0 && int(id) < len(names) && names[id] != ""
}

// String returns the declared name, or a numeric form for undeclared values.
func (id ID) String() string {
	if id.Valid() {
		return names[id]
	}
	return "MARSHAL_TYPE(" + strconv.FormatInt(int64(id), 10) + ")"
}

// Converter returns the converter binding name declared for id.
func (id ID) Converter() string {
	if id.Valid() {
		return bindings[id]
	}
	return ""
}

// Category groups declarations for diagnostics. It has no dispatch meaning.
type Category string

const (
	CategoryCopy      Category = "copy"
	CategoryPrimitive Category = "primitive"
	CategoryString    Category = "string"
	CategoryCOM       Category = "com"
	CategoryAggregate Category = "aggregate"
	CategoryHandle    Category = "handle"
)

func (c Category) valid() bool {
	switch c {
	case CategoryCopy, CategoryPrimitive, CategoryString, CategoryCOM, CategoryAggregate, CategoryHandle:
		return true
	}
	return false
}

// Decl is one row of the declaration table.
type Decl struct {
	Name      string   `yaml:"name"`
	GoName    string   `yaml:"go"`
	Converter string   `yaml:"converter"`
	Category  Category `yaml:"category"`
	// Guard is a boolean expression over feature flag names. Empty means
	// the entry is present in every configuration.
	Guard string `yaml:"guard"`
	ID    ID     `yaml:"id"`
}

// Unconditional reports whether the entry carries no feature guard.
func (d Decl) Unconditional() bool {
	return d.Guard == ""
}

// Feature declares a named configuration flag that guards may reference.
type Feature struct {
	Name     string   `yaml:"name"`
	Doc      string   `yaml:"doc"`
	Requires []string `yaml:"requires"`
}
