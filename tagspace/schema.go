package tagspace

import (
	_ "embed"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/wippyai/interop/errors"
)

//go:embed mtypes.yaml
var schemaYAML []byte

// Schema is the parsed declaration table.
type Schema struct {
	Features []Feature `yaml:"features"`
	Tags     []Decl    `yaml:"tags"`
}

// EmbeddedSchema returns the raw declaration table compiled into the binary.
func EmbeddedSchema() []byte {
	out := make([]byte, len(schemaYAML))
	copy(out, schemaYAML)
	return out
}

// Parse decodes and validates a declaration table.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.New(errors.PhaseSchema, errors.KindInvalidData).
			Detail("decode declaration table").
			Cause(err).
			Build()
	}
	if err := validate(s.Features, s.Tags); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load parses a declaration table and builds its Space.
func Load(data []byte) (*Space, error) {
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return New(s.Features, s.Tags)
}

func validate(features []Feature, decls []Decl) error {
	declared := make(map[string]struct{}, len(features))
	for i, f := range features {
		if f.Name == "" {
			return errors.InvalidData(errors.PhaseSchema, []string{"features", strconv.Itoa(i)}, "feature without name")
		}
		if _, dup := declared[f.Name]; dup {
			return errors.New(errors.PhaseSchema, errors.KindDuplicateTag).
				Path("features", strconv.Itoa(i)).
				Detail("duplicate feature %q", f.Name).
				Build()
		}
		declared[f.Name] = struct{}{}
	}
	for i, f := range features {
		for _, req := range f.Requires {
			if _, ok := declared[req]; !ok {
				return errors.InvalidData(errors.PhaseSchema, []string{"features", strconv.Itoa(i)},
					"feature "+strconv.Quote(f.Name)+" requires undeclared feature "+strconv.Quote(req))
			}
		}
	}

	ids := make(map[ID]struct{}, len(decls))
	names := make(map[string]struct{}, len(decls))
	goNames := make(map[string]struct{}, len(decls))
	for i, d := range decls {
		path := []string{"tags", strconv.Itoa(i)}
		switch {
		case d.Name == "":
			return errors.InvalidData(errors.PhaseSchema, path, "tag without name")
		case d.Converter == "":
			return errors.InvalidData(errors.PhaseSchema, path, "tag "+d.Name+" has no converter binding")
		case d.ID < 0:
			return errors.InvalidData(errors.PhaseSchema, path, "tag "+d.Name+" has a negative id")
		case d.ID > MaxID:
			return errors.InvalidData(errors.PhaseSchema, path,
				"tag "+d.Name+" id "+strconv.Itoa(int(d.ID))+" exceeds "+strconv.Itoa(int(MaxID)))
		case !d.Category.valid():
			return errors.InvalidData(errors.PhaseSchema, path, "tag "+d.Name+" has unknown category "+strconv.Quote(string(d.Category)))
		}
		if _, dup := ids[d.ID]; dup {
			return errors.DuplicateTag("id", d.Name, int64(d.ID))
		}
		if _, dup := names[d.Name]; dup {
			return errors.DuplicateTag("name", d.Name, int64(d.ID))
		}
		if d.GoName != "" {
			if _, dup := goNames[d.GoName]; dup {
				return errors.DuplicateTag("go identifier "+d.GoName, d.Name, int64(d.ID))
			}
			goNames[d.GoName] = struct{}{}
		}
		ids[d.ID] = struct{}{}
		names[d.Name] = struct{}{}
	}
	return nil
}
