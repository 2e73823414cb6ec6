package main

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"strings"
	"text/template"

	"github.com/goccy/go-yaml"
)

type feature struct {
	Name     string   `yaml:"name"`
	Doc      string   `yaml:"doc"`
	Requires []string `yaml:"requires"`
}

type tag struct {
	ID        int32  `yaml:"id"`
	Name      string `yaml:"name"`
	Go        string `yaml:"go"`
	Converter string `yaml:"converter"`
	Category  string `yaml:"category"`
	Guard     string `yaml:"guard"`
}

type table struct {
	Features []feature `yaml:"features"`
	Tags     []tag     `yaml:"tags"`
}

// categories maps table categories to their Go constants.
var categories = map[string]string{
	"copy":      "CategoryCopy",
	"primitive": "CategoryPrimitive",
	"string":    "CategoryString",
	"com":       "CategoryCOM",
	"aggregate": "CategoryAggregate",
	"handle":    "CategoryHandle",
}

var funcs = template.FuncMap{
	"quote":    strconv.Quote,
	"category": func(c string) string { return categories[c] },
	"join": func(items []string) string {
		quoted := make([]string, len(items))
		for i, s := range items {
			quoted[i] = strconv.Quote(s)
		}
		return strings.Join(quoted, ", ")
	},
}

var fileTemplate = template.Must(template.New("tagspace").Funcs(funcs).Parse(`// Code generated by tagsgen from {{.Source}}. DO NOT EDIT.

package {{.Package}}

// Declared marshal kinds.
const (
{{- range .Tags}}
	{{.Go}} ID = {{.ID}}
{{- end}}
)

// names is indexed by ID.
var names = [...]string{
{{- range .Tags}}
	{{.Go}}: {{quote .Name}},
{{- end}}
}

// bindings is indexed by ID.
var bindings = [...]string{
{{- range .Tags}}
	{{.Go}}: {{quote .Converter}},
{{- end}}
}

var features = []Feature{
{{- range .Features}}
	{Name: {{quote .Name}}, Doc: {{quote .Doc}}{{if .Requires}}, Requires: []string{ {{- join .Requires -}} }{{end}}},
{{- end}}
}

var declarations = []Decl{
{{- range .Tags}}
	{ID: {{.Go}}, Name: {{quote .Name}}, GoName: {{quote .Go}}, Converter: {{quote .Converter}}, Category: {{category .Category}}{{if .Guard}}, Guard: {{quote .Guard}}{{end}}},
{{- end}}
}
`))

// generate renders the Go views of a declaration table.
func generate(data []byte, source, pkg string) ([]byte, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}
	if err := check(t); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err := fileTemplate.Execute(&buf, struct {
		Source   string
		Package  string
		Features []feature
		Tags     []tag
	}{source, pkg, t.Features, t.Tags})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

// check rejects tables the generated code could not represent. Full
// validation happens when the table is loaded at runtime.
// maxID mirrors tagspace.MaxID. The generator does not import the package
// it generates.
const maxID = 1<<16 - 1

func check(t table) error {
	ids := make(map[int32]string, len(t.Tags))
	idents := make(map[string]string, len(t.Tags))
	for _, tg := range t.Tags {
		switch {
		case tg.Name == "":
			return fmt.Errorf("tag %d: missing name", tg.ID)
		case tg.ID < 0:
			return fmt.Errorf("%s: negative id %d", tg.Name, tg.ID)
		case tg.ID > maxID:
			return fmt.Errorf("%s: id %d exceeds %d", tg.Name, tg.ID, maxID)
		case !token.IsIdentifier(tg.Go) || !token.IsExported(tg.Go):
			return fmt.Errorf("%s: go identifier %q is not an exported Go name", tg.Name, tg.Go)
		case categories[tg.Category] == "":
			return fmt.Errorf("%s: unknown category %q", tg.Name, tg.Category)
		}
		if prev, dup := ids[tg.ID]; dup {
			return fmt.Errorf("%s: id %d already used by %s", tg.Name, tg.ID, prev)
		}
		if prev, dup := idents[tg.Go]; dup {
			return fmt.Errorf("%s: go identifier %s already used by %s", tg.Name, tg.Go, prev)
		}
		ids[tg.ID] = tg.Name
		idents[tg.Go] = tg.Name
	}
	return nil
}
