// Command tagsgen generates the Go views of the marshal kind declaration
// table: ID constants, the name table, the converter binding table, and the
// declaration list.
//
//	tagsgen -in mtypes.yaml -out zz_generated.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	var (
		in  = flag.String("in", "mtypes.yaml", "Declaration table")
		out = flag.String("out", "zz_generated.go", "Generated Go file")
		pkg = flag.String("pkg", "tagspace", "Package name of the generated file")
	)
	flag.Parse()

	if err := run(*in, *out, *pkg); err != nil {
		fmt.Fprintf(os.Stderr, "tagsgen: %v\n", err)
		os.Exit(1)
	}
}

func run(in, out, pkg string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read table: %w", err)
	}
	src, err := generate(data, filepath.Base(in), pkg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
