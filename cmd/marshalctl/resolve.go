package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/interop/converter"
	"github.com/wippyai/interop/dispatch"
	"github.com/wippyai/interop/tagspace"
)

const namePrefix = "MARSHAL_TYPE_"

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name|ordinal>",
		Short: "Resolve a marshal kind to its converter",
		Long: `Resolve a marshal kind by declared name or ordinal and show the
converter the profile binds to it. The MARSHAL_TYPE_ prefix is optional.

Examples:
  marshalctl resolve MARSHAL_TYPE_LPWSTR
  marshalctl resolve lpwstr
  marshalctl resolve 27 --profile windows-com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher()
			if err != nil {
				return err
			}
			decl, c, err := resolveArg(d, args[0])
			if err != nil {
				return err
			}
			return writeResolved(cmd.OutOrStdout(), decl, c)
		},
	}
}

// resolveArg resolves an ordinal or a name, with or without the
// MARSHAL_TYPE_ prefix and in any case.
func resolveArg(d *dispatch.Dispatcher, arg string) (tagspace.Decl, converter.Contract, error) {
	if n, err := strconv.ParseInt(arg, 10, 32); err == nil {
		id := tagspace.ID(n)
		c, err := d.Resolve(id)
		decl, _ := d.Registry().Space().Lookup(id)
		return decl, c, err
	}
	name := strings.ToUpper(arg)
	if !strings.HasPrefix(name, namePrefix) {
		name = namePrefix + name
	}
	c, err := d.ResolveName(name)
	decl, _ := d.Registry().Space().ByName(name)
	return decl, c, err
}

func writeResolved(w io.Writer, decl tagspace.Decl, c converter.Contract) error {
	p := newPainter(w)
	desc := c.DescribeSize()
	size := strconv.FormatUint(uint64(desc.Size), 10)
	if desc.Size == 0 {
		size = "variable"
	}
	_, err := fmt.Fprintf(w, "%s (%d) -> %s\n  category %s, slot %s, size %s, align %d%s\n",
		p.paint(nameColor, decl.Name), decl.ID, p.paint(converterColor, decl.Converter),
		decl.Category, desc.Slot, size, desc.Align, oneWay(desc))
	return err
}

func oneWay(d converter.Descriptor) string {
	if d.OneWay {
		return ", one-way"
	}
	return ""
}
