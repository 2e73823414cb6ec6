package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wippyai/interop/registry"
)

func newListCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the marshal kinds active under the configured profile",
		Long: `List the marshal kinds active under the configured profile.

Examples:
  marshalctl list --profile portable
  marshalctl list --profile windows --features com_interop
  marshalctl list --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.cfg.Registry()
			if err != nil {
				return err
			}
			return writeList(cmd.OutOrStdout(), reg, all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also show declared kinds the profile excludes")
	return cmd
}

func writeList(w io.Writer, reg *registry.Registry, all bool) error {
	p := newPainter(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCONVERTER\tCATEGORY\tGUARD")

	for _, d := range reg.Space().Decls() {
		active := reg.Active(d.ID)
		if !active && !all {
			continue
		}
		guard := d.Guard
		name, conv := p.paint(nameColor, d.Name), p.paint(converterColor, d.Converter)
		if !active {
			missing := reg.Gate().Missing(d, reg.Features())
			parts := make([]string, len(missing))
			for i, f := range missing {
				parts[i] = string(f)
			}
			guard += " (excluded, missing " + strings.Join(parts, ", ") + ")"
			name, conv = p.paint(excludedColor, d.Name), p.paint(excludedColor, d.Converter)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", d.ID, name, conv, d.Category, guard)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d of %d kinds active with features %s\n", reg.Len(), reg.Space().Len(), reg.Features())
	return err
}
