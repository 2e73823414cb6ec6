package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/tagspace"
)

func newManifestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Write or verify the tag manifest stored with cached metadata",
	}

	var activeOnly bool
	write := &cobra.Command{
		Use:   "write [path]",
		Short: "Record the current (ordinal, name) pairs in a CBOR manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.manifestPath(args)
			reg, err := a.cfg.Registry()
			if err != nil {
				return err
			}
			m := reg.Space().Manifest()
			if activeOnly {
				var decls []tagspace.Decl
				for _, e := range reg.Entries() {
					d, _ := reg.Space().Lookup(e.ID)
					decls = append(decls, d)
				}
				m = tagspace.NewManifest(decls)
			}
			data, err := tagspace.MarshalManifest(m)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return errors.Wrap(errors.PhaseManifest, errors.KindInvalidData, err, "write manifest")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries to %s\n", len(m.Entries), path)
			return nil
		},
	}
	write.Flags().BoolVar(&activeOnly, "active", false, "record only the kinds the profile activates")

	verify := &cobra.Command{
		Use:   "verify [path]",
		Short: "Check a stored manifest against the running declaration table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.manifestPath(args)
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrap(errors.PhaseManifest, errors.KindInvalidData, err, "read manifest")
			}
			m, err := tagspace.UnmarshalManifest(data)
			if err != nil {
				return err
			}
			space, err := a.cfg.Space()
			if err != nil {
				return err
			}
			if err := space.Verify(m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries match\n", path, len(m.Entries))
			return nil
		},
	}

	cmd.AddCommand(write, verify)
	return cmd
}

func (a *app) manifestPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.Manifest
}
