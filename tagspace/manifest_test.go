package tagspace

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/interop/errors"
)

func TestManifestRoundTrip(t *testing.T) {
	s := Default()
	data, err := MarshalManifest(s.Manifest())
	if err != nil {
		t.Fatalf("MarshalManifest: %v", err)
	}

	again, err := MarshalManifest(s.Manifest())
	if err != nil {
		t.Fatalf("MarshalManifest: %v", err)
	}
	if string(data) != string(again) {
		t.Error("canonical encoding should be deterministic")
	}

	m, err := UnmarshalManifest(data)
	if err != nil {
		t.Fatalf("UnmarshalManifest: %v", err)
	}
	if len(m.Entries) != s.Len() {
		t.Fatalf("entries = %d, want %d", len(m.Entries), s.Len())
	}
	if err := s.Verify(m); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestManifestVerifyAcrossConfigurations(t *testing.T) {
	// A manifest written by a build that only used unconditional tags
	// still verifies against the full table.
	var portable []Decl
	for _, d := range Default().Decls() {
		if d.Unconditional() {
			portable = append(portable, d)
		}
	}
	if err := Default().Verify(NewManifest(portable)); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestManifestVerifyMismatch(t *testing.T) {
	tests := []struct {
		name string
		m    *Manifest
	}{
		{
			name: "reassigned",
			m: &Manifest{Version: ManifestVersion, Entries: []ManifestEntry{
				{ID: Generic4, Name: "MARSHAL_TYPE_GENERIC_U4"},
			}},
		},
		{
			name: "retired",
			m: &Manifest{Version: ManifestVersion, Entries: []ManifestEntry{
				{ID: 900, Name: "MARSHAL_TYPE_FUTURE"},
			}},
		},
		{
			name: "version",
			m:    &Manifest{Version: ManifestVersion + 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Default().Verify(tc.m)
			if !stderrors.Is(err, errors.ErrManifestMismatch) {
				t.Errorf("Verify = %v, want manifest mismatch", err)
			}
		})
	}
}

func TestUnmarshalManifestInvalid(t *testing.T) {
	_, err := UnmarshalManifest([]byte{0xff, 0x00})
	if err == nil {
		t.Fatal("expected error")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseManifest, Kind: errors.KindInvalidData}) {
		t.Errorf("error = %v", err)
	}
}
