package tagspace

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/interop/errors"
)

// ManifestVersion is the current manifest encoding version.
const ManifestVersion = 1

// ManifestEntry records one (ordinal, name) pair.
type ManifestEntry struct {
	Name string `cbor:"2,keyasint"`
	ID   ID     `cbor:"1,keyasint"`
}

// Manifest records tag ordinals as they were when some cached metadata was
// produced. Verifying it against a Space detects reassigned or retired tags.
type Manifest struct {
	Entries []ManifestEntry `cbor:"2,keyasint"`
	Version uint            `cbor:"1,keyasint"`
}

var manifestEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("tagspace: failed to create CBOR enc mode: %v", err))
	}
	manifestEncMode = em
}

// NewManifest records the given declarations in order.
func NewManifest(decls []Decl) *Manifest {
	m := &Manifest{
		Version: ManifestVersion,
		Entries: make([]ManifestEntry, 0, len(decls)),
	}
	for _, d := range decls {
		m.Entries = append(m.Entries, ManifestEntry{ID: d.ID, Name: d.Name})
	}
	return m
}

// Manifest records every declaration of the space.
func (s *Space) Manifest() *Manifest {
	return NewManifest(s.decls)
}

// MarshalManifest serializes a manifest to canonical CBOR.
func MarshalManifest(m *Manifest) ([]byte, error) {
	return manifestEncMode.Marshal(m)
}

// UnmarshalManifest deserializes a manifest from CBOR.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.PhaseManifest, errors.KindInvalidData, err, "unmarshal manifest")
	}
	return &m, nil
}

// Verify checks that every recorded ordinal still names the same tag.
// Entries that are guarded out of a configuration are still declared, so
// they verify. An ordinal that was retired or reassigned does not.
func (s *Space) Verify(m *Manifest) error {
	if m.Version != ManifestVersion {
		return errors.New(errors.PhaseManifest, errors.KindManifestMismatch).
			Detail("manifest version %d, want %d", m.Version, ManifestVersion).
			Build()
	}
	for _, e := range m.Entries {
		d, ok := s.Lookup(e.ID)
		if !ok {
			return errors.New(errors.PhaseManifest, errors.KindManifestMismatch).
				Tag(e.Name).
				Value(e.ID).
				Detail("ordinal %d is no longer declared", e.ID).
				Build()
		}
		if d.Name != e.Name {
			return errors.New(errors.PhaseManifest, errors.KindManifestMismatch).
				Tag(e.Name).
				Value(e.ID).
				Detail("ordinal %d now names %s", e.ID, d.Name).
				Build()
		}
	}
	return nil
}
