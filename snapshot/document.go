// SPDX-License-Identifier: MIT

package snapshot

import (
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/mgxs/matrix"
	"github.com/katalvlaran/mgxs/xs"
	"gopkg.in/yaml.v3"
)

// Version is the document version written by FromRecord.
const Version = 1

// Document is the serialized form of one record.
type Document struct {
	Version         int    `yaml:"version"`
	ID              string `yaml:"id,omitempty"`
	Groups          int    `yaml:"groups"`
	ScatteringOrder int    `yaml:"scattering_order"`
	FissionMode     string `yaml:"fission_mode"`
	FissionScaled   bool   `yaml:"fission_scaled,omitempty"`

	SigmaT          []float64 `yaml:"sigma_t,flow"`
	SigmaA          []float64 `yaml:"sigma_a,flow"`
	SigmaF          []float64 `yaml:"sigma_f,flow,omitempty"`
	NuSigmaF        []float64 `yaml:"nu_sigma_f,flow,omitempty"`
	NuPromptSigmaF  []float64 `yaml:"nu_prompt_sigma_f,flow,omitempty"`
	NuDelayedSigmaF []float64 `yaml:"nu_delayed_sigma_f,flow,omitempty"`
	Chi             []float64 `yaml:"chi,flow,omitempty"`
	ChiPrompt       []float64 `yaml:"chi_prompt,flow,omitempty"`
	InvVelocity     []float64 `yaml:"inv_velocity,flow,omitempty"`
	GroupStructure  []Bin     `yaml:"group_structure,omitempty"`

	Transfer   []Moment    `yaml:"transfer,omitempty"`
	Production [][]float64 `yaml:"production,omitempty"`
	Precursors []Precursor `yaml:"precursors,omitempty"`
}

// Bin is the energy range of one group.
type Bin struct {
	High float64 `yaml:"high"`
	Low  float64 `yaml:"low"`
}

// Moment is one transfer moment T_ℓ as a list of structural entries.
type Moment struct {
	Ell     int     `yaml:"ell"`
	Entries []Entry `yaml:"entries"`
}

// Entry is the transfer from source group GPrime into destination group G.
type Entry struct {
	G      int     `yaml:"g"`
	GPrime int     `yaml:"gprime"`
	Value  float64 `yaml:"value"`
}

// Precursor is one delayed-neutron precursor species.
type Precursor struct {
	DecayConstant    float64   `yaml:"decay_constant"`
	FractionalYield  float64   `yaml:"fractional_yield"`
	EmissionSpectrum []float64 `yaml:"emission_spectrum,flow"`
}

// FromRecord captures every finalized field of rec.
// Fission fields are omitted for a non-fissionable record.
func FromRecord(rec *xs.Record, opts ...Option) *Document {
	o := gatherOptions(opts...)
	f := rec.Fields()
	d := &Document{
		Version:         Version,
		ID:              o.id,
		Groups:          f.NumGroups,
		ScatteringOrder: f.ScatteringOrder,
		FissionMode:     f.Mode.String(),
		FissionScaled:   f.FissionScaled,
		SigmaT:          f.SigmaT,
		SigmaA:          f.SigmaA,
		InvVelocity:     f.InvVelocity,
	}
	for _, b := range f.GroupStructure {
		d.GroupStructure = append(d.GroupStructure, Bin{High: b.High, Low: b.Low})
	}
	for ell, t := range f.Transfer {
		m := Moment{Ell: ell, Entries: []Entry{}}
		t.Each(func(g, gp int, v float64) {
			m.Entries = append(m.Entries, Entry{G: g, GPrime: gp, Value: v})
		})
		d.Transfer = append(d.Transfer, m)
	}
	if !rec.IsFissionable() {
		return d
	}

	d.SigmaF = f.SigmaF
	d.NuSigmaF = f.NuSigmaF
	d.NuPromptSigmaF = f.NuPromptSigmaF
	d.NuDelayedSigmaF = f.NuDelayedSigmaF
	d.Chi = f.Chi
	d.ChiPrompt = f.ChiPrompt
	d.Production = f.Production
	for _, p := range f.Precursors {
		d.Precursors = append(d.Precursors, Precursor{
			DecayConstant:    p.DecayConstant,
			FractionalYield:  p.FractionalYield,
			EmissionSpectrum: p.EmissionSpectrum,
		})
	}

	return d
}

// Encode writes d as a YAML document.
func (d *Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	return nil
}

// Decode reads one YAML document. Unknown keys are rejected.
//
// Errors: ErrVersion for a version other than Version; wrapped yaml
// errors for malformed input.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var d Document
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("snapshot: decode: empty input: %w", err)
		}
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if d.Version != Version {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrVersion, d.Version, Version)
	}

	return &d, nil
}

// Record rebuilds a finalized record from d through xs.FromFields, which
// re-checks shapes, ranges and normalizations.
//
// Errors: ErrDocument for a structurally impossible document; *xs.LogicError
// from the consistency pass.
func (d *Document) Record(opts ...xs.Option) (*xs.Record, error) {
	mode, ok := xs.ParseFissionMode(d.FissionMode)
	if !ok {
		return nil, fmt.Errorf("%w: fission mode %q", ErrDocument, d.FissionMode)
	}
	f := xs.Fields{
		NumGroups:       d.Groups,
		ScatteringOrder: d.ScatteringOrder,
		Mode:            mode,
		SigmaT:          d.SigmaT,
		SigmaA:          d.SigmaA,
		SigmaF:          d.SigmaF,
		NuSigmaF:        d.NuSigmaF,
		NuPromptSigmaF:  d.NuPromptSigmaF,
		NuDelayedSigmaF: d.NuDelayedSigmaF,
		Chi:             d.Chi,
		ChiPrompt:       d.ChiPrompt,
		InvVelocity:     d.InvVelocity,
		Production:      d.Production,
		FissionScaled:   d.FissionScaled,
	}
	for _, b := range d.GroupStructure {
		f.GroupStructure = append(f.GroupStructure, xs.EnergyBin{High: b.High, Low: b.Low})
	}
	for _, p := range d.Precursors {
		f.Precursors = append(f.Precursors, xs.Precursor{
			DecayConstant:    p.DecayConstant,
			FractionalYield:  p.FractionalYield,
			EmissionSpectrum: p.EmissionSpectrum,
		})
	}
	if len(d.Transfer) > 0 {
		transfer, err := d.transfer()
		if err != nil {
			return nil, err
		}
		f.Transfer = transfer
	}

	return xs.FromFields(f, opts...)
}

// transfer rebuilds the moments; a moment listed twice is an error.
func (d *Document) transfer() ([]*matrix.Sparse, error) {
	if d.Groups <= 0 {
		return nil, fmt.Errorf("%w: groups must be > 0, got %d", ErrDocument, d.Groups)
	}
	out := make([]*matrix.Sparse, d.ScatteringOrder+1)
	for _, m := range d.Transfer {
		if m.Ell < 0 || m.Ell > d.ScatteringOrder {
			return nil, fmt.Errorf("%w: transfer moment %d outside [0,%d]", ErrDocument, m.Ell, d.ScatteringOrder)
		}
		if out[m.Ell] != nil {
			return nil, fmt.Errorf("%w: transfer moment %d listed twice", ErrDocument, m.Ell)
		}
		t, err := matrix.NewSparse(d.Groups)
		if err != nil {
			return nil, err
		}
		for _, e := range m.Entries {
			if err = t.Insert(e.G, e.GPrime, e.Value); err != nil {
				return nil, fmt.Errorf("%w: transfer moment %d: %w", ErrDocument, m.Ell, err)
			}
		}
		out[m.Ell] = t
	}

	return out, nil
}
