// SPDX-License-Identifier: MIT

package material

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/katalvlaran/mgxs/xs"
)

// material is a named set of properties. It is only reachable through a
// Context, which guards it.
type material struct {
	name       string
	properties map[string]Property
}

// Context owns the records and materials of one simulation.
//
// muMat guards materials; muRec guards records. When both are needed the
// lock order is muMat -> muRec.
type Context struct {
	muMat sync.RWMutex
	muRec sync.RWMutex

	records   arena[*xs.Record]
	materials arena[*material]

	logger *slog.Logger
}

// NewContext returns an empty Context.
func NewContext(opts ...Option) *Context {
	o := gatherOptions(opts...)

	return &Context{logger: o.logger}
}

// AddRecord stores rec and returns its handle. The record is shared, not
// copied: it must be finalized and treated as read-only.
// Errors: ErrNilRecord.
func (c *Context) AddRecord(rec *xs.Record) (RecordHandle, error) {
	if rec == nil {
		return RecordHandle{}, ErrNilRecord
	}
	c.muRec.Lock()
	defer c.muRec.Unlock()

	return RecordHandle{c.records.insert(rec)}, nil
}

// Record resolves h.
// Errors: ErrStaleHandle.
func (c *Context) Record(h RecordHandle) (*xs.Record, error) {
	c.muRec.RLock()
	defer c.muRec.RUnlock()
	s, err := c.records.get(h.handle)
	if err != nil {
		return nil, err
	}

	return s.value, nil
}

// RecordID returns the UUID assigned to h's record when it was added.
// Errors: ErrStaleHandle.
func (c *Context) RecordID(h RecordHandle) (string, error) {
	c.muRec.RLock()
	defer c.muRec.RUnlock()
	s, err := c.records.get(h.handle)
	if err != nil {
		return "", err
	}

	return s.id, nil
}

// ReleaseRecord drops h's record. Materials still referring to it keep the
// now-stale handle and fail on resolution; each such reference is logged.
// Errors: ErrStaleHandle.
func (c *Context) ReleaseRecord(h RecordHandle) error {
	c.muMat.RLock()
	defer c.muMat.RUnlock()
	c.muRec.Lock()
	defer c.muRec.Unlock()
	if err := c.records.release(h.handle); err != nil {
		return err
	}
	c.materials.each(func(_ handle, s *slot[*material]) {
		for name, p := range s.value.properties {
			if ref, ok := p.AsTransportXS(); ok && ref == h {
				c.logger.Warn("material: released record is still referenced",
					"material", s.value.name, "property", name, "record", h.String())
			}
		}
	})

	return nil
}

// NewMaterial creates an empty material.
// Errors: ErrEmptyName.
func (c *Context) NewMaterial(name string) (MaterialHandle, error) {
	if name == "" {
		return MaterialHandle{}, ErrEmptyName
	}
	c.muMat.Lock()
	defer c.muMat.Unlock()

	return MaterialHandle{c.materials.insert(&material{name: name, properties: make(map[string]Property)})}, nil
}

// MaterialName returns the name m was created with.
// Errors: ErrStaleHandle.
func (c *Context) MaterialName(m MaterialHandle) (string, error) {
	c.muMat.RLock()
	defer c.muMat.RUnlock()
	s, err := c.materials.get(m.handle)
	if err != nil {
		return "", err
	}

	return s.value.name, nil
}

// ReleaseMaterial drops m. Records it referred to are unaffected.
// Errors: ErrStaleHandle.
func (c *Context) ReleaseMaterial(m MaterialHandle) error {
	c.muMat.Lock()
	defer c.muMat.Unlock()

	return c.materials.release(m.handle)
}

// SetProperty stores p under name, replacing any previous property of that
// name. A transport property must refer to a live record; a source and the
// cross sections of one material must agree on the group count.
//
// Errors: ErrStaleHandle, ErrEmptyName, ErrInvalidProperty, ErrGroupMismatch.
func (c *Context) SetProperty(m MaterialHandle, name string, p Property) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := p.validate(); err != nil {
		return fmt.Errorf("property %q: %w", name, err)
	}
	c.muMat.Lock()
	defer c.muMat.Unlock()
	s, err := c.materials.get(m.handle)
	if err != nil {
		return err
	}
	c.muRec.RLock()
	defer c.muRec.RUnlock()
	if err = c.checkGroups(s.value, name, p); err != nil {
		return err
	}
	s.value.properties[name] = p

	return nil
}

// Property returns the property stored under name.
// Errors: ErrStaleHandle, ErrPropertyNotFound.
func (c *Context) Property(m MaterialHandle, name string) (Property, error) {
	c.muMat.RLock()
	defer c.muMat.RUnlock()
	s, err := c.materials.get(m.handle)
	if err != nil {
		return Property{}, err
	}
	p, ok := s.value.properties[name]
	if !ok {
		return Property{}, fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, s.value.name, name)
	}

	return p, nil
}

// PropertyNames returns the property names of m, sorted.
// Errors: ErrStaleHandle.
func (c *Context) PropertyNames(m MaterialHandle) ([]string, error) {
	c.muMat.RLock()
	defer c.muMat.RUnlock()
	s, err := c.materials.get(m.handle)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.value.properties))
	for name := range s.value.properties {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// TransportXS resolves the record behind a transport property. Lookup and
// resolution happen under one lock pair, so a concurrent Rebind or
// ReleaseRecord is observed either entirely before or entirely after.
//
// Errors: ErrStaleHandle (material or record), ErrPropertyNotFound,
// ErrKindMismatch.
func (c *Context) TransportXS(m MaterialHandle, name string) (*xs.Record, error) {
	c.muMat.RLock()
	defer c.muMat.RUnlock()
	s, err := c.materials.get(m.handle)
	if err != nil {
		return nil, err
	}
	p, ok := s.value.properties[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, s.value.name, name)
	}
	h, ok := p.AsTransportXS()
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s", ErrKindMismatch, name, p.Kind())
	}
	c.muRec.RLock()
	defer c.muRec.RUnlock()
	r, err := c.records.get(h.handle)
	if err != nil {
		return nil, err
	}

	return r.value, nil
}

// Rebind points the transport property name of m at rec. The record it
// referred to before is untouched and stays valid for other holders.
// Source properties of m must match rec's group count.
//
// Errors: ErrStaleHandle (material or record), ErrPropertyNotFound,
// ErrKindMismatch, ErrGroupMismatch.
func (c *Context) Rebind(m MaterialHandle, name string, rec RecordHandle) error {
	c.muMat.Lock()
	defer c.muMat.Unlock()
	s, err := c.materials.get(m.handle)
	if err != nil {
		return err
	}
	old, ok := s.value.properties[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, s.value.name, name)
	}
	prev, ok := old.AsTransportXS()
	if !ok {
		return fmt.Errorf("%w: cannot rebind %s property %s", ErrKindMismatch, old.Kind(), name)
	}
	c.muRec.RLock()
	defer c.muRec.RUnlock()
	p := TransportXSProperty(rec)
	if err = c.checkGroups(s.value, name, p); err != nil {
		return err
	}
	s.value.properties[name] = p
	c.logger.Debug("material: rebound", "material", s.value.name, "property", name,
		"from", prev.String(), "to", rec.String())

	return nil
}

// Len returns the number of live records and materials.
func (c *Context) Len() (records, materials int) {
	c.muMat.RLock()
	defer c.muMat.RUnlock()
	c.muRec.RLock()
	defer c.muRec.RUnlock()

	return c.records.live, c.materials.live
}

// checkGroups resolves record handles and compares group counts between p
// and the other properties of mat. Callers hold muMat and muRec.
func (c *Context) checkGroups(mat *material, name string, p Property) error {
	groups := func(q Property) (int, error) {
		n := 0
		err := q.Match(Cases{
			Scalar: func(float64) error { return nil },
			TransportXS: func(h RecordHandle) error {
				s, err := c.records.get(h.handle)
				if err != nil {
					return err
				}
				n = s.value.NumGroups()
				return nil
			},
			IsotropicSource: func(src []float64) error {
				n = len(src)
				return nil
			},
		})
		return n, err
	}

	want, err := groups(p)
	if err != nil || want == 0 {
		return err
	}
	for other, q := range mat.properties {
		if other == name {
			continue
		}
		got, err := groups(q)
		if err != nil {
			// A stale reference elsewhere does not block this update.
			continue
		}
		if got != 0 && got != want {
			return fmt.Errorf("%w: %s has %d groups, %s has %d", ErrGroupMismatch, name, want, other, got)
		}
	}

	return nil
}
