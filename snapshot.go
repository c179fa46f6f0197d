package tintin

import (
	"fmt"
	"maps"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/kevmo314/go-tintin/pkg/params"
)

var (
	snapshotEncMode cbor.EncMode
	snapshotDecMode cbor.DecMode
)

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
	}
	if snapshotEncMode, err = encOpts.EncMode(); err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}
	decOpts := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}
	if snapshotDecMode, err = decOpts.DecMode(); err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// Snapshot holds the physical values of the register-backed parameters of
// one camera.
type Snapshot struct {
	Product uint16            `cbor:"1,keyasint"`
	Values  map[string]uint32 `cbor:"2,keyasint"`
}

func (s *Snapshot) MarshalBinary() ([]byte, error) {
	return snapshotEncMode.Marshal(s)
}

func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := snapshotDecMode.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// Snapshot reads every register-backed parameter. Derived and host-side
// parameters are left out since they either follow a register or are not
// device state.
func (c *Camera) Snapshot() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return nil, err
	}
	s := &Snapshot{
		Product: c.dev.Descriptor().ProductID,
		Values:  make(map[string]uint32),
	}
	for _, id := range c.registry.IDs() {
		p, _ := c.registry.Lookup(id)
		if _, ok := p.(*params.RegisterParameter); !ok {
			continue
		}
		v, err := p.Get()
		if err != nil {
			c.log.Error("snapshot read failed", "id", id, "err", err)
			return nil, err
		}
		s.Values[id] = v
	}
	return s, nil
}

// Restore writes the writable register-backed values of s in identifier
// order and stops at the first failure.
func (c *Camera) Restore(s *Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return err
	}
	for _, id := range slices.Sorted(maps.Keys(s.Values)) {
		p, ok := c.registry.Lookup(id)
		if !ok {
			c.log.Error("snapshot names unknown parameter", "id", id)
			return fmt.Errorf("%s: %w", id, params.ErrUnknownParameter)
		}
		if _, ok := p.(*params.RegisterParameter); !ok || p.Access() == params.AccessReadOnly {
			continue
		}
		if err := p.Set(s.Values[id]); err != nil {
			c.log.Error("restore failed", "id", id, "err", err)
			return err
		}
	}
	return nil
}
