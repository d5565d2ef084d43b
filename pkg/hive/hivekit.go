package hive

import (
	"errors"
	"fmt"
	"time"

	hivekit "github.com/joshuapare/hivekit/hive"
	"github.com/joshuapare/hivekit/pkg/types"
)

// Open memory-maps and parses the hive file at path and returns a
// Backend over it. Open satisfies the Opener signature.
func Open(path string) (Backend, error) {
	h, err := hivekit.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hive %s: %w", path, err)
	}
	r, err := h.Reader()
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("reading hive %s: %w", path, err)
	}
	return &hivekitBackend{h: h, r: r}, nil
}

type hivekitBackend struct {
	h *hivekit.Hive
	r types.Reader
}

func (b *hivekitBackend) Open(nativePath string) (Key, error) {
	node, err := b.r.Find(nativePath)
	if err != nil {
		return nil, mapHivekitErr(err)
	}
	return &hivekitKey{r: b.r, id: node}, nil
}

func (b *hivekitBackend) Close() error {
	return b.h.Close()
}

type hivekitKey struct {
	r  types.Reader
	id types.NodeID
}

func (k *hivekitKey) Name() string {
	name, err := k.r.KeyName(k.id)
	if err != nil {
		return ""
	}
	return name
}

func (k *hivekitKey) Timestamp() time.Time {
	ts, err := k.r.KeyTimestamp(k.id)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func (k *hivekitKey) Subkeys() ([]string, error) {
	children, err := k.r.Subkeys(k.id)
	if err != nil {
		return nil, mapHivekitErr(err)
	}
	names := make([]string, 0, len(children))
	for _, child := range children {
		name, err := k.r.KeyName(child)
		if err != nil {
			// Skip corrupted subkeys rather than failing the listing.
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func (k *hivekitKey) Values() ([]Value, error) {
	ids, err := k.r.Values(k.id)
	if err != nil {
		return nil, mapHivekitErr(err)
	}
	values := make([]Value, 0, len(ids))
	for _, id := range ids {
		values = append(values, &hivekitValue{r: k.r, id: id})
	}
	return values, nil
}

func (k *hivekitKey) Value(name string) (Value, error) {
	id, err := k.r.GetValue(k.id, name)
	if err != nil {
		return nil, mapHivekitErr(err)
	}
	return &hivekitValue{r: k.r, id: id}, nil
}

type hivekitValue struct {
	r  types.Reader
	id types.ValueID
}

func (v *hivekitValue) Name() string {
	name, err := v.r.ValueName(v.id)
	if err != nil {
		return ""
	}
	return name
}

func (v *hivekitValue) Type() types.RegType {
	t, err := v.r.ValueType(v.id)
	if err != nil {
		return types.REG_NONE
	}
	return t
}

func (v *hivekitValue) Data() ([]byte, error) {
	data, err := v.r.ValueBytes(v.id, types.ReadOptions{CopyData: true})
	if err != nil {
		return nil, mapHivekitErr(err)
	}
	return data, nil
}

func (v *hivekitValue) AsString() (string, error) {
	s, err := v.r.ValueString(v.id, types.ReadOptions{})
	if err != nil {
		return "", mapHivekitErr(err)
	}
	return s, nil
}

func (v *hivekitValue) AsStrings() ([]string, error) {
	ss, err := v.r.ValueStrings(v.id, types.ReadOptions{})
	if err != nil {
		return nil, mapHivekitErr(err)
	}
	return ss, nil
}

func (v *hivekitValue) AsDWORD() (uint32, error) {
	d, err := v.r.ValueDWORD(v.id)
	if err != nil {
		return 0, mapHivekitErr(err)
	}
	return d, nil
}

func (v *hivekitValue) AsQWORD() (uint64, error) {
	q, err := v.r.ValueQWORD(v.id)
	if err != nil {
		return 0, mapHivekitErr(err)
	}
	return q, nil
}

// mapHivekitErr translates hivekit's typed errors into this package's
// sentinels so callers never depend on the parser's error vocabulary.
func mapHivekitErr(err error) error {
	var te *types.Error
	if errors.As(err, &te) {
		switch te.Kind {
		case types.ErrKindNotFound:
			return ErrNotFound
		case types.ErrKindType:
			return ErrWrongType
		}
	}
	return err
}
