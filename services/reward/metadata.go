package reward

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"reward-platform/pkg/errutil"
)

// Metadata holds the raw metadata value of a request. Clients send either a
// JSON object or that object serialized into a string.
type Metadata json.RawMessage

func (m *Metadata) UnmarshalJSON(b []byte) error {
	*m = append((*m)[:0], b...)
	return nil
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	if !m.Present() {
		return []byte("null"), nil
	}
	return m, nil
}

func (m Metadata) Present() bool {
	trimmed := bytes.TrimSpace(m)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Map decodes the metadata into an object. Absent metadata yields an empty
// map.
func (m Metadata) Map() (map[string]any, error) {
	out := map[string]any{}
	if !m.Present() {
		return out, nil
	}

	raw := []byte(m)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return out, nil
		}
		raw = []byte(s)
	}

	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return nil, errutil.BadRequest("metadata must be a JSON object or a valid JSON string", err)
	}
	return out, nil
}

func itemKeyOf(meta map[string]any) string {
	for _, k := range []string{metadataItemID, metadataItemKey} {
		v, ok := meta[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch tv := v.(type) {
		case string:
			s = tv
		case float64:
			s = strconv.FormatFloat(tv, 'f', -1, 64)
		default:
			s = fmt.Sprint(tv)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// lineKey is the item_key column value: the metadata item id for ITEM
// rewards and empty for every other type.
func lineKey(t Type, meta map[string]any) string {
	if t != Item {
		return ""
	}
	return itemKeyOf(meta)
}
