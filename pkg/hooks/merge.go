package hooks

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/arthur-debert/aisetup/pkg/errors"
)

const hooksKey = "hooks"

// member is one key of a JSON object with its value bytes as read
type member struct {
	key   string
	value json.RawMessage
}

// MergeHooks writes specs into the "hooks" object of a settings document.
// Empty input is treated as {}. Only the keys named by specs are replaced;
// new keys are appended after existing ones. The output is indented with
// two spaces and ends in a newline, so merging its own output again yields
// identical bytes.
func MergeHooks(existing []byte, specs []Spec) ([]byte, error) {
	top, err := parseObject(existing)
	if err != nil {
		return nil, err
	}

	hooks, idx, err := hooksObject(top)
	if err != nil {
		return nil, err
	}

	for _, s := range specs {
		value, err := marshal(s.Value())
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrHookMerge, "cannot encode hook %s", s.Event)
		}
		hooks = setMember(hooks, string(s.Event), value)
	}

	hooksValue, err := compactObject(hooks)
	if err != nil {
		return nil, err
	}
	if idx >= 0 {
		top[idx].value = hooksValue
	} else {
		top = append(top, member{key: hooksKey, value: hooksValue})
	}
	return format(top)
}

// UnmergeHooks removes the keys named by specs, but only where they still
// hold exactly what MergeHooks writes. An emptied "hooks" object is dropped.
// changed is false when nothing was removed; existing is then returned as is.
func UnmergeHooks(existing []byte, specs []Spec) (out []byte, changed bool, err error) {
	if len(bytes.TrimSpace(existing)) == 0 {
		return existing, false, nil
	}
	top, err := parseObject(existing)
	if err != nil {
		return nil, false, err
	}
	hooks, idx, err := hooksObject(top)
	if err != nil || idx < 0 {
		return existing, false, err
	}

	for _, s := range specs {
		want, err := marshal(s.Value())
		if err != nil {
			return nil, false, errors.Wrapf(err, errors.ErrHookMerge, "cannot encode hook %s", s.Event)
		}
		kept := hooks[:0]
		for _, m := range hooks {
			if m.key == string(s.Event) && sameJSON(m.value, want) {
				changed = true
				continue
			}
			kept = append(kept, m)
		}
		hooks = kept
	}
	if !changed {
		return existing, false, nil
	}

	if len(hooks) == 0 {
		top = append(top[:idx], top[idx+1:]...)
	} else {
		value, err := compactObject(hooks)
		if err != nil {
			return nil, false, err
		}
		top[idx].value = value
	}
	out, err = format(top)
	return out, true, err
}

// hooksObject returns the members of the top-level "hooks" object and its
// index, or -1 when absent. A "hooks" value that is not an object is an error.
func hooksObject(top []member) ([]member, int, error) {
	for i, m := range top {
		if m.key != hooksKey {
			continue
		}
		hooks, err := parseObject(m.value)
		if err != nil {
			return nil, -1, errors.Wrap(err, errors.ErrHookMalformed, `"hooks" is not a JSON object`)
		}
		return hooks, i, nil
	}
	return nil, -1, nil
}

// setMember replaces the first member with key in place and drops any
// duplicates, or appends it when absent
func setMember(members []member, key string, value json.RawMessage) []member {
	out := members[:0]
	found := false
	for _, m := range members {
		if m.key != key {
			out = append(out, m)
			continue
		}
		if !found {
			out = append(out, member{key: key, value: value})
			found = true
		}
	}
	if !found {
		out = append(out, member{key: key, value: value})
	}
	return out
}

// parseObject reads a JSON object into its members in document order.
// Whitespace-only input is an empty object.
func parseObject(data []byte) ([]member, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New(errors.ErrHookMalformed, "settings must be a JSON object")
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New(errors.ErrHookMalformed, "object key is not a string")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, malformed(err)
		}
		members = append(members, member{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformed(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrHookMalformed, "unexpected data after the settings object")
	}
	return members, nil
}

// compactObject encodes members as a JSON object without whitespace
func compactObject(members []member) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(m.key)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrHookMerge, "cannot encode key")
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := json.Compact(&buf, m.value); err != nil {
			return nil, errors.Wrapf(err, errors.ErrHookMerge, "cannot encode %q", m.key)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func format(top []member) ([]byte, error) {
	compact, err := compactObject(top)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, errors.Wrap(err, errors.ErrHookMerge, "cannot indent settings")
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// marshal encodes v without HTML escaping, so "Write|Edit" and commands
// containing & or < stay readable
func marshal(v interface{}) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func sameJSON(a, b []byte) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}

func malformed(err error) error {
	return errors.Wrap(err, errors.ErrHookMalformed, "settings file is not valid JSON")
}
