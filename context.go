// context.go: immutable key-value fields attached to framework errors.
//
// Fields are an append-only slice so rendering order is insertion order; the
// public view is a map built on read.
package xgxtrace

// Field is a single key-value pair attached to an error.
type Field struct {
	Key string
	Val any
}

type fields []Field

var emptyFields = make(fields, 0)

// appendFields returns a NEW slice holding dst followed by add. It never
// appends in place, so values sharing dst cannot observe the addition.
func appendFields(dst fields, add ...Field) fields {
	if len(dst)+len(add) == 0 {
		return emptyFields
	}
	out := make(fields, len(dst)+len(add))
	copy(out, dst)
	copy(out[len(dst):], add)
	return out
}

// fieldsFromKV reads (key, value) pairs left to right. A pair whose key is
// not a string is dropped whole so later pairs stay aligned; a trailing key
// gets a nil value.
func fieldsFromKV(kv ...any) fields {
	if len(kv) == 0 {
		return emptyFields
	}
	out := make(fields, 0, len(kv)/2+1)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		var v any
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		out = append(out, Field{Key: k, Val: v})
	}
	if len(out) == 0 {
		return emptyFields
	}
	return out
}

func (fs fields) toMap() map[string]any {
	if len(fs) == 0 {
		return nil
	}
	m := make(map[string]any, len(fs))
	for _, f := range fs {
		if f.Key != "" {
			m[f.Key] = f.Val
		}
	}
	return m
}
