package audit

import (
	"reflect"
)

// Redacted replaces the value of fields tagged `audit:"redact"` in diffs.
const Redacted = "[REDACTED]"

// FieldChange holds the old and new value of one changed field.
type FieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// Diff computes the minimal set of changed fields between two snapshots of
// the same struct type using structural deep-equality, not serialization
// comparison. Either side may be nil (create has no before, delete no
// after); the missing side is treated as the zero value. Unexported fields
// and fields tagged `audit:"-"` are skipped; fields tagged `audit:"redact"`
// appear in the result with both sides redacted.
func Diff(before, after interface{}) map[string]FieldChange {
	bv, ok1 := structValue(before)
	av, ok2 := structValue(after)
	if !ok1 && !ok2 {
		return nil
	}

	var t reflect.Type
	switch {
	case ok1:
		t = bv.Type()
	default:
		t = av.Type()
	}
	if ok1 && ok2 && bv.Type() != av.Type() {
		return nil
	}

	changes := make(map[string]FieldChange)
	diffStruct(t, bv, av, ok1, ok2, changes)
	if len(changes) == 0 {
		return nil
	}
	return changes
}

func diffStruct(t reflect.Type, bv, av reflect.Value, hasB, hasA bool, changes map[string]FieldChange) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		tag := field.Tag.Get("audit")
		if tag == "-" {
			continue
		}

		var fb, fa reflect.Value
		if hasB {
			fb = bv.Field(i)
		}
		if hasA {
			fa = av.Field(i)
		}

		// Flatten embedded structs (BaseModel and friends) into the parent.
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			diffStruct(field.Type, fb, fa, hasB, hasA, changes)
			continue
		}

		from := fieldInterface(fb, field.Type)
		to := fieldInterface(fa, field.Type)
		if reflect.DeepEqual(from, to) {
			continue
		}

		name := jsonName(field)
		if tag == "redact" {
			changes[name] = FieldChange{From: Redacted, To: Redacted}
			continue
		}
		changes[name] = FieldChange{From: from, To: to}
	}
}

func structValue(v interface{}) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return rv, true
}

func fieldInterface(v reflect.Value, t reflect.Type) interface{} {
	if !v.IsValid() {
		return reflect.Zero(t).Interface()
	}
	return v.Interface()
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			if i == 0 {
				return field.Name
			}
			return tag[:i]
		}
	}
	return tag
}
