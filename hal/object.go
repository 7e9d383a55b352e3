package hal

import "sort"

// Object is a native argument object: string keys using the WebGPU field
// names, values restricted to strings, numbers, bools, []any, map[string]any
// and native handles.
type Object map[string]any

// Keys returns the object's field names in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether the field is present.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Clone returns a shallow copy. Nested objects and lists are shared.
func (o Object) Clone() Object {
	if o == nil {
		return nil
	}
	c := make(Object, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}
