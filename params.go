package reshape

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag(paramTag)
}

const paramTag = "param"

// Params is the immutable parameter bag handed unchanged to every content
// builder of one job. The zero value is an empty bag.
type Params struct {
	values map[string]string
}

// NewParams copies values into a new bag.
func NewParams(values map[string]string) Params {
	if len(values) == 0 {
		return Params{}
	}
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Params{values: copied}
}

// Get returns the value for key, or "" when absent.
func (p Params) Get(key string) string {
	return p.values[key]
}

// Lookup returns the value for key and whether it was present.
func (p Params) Lookup(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Require returns the value for key or a ParamError wrapping ErrMissingParameter.
func (p Params) Require(key string) (string, error) {
	v, ok := p.values[key]
	if !ok || v == "" {
		return "", &ParamError{Err: ErrMissingParameter, Key: key}
	}
	return v, nil
}

// Len returns the number of entries.
func (p Params) Len() int {
	return len(p.values)
}

// Keys returns the keys in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of the bag with key set to value. The receiver is unchanged.
func (p Params) With(key, value string) Params {
	copied := make(map[string]string, len(p.values)+1)
	for k, v := range p.values {
		copied[k] = v
	}
	copied[key] = value
	return Params{values: copied}
}

// Map returns a copy of the entries.
func (p Params) Map() map[string]string {
	copied := make(map[string]string, len(p.values))
	for k, v := range p.values {
		copied[k] = v
	}
	return copied
}

// ParamsFrom builds a bag from the `param:"name"` tagged fields of a struct.
// T must be a struct type. Untagged fields are ignored; non-string fields
// are formatted with fmt.
//
//	type Report struct {
//	    Action string `param:"soap.action"`
//	    Run    int    `param:"run"`
//	}
func ParamsFrom[T any](v T) (Params, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Struct {
		return Params{}, fmt.Errorf("params from %T: not a struct", v)
	}

	spec := sentinel.Scan[T]()
	values := make(map[string]string, len(spec.Fields))
	for _, field := range spec.Fields {
		name, ok := field.Tags[paramTag]
		if !ok || name == "" || name == "-" {
			continue
		}
		fv := rv.FieldByIndex(field.Index)
		if fv.Kind() == reflect.String {
			values[name] = fv.String()
			continue
		}
		values[name] = fmt.Sprint(fv.Interface())
	}
	return Params{values: values}, nil
}
