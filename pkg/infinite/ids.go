package infinite

import (
	"fmt"
	"reflect"
	"strings"
)

// IDRef is the {_id: "..."} form the API expects for id lists.
type IDRef struct {
	ID string `json:"_id"`
}

// Identifier implements Identified.
func (r IDRef) Identifier() string {
	return r.ID
}

// Identified is anything carrying a platform object id.
type Identified interface {
	Identifier() string
}

// IDListAsObjects converts an id reference into a slice of IDRef.
//
//	"1234,ABCD"                      -> [{_id:"1234"},{_id:"ABCD"}]
//	[]string{"1234","ABCD"}          -> [{_id:"1234"},{_id:"ABCD"}]
//	[]IDRef{{ID:"1234"},{ID:"ABCD"}} -> [{_id:"1234"},{_id:"ABCD"}]
func IDListAsObjects(ids any) []IDRef {
	list := IDListAsArray(ids)
	out := make([]IDRef, len(list))
	for i, id := range list {
		out[i] = IDRef{ID: id}
	}
	return out
}

// IDListAsString converts an id reference into a comma delimited list.
// Strings pass through untouched; unsupported input yields "".
func IDListAsString(ids any) string {
	if s, ok := ids.(string); ok {
		return s
	}
	return strings.Join(IDListAsArray(ids), ",")
}

// IDListAsArray converts an id reference into a slice of id strings.
// An empty string is an empty list.
func IDListAsArray(ids any) []string {
	switch v := ids.(type) {
	case nil:
		return []string{}
	case string:
		if v == "" {
			return []string{}
		}
		return strings.Split(v, ",")
	case []string:
		return append([]string{}, v...)
	case []IDRef:
		out := make([]string, len(v))
		for i, r := range v {
			out[i] = r.ID
		}
		return out
	case Identified:
		return []string{v.Identifier()}
	case map[string]any:
		return []string{idOf(v)}
	}

	rv := reflect.ValueOf(ids)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []string{}
	}

	out := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, idOf(rv.Index(i).Interface()))
	}
	return out
}

// TagListAsString formats tags as a comma delimited list. Strings pass through.
func TagListAsString(tags any) string {
	switch v := tags.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	}
	return strings.Join(IDListAsArray(tags), ",")
}

func idOf(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case Identified:
		return id.Identifier()
	case map[string]any:
		if raw, ok := id["_id"]; ok && raw != nil {
			return fmt.Sprint(raw)
		}
		return ""
	case nil:
		return ""
	}

	// Pointers to Identified values.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return idOf(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}
