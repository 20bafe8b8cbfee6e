package infinite

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Envelope is the {data, response} wrapper every platform call returns.
type Envelope struct {
	Data     any       `json:"data,omitempty"`
	Response *Response `json:"response,omitempty"`

	// keys records the top-level keys of a decoded body so that a missing
	// data key can be told apart from "data": null.
	keys map[string]struct{}
}

// Response is the status half of an Envelope.
type Response struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Action  string  `json:"action,omitempty"`
	Time    float64 `json:"time,omitempty"`
}

// UnmarshalJSON decodes the envelope and remembers which keys were present.
func (e *Envelope) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	e.keys = make(map[string]struct{}, len(fields))
	for k := range fields {
		e.keys[k] = struct{}{}
	}

	if raw, ok := fields["data"]; ok {
		if err := json.Unmarshal(raw, &e.Data); err != nil {
			return fmt.Errorf("error decoding data: %w", err)
		}
	}
	if raw, ok := fields["response"]; ok && string(raw) != "null" {
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
		// Loosely typed fields ("success": "true", fractional times) are
		// coerced rather than rejected.
		var resp Response
		if err := Decode(generic, &resp); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
		e.Response = &resp
	}

	return nil
}

// IsEmpty reports whether the envelope carries nothing at all.
func (e *Envelope) IsEmpty() bool {
	if e == nil {
		return true
	}
	if e.keys != nil {
		return len(e.keys) == 0
	}
	return e.Data == nil && e.Response == nil
}

// HasData reports whether the envelope has a data key.
func (e *Envelope) HasData() bool {
	if e == nil {
		return false
	}
	if e.keys != nil {
		_, ok := e.keys["data"]
		return ok
	}
	return e.Data != nil
}

// Succeeded reports response.success.
func (e *Envelope) Succeeded() bool {
	return e != nil && e.Response != nil && e.Response.Success
}

// ===================================================================
// Resolve helpers
// ===================================================================

// ResolveWithData returns the data portion of an envelope.
func ResolveWithData(env *Envelope) (any, error) {
	if env.IsEmpty() {
		return nil, fmt.Errorf("%w, cannot read data", ErrEmptyResponse)
	}
	if !env.HasData() {
		return nil, ErrMissingData
	}
	return env.Data, nil
}

// ResolveWithDataID returns data._id.
func ResolveWithDataID(env *Envelope) (string, error) {
	data, err := ResolveWithData(env)
	if err != nil {
		return "", err
	}

	switch v := data.(type) {
	case map[string]any:
		if id, ok := v["_id"]; ok && id != nil {
			return fmt.Sprint(id), nil
		}
	case Identified:
		if id := v.Identifier(); id != "" {
			return id, nil
		}
	}

	return "", ErrMissingID
}

// ResolveWithDataOrArray returns data, or an empty array when there is no
// data key. Only a fully empty envelope is an error.
func ResolveWithDataOrArray(env *Envelope) (any, error) {
	if env.IsEmpty() {
		return nil, fmt.Errorf("%w, cannot parse", ErrEmptyResponse)
	}
	if !env.HasData() {
		return []any{}, nil
	}
	return env.Data, nil
}

// ResolveWithDataOrObject returns data, or an empty object when there is no
// data key.
func ResolveWithDataOrObject(env *Envelope) (any, error) {
	if env.IsEmpty() {
		return nil, fmt.Errorf("%w, cannot parse", ErrEmptyResponse)
	}
	if !env.HasData() {
		return map[string]any{}, nil
	}
	return env.Data, nil
}

// ResolveWithResponse returns the response portion of an envelope.
func ResolveWithResponse(env *Envelope) (*Response, error) {
	if env.IsEmpty() {
		return nil, fmt.Errorf("%w, cannot read 'response'", ErrEmptyResponse)
	}
	return env.Response, nil
}

// DecodeData resolves the data portion of env and decodes it into T.
func DecodeData[T any](env *Envelope) (T, error) {
	var out T
	data, err := ResolveWithData(env)
	if err != nil {
		return out, err
	}
	if err := Decode(data, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Decode converts a generic JSON value (maps, slices, scalars) into out,
// which must be a pointer. Field names follow the json tags and platform
// timestamps are parsed into time.Time.
func Decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       platformTimeHook,
	})
	if err != nil {
		return fmt.Errorf("error creating decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("error decoding data: %w", err)
	}
	return nil
}

var (
	timeType         = reflect.TypeOf(time.Time{})
	platformTimeType = reflect.TypeOf(Time{})
)

func platformTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch to {
	case timeType:
		return toTime(data)
	case platformTimeType:
		t, err := toTime(data)
		if err != nil {
			return nil, err
		}
		if tt, ok := t.(time.Time); ok {
			return Time{Time: tt}, nil
		}
		return t, nil
	}
	return data, nil
}

func toTime(data any) (any, error) {
	switch v := data.(type) {
	case nil:
		return time.Time{}, nil
	case string:
		if v == "" {
			return time.Time{}, nil
		}
		return ParseTime(v)
	case float64:
		return time.UnixMilli(int64(v)).UTC(), nil
	case int64:
		return time.UnixMilli(v).UTC(), nil
	case json.Number:
		ms, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	return data, nil
}
