package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/df07/go-raycaster/pkg/core"
)

// sceneObject is one JSON object of a scene description together with its
// path from the document root, used to name the element in errors
type sceneObject struct {
	path   string
	fields map[string]json.RawMessage
}

func newSceneObject(path string, raw json.RawMessage) (sceneObject, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return sceneObject{}, fmt.Errorf("%s: expected an object", path)
	}
	return sceneObject{path: path, fields: fields}, nil
}

func (o sceneObject) fieldPath(key string) string {
	if o.path == "" {
		return key
	}
	return o.path + "." + key
}

func (o sceneObject) has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

func (o sceneObject) missing(key string) error {
	return fmt.Errorf("%s: %w", o.fieldPath(key), ErrMissingField)
}

// child returns a nested object
func (o sceneObject) child(key string) (sceneObject, error) {
	raw, ok := o.fields[key]
	if !ok {
		return sceneObject{}, o.missing(key)
	}
	return newSceneObject(o.fieldPath(key), raw)
}

// list returns the objects of a nested array; a missing key is an empty list
func (o sceneObject) list(key string) ([]sceneObject, error) {
	raw, ok := o.fields[key]
	if !ok {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: expected a list", o.fieldPath(key))
	}

	objects := make([]sceneObject, len(items))
	for i, item := range items {
		object, err := newSceneObject(fmt.Sprintf("%s[%d]", o.fieldPath(key), i), item)
		if err != nil {
			return nil, err
		}
		objects[i] = object
	}
	return objects, nil
}

func (o sceneObject) text(key string) (string, error) {
	raw, ok := o.fields[key]
	if !ok {
		return "", o.missing(key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s: expected a string", o.fieldPath(key))
	}
	return s, nil
}

func (o sceneObject) textList(key string) ([]string, error) {
	raw, ok := o.fields[key]
	if !ok {
		return nil, o.missing(key)
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%s: expected a list of strings", o.fieldPath(key))
	}
	return values, nil
}

func (o sceneObject) boolDefault(key string, fallback bool) (bool, error) {
	raw, ok := o.fields[key]
	if !ok {
		return fallback, nil
	}

	var value bool
	if err := json.Unmarshal(raw, &value); err == nil {
		return value, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseBool(s); err == nil {
			return parsed, nil
		}
	}
	return false, fmt.Errorf("%s: expected a boolean", o.fieldPath(key))
}

// float reads a number given either as a JSON number or as a numeric string
func (o sceneObject) number(key string) (float64, error) {
	raw, ok := o.fields[key]
	if !ok {
		return 0, o.missing(key)
	}
	value, err := parseNumber(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", o.fieldPath(key), err)
	}
	return value, nil
}

func (o sceneObject) numberDefault(key string, fallback float64) (float64, error) {
	if !o.has(key) {
		return fallback, nil
	}
	return o.number(key)
}

func (o sceneObject) integer(key string) (int, error) {
	value, err := o.number(key)
	if err != nil {
		return 0, err
	}
	if value != float64(int(value)) {
		return 0, fmt.Errorf("%s: %v is not an integer: %w", o.fieldPath(key), value, ErrInvalidNumber)
	}
	return int(value), nil
}

// vec3 reads a vector given as "x y z" or as a three-element array
func (o sceneObject) vec3(key string) (core.Vec3, error) {
	raw, ok := o.fields[key]
	if !ok {
		return core.Vec3{}, o.missing(key)
	}
	values, err := parseNumberList(raw)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("%s: %w", o.fieldPath(key), err)
	}
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%s: expected 3 values, got %d: %w", o.fieldPath(key), len(values), ErrInvalidNumber)
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

func (o sceneObject) vec3Default(key string, fallback core.Vec3) (core.Vec3, error) {
	if !o.has(key) {
		return fallback, nil
	}
	return o.vec3(key)
}

func parseNumber(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, ErrInvalidNumber
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", s, ErrInvalidNumber)
		}
		return value, nil
	}

	var value float64
	if bytes.Equal(raw, []byte("null")) || json.Unmarshal(raw, &value) != nil {
		return 0, fmt.Errorf("%s: %w", raw, ErrInvalidNumber)
	}
	return value, nil
}

// parseNumberList accepts "1 2 3" or [1, 2, 3] (elements may be numeric strings)
func parseNumberList(raw json.RawMessage) ([]float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, ErrInvalidNumber
		}
		return parseFloatFields(strings.Fields(s))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", raw, ErrInvalidNumber)
	}
	values := make([]float64, len(items))
	for i, item := range items {
		value, err := parseNumber(item)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func parseFloatFields(fields []string) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", field, ErrInvalidNumber)
		}
		values[i] = value
	}
	return values, nil
}
