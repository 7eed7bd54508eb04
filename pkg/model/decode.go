package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses a TemplateConfig from JSON or YAML and validates it. Unknown
// top-level keys are ignored; shape errors below the top level (unknown
// nested keys, wrong types) and invariant failures are reported as
// *ValidationError.
func Decode(data []byte) (TemplateConfig, error) {
	cfg, _, err := DecodeWithExtras(data)
	return cfg, err
}

// DecodeWithExtras behaves like Decode and also returns the sorted top-level
// keys it ignored, such as the generatedAt stamp written by exports.
func DecodeWithExtras(data []byte) (TemplateConfig, []string, error) {
	payload, err := jsonPayload(data, "document")
	if err != nil {
		return TemplateConfig{}, nil, err
	}
	payload, extras, err := dropUnknownKeys(payload, configKeys)
	if err != nil {
		return TemplateConfig{}, nil, err
	}

	cfg, err := DecodeJSON(payload)
	if err != nil {
		return TemplateConfig{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return TemplateConfig{}, nil, err
	}
	return cfg, extras, nil
}

// DecodeJSON strictly unmarshals a JSON document without running Validate.
// Numbers inside section config bags are kept as json.Number.
func DecodeJSON(data []byte) (TemplateConfig, error) {
	var cfg TemplateConfig
	if err := decodeStrict(data, &cfg); err != nil {
		return TemplateConfig{}, &ValidationError{Issues: []Issue{{Message: "malformed configuration: " + err.Error()}}}
	}
	return cfg, nil
}

// DecodePartial parses a partial update payload from JSON or YAML. Unknown
// top-level keys are ignored. The result is not validated; validate the
// merged document instead.
func DecodePartial(data []byte) (Partial, error) {
	payload, err := jsonPayload(data, "partial")
	if err != nil {
		return Partial{}, err
	}
	payload, _, err = dropUnknownKeys(payload, configKeys)
	if err != nil {
		return Partial{}, err
	}

	var p Partial
	if err := decodeStrict(payload, &p); err != nil {
		return Partial{}, &ValidationError{Issues: []Issue{{Message: "malformed partial: " + err.Error()}}}
	}
	return p, nil
}

// configKeys lists the top-level keys of TemplateConfig and Partial.
var configKeys = jsonKeys(reflect.TypeOf(TemplateConfig{}))

func jsonKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = struct{}{}
		}
	}
	return keys
}

// jsonPayload trims data and converts YAML input to JSON.
func jsonPayload(data []byte, what string) ([]byte, error) {
	payload := bytes.TrimSpace(data)
	if len(payload) == 0 {
		return nil, &ValidationError{Issues: []Issue{{Message: what + " is empty"}}}
	}
	if payload[0] == '{' {
		return payload, nil
	}
	converted, err := yamlToJSON(payload)
	if err != nil {
		return nil, &ValidationError{Issues: []Issue{{Message: err.Error()}}}
	}
	return converted, nil
}

// dropUnknownKeys removes top-level keys not in known and returns them
// sorted. Payloads without unknown keys are returned untouched.
func dropUnknownKeys(payload []byte, known map[string]struct{}) ([]byte, []string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, nil, &ValidationError{Issues: []Issue{{Message: "malformed configuration: " + err.Error()}}}
	}
	var extras []string
	for key := range fields {
		if _, ok := known[key]; !ok {
			extras = append(extras, key)
			delete(fields, key)
		}
	}
	if len(extras) == 0 {
		return payload, nil, nil
	}
	sort.Strings(extras)
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, nil, fmt.Errorf("model: encode configuration: %w", err)
	}
	return out, extras, nil
}

func decodeStrict(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	return dec.Decode(target)
}

// Encode serialises the document as indented JSON.
func Encode(cfg TemplateConfig) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("model: parse yaml: %w", err)
	}
	normalized, err := normalizeYAML(doc)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("model: encode yaml document: %w", err)
	}
	return out, nil
}

// yaml.v3 decodes nested mappings with non-string keys as map[any]any, which
// encoding/json cannot marshal.
func normalizeYAML(value any) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			converted, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			name, ok := key.(string)
			if !ok {
				name = strings.TrimSpace(fmt.Sprint(key))
			}
			converted, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			out[name] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			converted, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	default:
		return v, nil
	}
}
