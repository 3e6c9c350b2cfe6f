package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ParseStage names the decoder that accepted a document.
type ParseStage string

const (
	StageJSON     ParseStage = "json"
	StageHJSON    ParseStage = "hjson"
	StageRepaired ParseStage = "repaired"
)

// SmartParse decodes a model-input document into target, trying the
// decoders from strictest to most lenient:
//  1. Standard JSON, unknown fields rejected
//  2. Hjson (comments, unquoted keys, optional commas), normalized to JSON
//  3. JSON repair (trailing commas, single quotes, unclosed objects)
//
// It returns the normalized JSON that was finally decoded and the stage
// that accepted it, so callers can log when input needed fixing.
func SmartParse(input []byte, target interface{}) (string, ParseStage, error) {
	// Try 1: Standard JSON
	if err := decodeStrict(input, target); err == nil {
		return string(input), StageJSON, nil
	}

	// Try 2: Hjson
	if normalized, err := HJSONToJSON(input); err == nil {
		if err := decodeStrict([]byte(normalized), target); err == nil {
			return normalized, StageHJSON, nil
		}
	}

	// Try 3: JSON repair
	repaired, err := jsonrepair.RepairJSON(string(input))
	if err != nil {
		return "", "", fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
	}
	if err := decodeStrict([]byte(repaired), target); err != nil {
		return "", "", fmt.Errorf("SMART_PARSE_FAILED: %w", err)
	}
	return repaired, StageRepaired, nil
}

// HJSONToJSON parses Hjson and re-encodes it as standard JSON.
func HJSONToJSON(data []byte) (string, error) {
	var v interface{}
	if err := hjson.Unmarshal(data, &v); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	return string(out), nil
}

// MissingKeys reports which of the required top-level keys are absent from
// a JSON object. A key present with a null value counts as missing.
func MissingKeys(jsonData string, required []string) ([]string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonData), &obj); err != nil {
		return nil, fmt.Errorf("JSON_STRUCTURAL_ERROR: %v", err)
	}

	var missing []string
	for _, key := range required {
		raw, ok := obj[key]
		if !ok || string(raw) == "null" {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing, nil
}

func decodeStrict(data []byte, target interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}
