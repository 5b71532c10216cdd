package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SpecValue is a product specification value: a string, a number or a boolean.
type SpecValue struct {
	kind specKind
	str  string
	num  float64
	b    bool
}

type specKind uint8

const (
	specString specKind = iota
	specNumber
	specBool
)

func StringSpec(s string) SpecValue { return SpecValue{kind: specString, str: s} }
func NumberSpec(n float64) SpecValue { return SpecValue{kind: specNumber, num: n} }
func BoolSpec(b bool) SpecValue { return SpecValue{kind: specBool, b: b} }
func (v SpecValue) IsNumber() bool { return v.kind == specNumber }
func (v SpecValue) IsBool() bool { return v.kind == specBool }
func (v SpecValue) Number() float64 { return v.num }
func (v SpecValue) Bool() bool { return v.b }

// String renders the value the way the product page displays it.
func (v SpecValue) String() string {
	switch v.kind {
	case specNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case specBool:
		if v.b {
			return "Oui"
		}
		return "Non"
	default:
		return v.str
	}
}

func (v SpecValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case specNumber:
		return json.Marshal(v.num)
	case specBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.str)
	}
}

func (v *SpecValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return fmt.Errorf("empty spec value")
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringSpec(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = BoolSpec(data[0] == 't')
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("spec value must be a string, number or boolean: %s", data)
		}
		*v = NumberSpec(n)
	}
	return nil
}

func (v *SpecValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: spec value must be a scalar", node.Line)
	}
	switch node.Tag {
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = BoolSpec(b)
	case "!!int", "!!float":
		var n float64
		if err := node.Decode(&n); err != nil {
			return err
		}
		*v = NumberSpec(n)
	default:
		*v = StringSpec(node.Value)
	}
	return nil
}
