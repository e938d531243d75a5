package payback

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is a loosely typed numeric field: a JSON/YAML number or a numeric
// string. It is only interpreted when the scenario is constructed, so errors
// can name the field.
type Number struct {
	raw string
	set bool
}

// NumberOf wraps a float.
func NumberOf(v float64) Number {
	return Number{raw: strconv.FormatFloat(v, 'g', -1, 64), set: true}
}

// NumberFromString wraps text that should hold a number.
func NumberFromString(s string) Number {
	return Number{raw: s, set: true}
}

// Numbers wraps a float slice.
func Numbers(vs ...float64) []Number {
	out := make([]Number, len(vs))
	for i, v := range vs {
		out[i] = NumberOf(v)
	}
	return out
}

// IsSet reports whether the field was present and not null.
func (n Number) IsSet() bool { return n.set }

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*n = Number{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number{raw: s, set: true}
		return nil
	}
	*n = Number{raw: string(b), set: true}
	return nil
}

// MarshalJSON writes numeric text as a JSON number and anything else as a
// string, so a decoded document encodes back to an equivalent one.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	raw := strings.TrimSpace(n.raw)
	if _, err := strconv.ParseFloat(raw, 64); err == nil && json.Valid([]byte(raw)) {
		return []byte(raw), nil
	}
	return json.Marshal(n.raw)
}

func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	switch {
	case value.Kind != yaml.ScalarNode:
		*n = Number{raw: fmt.Sprintf("<%s>", value.ShortTag()), set: true}
	case value.ShortTag() == "!!null":
		*n = Number{}
	default:
		*n = Number{raw: value.Value, set: true}
	}
	return nil
}

// Float coerces the field, failing with ErrInvalidInput when it is missing
// or not a finite number.
func (n Number) Float(field string) (float64, error) {
	if !n.set {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(n.raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s is not a number: %q", ErrInvalidInput, field, n.raw)
	}
	return v, nil
}

func (n Number) floatOr(field string, def float64) (float64, error) {
	if !n.set {
		return def, nil
	}
	return n.Float(field)
}

// Int coerces the field to a whole number in the int32 range.
func (n Number) Int(field string) (int, error) {
	v, err := n.Float(field)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s is not a valid integer: %q", ErrInvalidInput, field, n.raw)
	}
	return int(v), nil
}

func floats(field string, ns []Number, want int) ([]float64, error) {
	if ns == nil {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if len(ns) != want {
		return nil, fmt.Errorf("%w: %s must have %d values, got %d", ErrInvalidInput, field, want, len(ns))
	}
	out := make([]float64, len(ns))
	for i, n := range ns {
		v, err := n.Float(fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Document is the scenario interchange format, keyed the way the reference
// workbook extraction writes it.
type Document struct {
	Plots  []PlotDoc  `json:"talhoes" yaml:"talhoes"`
	Prices *PricesDoc `json:"precos" yaml:"precos"`
	Costs  *CostsDoc  `json:"custos" yaml:"custos"`
}

type PlotDoc struct {
	ID        Number   `json:"talhao" yaml:"talhao"`
	AreaHa    Number   `json:"area_ha" yaml:"area_ha"`
	RowM      Number   `json:"rua_m" yaml:"rua_m"`
	PlantM    Number   `json:"plantas_m" yaml:"plantas_m"`
	BaseYield []Number `json:"prod_cx_planta_base" yaml:"prod_cx_planta_base"`
	Deflators []Number `json:"prod_deflatores" yaml:"prod_deflatores"`
}

type PricesDoc struct {
	Base    Number   `json:"preco_base" yaml:"preco_base"`
	Factors []Number `json:"fatores" yaml:"fatores"`
}

type CostsDoc struct {
	Implantation []ImplantationDoc `json:"implantacao_itens" yaml:"implantacao_itens"`
	Opex         []OpexDoc         `json:"opex_categorias" yaml:"opex_categorias"`
	LaborUnit    []Number          `json:"colheita_mo_unit" yaml:"colheita_mo_unit"`
	FreightUnit  []Number          `json:"colheita_frete_unit" yaml:"colheita_frete_unit"`
}

// ImplantationDoc fields are optional: a missing unit value is 0 and missing
// quantities are zero for all three years.
type ImplantationDoc struct {
	Name       string   `json:"nome,omitempty" yaml:"nome,omitempty"`
	UnitValue  Number   `json:"valor_unitario" yaml:"valor_unitario"`
	Quantities []Number `json:"qtd_ano" yaml:"qtd_ano"`
}

type OpexDoc struct {
	Name        *string  `json:"nome" yaml:"nome"`
	BasePerHa   Number   `json:"base_ano4_por_ha" yaml:"base_ano4_por_ha"`
	Multipliers []Number `json:"multiplicadores" yaml:"multiplicadores"`
}

// DecodeJSON reads a JSON scenario document.
func DecodeJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: malformed JSON scenario: %v", ErrInvalidInput, err)
	}
	return doc, nil
}

// DecodeYAML reads a YAML scenario document.
func DecodeYAML(r io.Reader) (Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: malformed YAML scenario: %v", ErrInvalidInput, err)
	}
	return doc, nil
}
