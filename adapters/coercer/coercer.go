package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"goeda/domain/table"
)

// Hint is the native type a source decoder attached to a cell
type Hint int

const (
	HintString Hint = iota
	HintNumber
	HintBool
	HintNull
)

// Cell is one raw value as decoded from a source file
type Cell struct {
	Hint Hint
	Raw  string
	Num  float64
	Bool bool
}

// StringCell wraps text decoded from an untyped source (CSV, spreadsheet)
func StringCell(s string) Cell { return Cell{Hint: HintString, Raw: s} }

// NumberCell wraps a native number; raw keeps the source spelling for text fallback
func NumberCell(f float64, raw string) Cell { return Cell{Hint: HintNumber, Num: f, Raw: raw} }

// BoolCell wraps a native boolean
func BoolCell(b bool) Cell {
	return Cell{Hint: HintBool, Bool: b, Raw: strconv.FormatBool(b)}
}

// NullCell is an explicit null
func NullCell() Cell { return Cell{Hint: HintNull} }

// TypeCoercer handles deterministic kind inference and value coercion
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]bool
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold   float64  `json:"numeric_threshold"`   // share of values that must parse as numbers
	BooleanThreshold   float64  `json:"boolean_threshold"`   // share of values that must parse as booleans
	TimestampThreshold float64  `json:"timestamp_threshold"` // share of values that must parse as timestamps
	MissingTokens      []string `json:"missing_tokens"`
}

// DefaultCoercionConfig requires every non-missing value to agree on a kind
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   1.0,
		BooleanThreshold:   1.0,
		TimestampThreshold: 1.0,
		MissingTokens: []string{
			"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan", "null", "NULL", "None",
			"#N/A", "#NA", "<NA>", "1.#IND", "1.#QNAN", "-1.#IND", "-1.#QNAN",
		},
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[tok] = true
	}
	return &TypeCoercer{config: config, missing: missing}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// IsMissing reports whether a cell counts as a missing value
func (c *TypeCoercer) IsMissing(cell Cell) bool {
	switch cell.Hint {
	case HintNull:
		return true
	case HintString:
		return c.missing[cell.Raw]
	case HintNumber:
		return math.IsNaN(cell.Num)
	}
	return false
}

// AnalyzeTypeDistribution counts how many non-missing cells can be coerced to each kind
func (c *TypeCoercer) AnalyzeTypeDistribution(cells []Cell) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(cells)}

	for _, cell := range cells {
		if c.IsMissing(cell) {
			continue
		}
		analysis.ValidCount++
		if _, ok := c.tryParseNumeric(cell); ok {
			analysis.NumericCount++
		}
		if _, ok := c.tryParseBoolean(cell); ok {
			analysis.BooleanCount++
		}
		if _, ok := c.tryParseTimestamp(cell); ok {
			analysis.TimestampCount++
		}
	}

	if analysis.ValidCount > 0 {
		valid := float64(analysis.ValidCount)
		analysis.NumericRatio = float64(analysis.NumericCount) / valid
		analysis.BooleanRatio = float64(analysis.BooleanCount) / valid
		analysis.TimestampRatio = float64(analysis.TimestampCount) / valid
	}
	analysis.RecommendedKind = c.determineRecommendedKind(analysis)

	return analysis
}

// InferColumn decides the column kind and converts every cell to a typed Value
func (c *TypeCoercer) InferColumn(name string, cells []Cell) *table.Column {
	analysis := c.AnalyzeTypeDistribution(cells)
	kind := analysis.RecommendedKind

	values := make([]table.Value, len(cells))
	for i, cell := range cells {
		values[i] = c.CoerceValue(cell, kind)
	}
	return &table.Column{Name: name, Kind: kind, Values: values}
}

// CoerceValue converts a cell to the given kind; cells that do not fit become missing
func (c *TypeCoercer) CoerceValue(cell Cell, kind table.Kind) table.Value {
	if c.IsMissing(cell) {
		return table.Missing()
	}
	switch kind {
	case table.KindNumeric:
		if f, ok := c.tryParseNumeric(cell); ok {
			return table.Numeric(f)
		}
	case table.KindBoolean:
		if b, ok := c.tryParseBoolean(cell); ok {
			return table.Boolean(b)
		}
	case table.KindDatetime:
		if t, ok := c.tryParseTimestamp(cell); ok {
			return table.Datetime(t)
		}
	default:
		return table.Text(cell.Raw)
	}
	return table.Missing()
}

// tryParseNumeric accepts native numbers and strings holding a finite float
func (c *TypeCoercer) tryParseNumeric(cell Cell) (float64, bool) {
	switch cell.Hint {
	case HintNumber:
		if math.IsInf(cell.Num, 0) || math.IsNaN(cell.Num) {
			return 0, false
		}
		return cell.Num, true
	case HintString:
		s := strings.TrimSpace(cell.Raw)
		if s == "" {
			return 0, false
		}
		val, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
			return 0, false
		}
		return val, true
	}
	return 0, false
}

// tryParseBoolean accepts native booleans and true/false literals in any case
func (c *TypeCoercer) tryParseBoolean(cell Cell) (bool, bool) {
	switch cell.Hint {
	case HintBool:
		return cell.Bool, true
	case HintString:
		switch strings.ToLower(strings.TrimSpace(cell.Raw)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// tryParseTimestamp attempts the supported layouts on string cells only
func (c *TypeCoercer) tryParseTimestamp(cell Cell) (time.Time, bool) {
	if cell.Hint != HintString {
		return time.Time{}, false
	}
	s := strings.TrimSpace(cell.Raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// determineRecommendedKind checks thresholds in order of preference (most restrictive first)
func (c *TypeCoercer) determineRecommendedKind(analysis TypeAnalysis) table.Kind {
	if analysis.ValidCount == 0 {
		return table.KindNumeric
	}
	if analysis.NumericRatio >= c.config.NumericThreshold {
		return table.KindNumeric
	}
	if analysis.BooleanRatio >= c.config.BooleanThreshold {
		return table.KindBoolean
	}
	if analysis.TimestampRatio >= c.config.TimestampThreshold {
		return table.KindDatetime
	}
	return table.KindText
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int        `json:"total_count"`
	ValidCount      int        `json:"valid_count"`
	NumericCount    int        `json:"numeric_count"`
	BooleanCount    int        `json:"boolean_count"`
	TimestampCount  int        `json:"timestamp_count"`
	NumericRatio    float64    `json:"numeric_ratio"`
	BooleanRatio    float64    `json:"boolean_ratio"`
	TimestampRatio  float64    `json:"timestamp_ratio"`
	RecommendedKind table.Kind `json:"recommended_kind"`
}
