package cipher

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RowanDark/cipherlab/internal/normalize"
	"github.com/RowanDark/cipherlab/internal/numtheory"
)

// Parameter names understood by the classical operations.
const (
	ParamKey            = "key"
	ParamMatrix         = "matrix"
	ParamRails          = "rails"
	ParamRows           = "rows"
	ParamOriginalLength = "original_length"
	ParamFiller         = "filler"
)

func paramError(name, format string, args ...interface{}) error {
	return fmt.Errorf("%w: parameter %q: %s", numtheory.ErrMalformedInput, name, fmt.Sprintf(format, args...))
}

// stringParam returns a required string parameter.
func stringParam(params map[string]interface{}, name string) (string, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return "", paramError(name, "is required")
	}
	s, ok := v.(string)
	if !ok {
		return "", paramError(name, "expected a string, got %T", v)
	}
	return s, nil
}

// intParam returns the first of names present in params. JSON numbers,
// Go integers and numeric strings are accepted.
func intParam(params map[string]interface{}, names ...string) (int, error) {
	for _, name := range names {
		v, ok := params[name]
		if !ok || v == nil {
			continue
		}
		n, err := toInt(v)
		if err != nil {
			return 0, paramError(name, "%v", err)
		}
		return n, nil
	}
	return 0, paramError(names[0], "is required")
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, err
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

// fillerParam returns the optional filler letter, or zero when unset.
func fillerParam(params map[string]interface{}) (byte, error) {
	v, ok := params[ParamFiller]
	if !ok || v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok || len(s) != 1 {
		return 0, paramError(ParamFiller, "expected a single letter")
	}
	f := normalize.Upper(s[0])
	if err := normalize.ValidateFiller(f); err != nil {
		return 0, paramError(ParamFiller, "%v", err)
	}
	return f, nil
}

// matrixParam accepts [][]int, nested []interface{} rows (decoded JSON),
// a flat list of N² integers, or a string of N² integers separated by
// spaces, commas or semicolons.
func matrixParam(params map[string]interface{}) ([][]int, error) {
	v, ok := params[ParamMatrix]
	if !ok || v == nil {
		return nil, paramError(ParamMatrix, "is required")
	}

	switch m := v.(type) {
	case [][]int:
		return m, nil
	case []int:
		return squareFromFlat(m)
	case string:
		fields := strings.FieldsFunc(m, func(r rune) bool {
			return r == ' ' || r == ',' || r == ';' || r == '\t' || r == '\n'
		})
		flat := make([]int, len(fields))
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, paramError(ParamMatrix, "%q is not an integer", f)
			}
			flat[i] = n
		}
		return squareFromFlat(flat)
	case []interface{}:
		if len(m) == 0 {
			return nil, paramError(ParamMatrix, "is empty")
		}
		if _, nested := m[0].([]interface{}); !nested {
			flat := make([]int, len(m))
			for i, cell := range m {
				n, err := toInt(cell)
				if err != nil {
					return nil, paramError(ParamMatrix, "entry %d: %v", i, err)
				}
				flat[i] = n
			}
			return squareFromFlat(flat)
		}
		rows := make([][]int, len(m))
		for i, row := range m {
			cells, ok := row.([]interface{})
			if !ok {
				return nil, paramError(ParamMatrix, "row %d is %T, expected a list", i, row)
			}
			rows[i] = make([]int, len(cells))
			for j, cell := range cells {
				n, err := toInt(cell)
				if err != nil {
					return nil, paramError(ParamMatrix, "entry (%d,%d): %v", i, j, err)
				}
				rows[i][j] = n
			}
		}
		return rows, nil
	default:
		return nil, paramError(ParamMatrix, "unsupported type %T", v)
	}
}

func squareFromFlat(flat []int) ([][]int, error) {
	n := int(math.Sqrt(float64(len(flat))))
	if n == 0 || n*n != len(flat) {
		return nil, paramError(ParamMatrix, "%d entries do not form a square matrix", len(flat))
	}
	rows := make([][]int, n)
	for i := range rows {
		rows[i] = flat[i*n : (i+1)*n]
	}
	return rows, nil
}

// Defaults supplies values for optional parameters a caller left out.
// A zero field leaves the parameter unset.
type Defaults struct {
	Filler byte
	Rails  int
}

var (
	railsVariants  = map[string]bool{"railfence": true, "double_railfence": true, "row_column": true}
	fillerVariants = map[string]bool{"hill": true, "playfair": true, "row_column": true}
)

// ApplyDefaults returns a copy of params with d filled in where the named
// operation accepts a rails or filler parameter and none was given.
func ApplyDefaults(opName string, params map[string]interface{}, d Defaults) map[string]interface{} {
	out := make(map[string]interface{}, len(params)+2)
	for k, v := range params {
		out[k] = v
	}
	variant := opName
	if v, ok := strings.CutSuffix(opName, "_"+string(OperationTypeEncrypt)); ok {
		variant = v
	} else if v, ok := strings.CutSuffix(opName, "_"+string(OperationTypeDecrypt)); ok {
		variant = v
	}
	if railsVariants[variant] && d.Rails > 0 {
		_, hasRails := out[ParamRails]
		_, hasRows := out[ParamRows]
		if !hasRails && !hasRows {
			out[ParamRails] = d.Rails
		}
	}
	if fillerVariants[variant] && d.Filler != 0 {
		if _, ok := out[ParamFiller]; !ok {
			out[ParamFiller] = string(d.Filler)
		}
	}
	return out
}

// WithDefaults returns a copy of p whose steps carry d where they omit it.
func (p *Pipeline) WithDefaults(d Defaults) *Pipeline {
	out := &Pipeline{Reversible: p.Reversible, Operations: make([]OperationConfig, len(p.Operations))}
	for i, step := range p.Operations {
		out.Operations[i] = OperationConfig{Name: step.Name, Parameters: ApplyDefaults(step.Name, step.Parameters, d)}
	}
	return out
}
