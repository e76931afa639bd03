package rpc

import (
	"encoding/json"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RowanDark/cipherlab/internal/cipher"
	"github.com/RowanDark/cipherlab/internal/numtheory"
)

func fieldError(name, format string, args ...interface{}) error {
	return fmt.Errorf("%w: field %q: %s", numtheory.ErrMalformedInput, name, fmt.Sprintf(format, args...))
}

func stringField(req *structpb.Struct, name string) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return "", fieldError(name, "is required")
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fieldError(name, "expected a string")
	}
	return s.StringValue, nil
}

func intValue(name string, v *structpb.Value) (int, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fieldError(name, "expected a number")
	}
	f := n.NumberValue
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fieldError(name, "expected an integer, got %v", f)
	}
	return int(f), nil
}

func intField(req *structpb.Struct, name string) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, fieldError(name, "is required")
	}
	return intValue(name, v)
}

func intListField(req *structpb.Struct, name string) ([]int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return nil, fieldError(name, "is required")
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fieldError(name, "expected a list")
	}
	out := make([]int, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		n, err := intValue(fmt.Sprintf("%s[%d]", name, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// pipelineFromStruct decodes {"operations": [...], "reversible": bool}.
func pipelineFromStruct(s *structpb.Struct) (*cipher.Pipeline, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, fieldError("pipeline", "%v", err)
	}
	var p cipher.Pipeline
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fieldError("pipeline", "%v", err)
	}
	if len(p.Operations) == 0 {
		return nil, fieldError("pipeline", "has no operations")
	}
	return &p, nil
}

// pipelineToStruct is the inverse of pipelineFromStruct.
func pipelineToStruct(p *cipher.Pipeline) (*structpb.Struct, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}
