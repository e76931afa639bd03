package cipher

import (
	"context"
	"errors"
	"fmt"

	"github.com/RowanDark/cipherlab/internal/numtheory"
)

// Execute feeds input through each step in order. It stops at the first
// failing step and checks ctx between steps.
func (p *Pipeline) Execute(ctx context.Context, input []byte) ([]byte, error) {
	text := input
	for i, step := range p.Operations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		op, ok := GetOperation(step.Name)
		if !ok {
			return nil, fmt.Errorf("step %d: %w: %s", i, ErrUnknownOperation, step.Name)
		}
		out, err := op.Execute(ctx, text, step.Parameters)
		if err != nil {
			return nil, fmt.Errorf("%s failed at step %d: %w", step.Name, i, err)
		}
		text = out
	}
	return text, nil
}

// inverseAux lists, per inverse operation, the parameters that the forward
// step cannot supply. A row-column grid does not record how much of it was
// padding, so the plaintext length has to come from the caller.
var inverseAux = map[string][]string{
	"row_column_decrypt": {ParamOriginalLength},
}

// Reverse returns the pipeline that undoes p: the steps run last to first,
// each replaced by its inverse with the same parameters.
func (p *Pipeline) Reverse() (*Pipeline, error) {
	return p.ReverseWith(nil)
}

// ReverseWith is Reverse with aux filling the parameters an inverse needs
// but its forward step does not carry, such as original_length for
// row_column. Values already present on a step are kept. A missing aux
// parameter is ErrMalformedInput.
func (p *Pipeline) ReverseWith(aux map[string]interface{}) (*Pipeline, error) {
	if !p.Reversible {
		return nil, errors.New("pipeline is not reversible")
	}
	n := len(p.Operations)
	steps := make([]OperationConfig, n)
	for i, step := range p.Operations {
		inv, err := inverseOf(step.Name)
		if err != nil {
			return nil, err
		}
		params := step.Parameters
		for _, name := range inverseAux[inv.Name()] {
			if _, ok := params[name]; ok {
				continue
			}
			v, ok := aux[name]
			if !ok {
				return nil, fmt.Errorf("%w: step %d: %s needs %q, which %s does not carry",
					numtheory.ErrMalformedInput, i, inv.Name(), name, step.Name)
			}
			params = withParam(params, name, v)
		}
		steps[n-1-i] = OperationConfig{Name: inv.Name(), Parameters: params}
	}
	return &Pipeline{Operations: steps, Reversible: true}, nil
}

func withParam(params map[string]interface{}, name string, v interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(params)+1)
	for k, pv := range params {
		out[k] = pv
	}
	out[name] = v
	return out
}

// Validate checks that p has steps, that each names a registered operation
// and, for reversible pipelines, that each has an inverse.
func (p *Pipeline) Validate() error {
	if len(p.Operations) == 0 {
		return errors.New("pipeline has no operations")
	}
	for i, step := range p.Operations {
		var err error
		if p.Reversible {
			_, err = inverseOf(step.Name)
		} else {
			_, err = LookupOperation(step.Name)
		}
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func inverseOf(name string) (Operation, error) {
	op, err := LookupOperation(name)
	if err != nil {
		return nil, err
	}
	inv, ok := op.Reverse()
	if !ok {
		return nil, fmt.Errorf("operation %s is not reversible", name)
	}
	return inv, nil
}
