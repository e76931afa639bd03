package cipher

import (
	"context"
	"errors"
)

// OperationType is the direction of an operation.
type OperationType string

const (
	OperationTypeEncrypt OperationType = "encrypt"
	OperationTypeDecrypt OperationType = "decrypt"
)

// ErrUnknownOperation reports a name missing from the registry.
var ErrUnknownOperation = errors.New("unknown operation")

// Operation is one registered text transformation, e.g. "hill_encrypt".
// Reverse returns the paired operation that undoes it, when there is one.
type Operation interface {
	Name() string
	Type() OperationType
	Description() string
	Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error)
	Reverse() (Operation, bool)
}

// OperationConfig is one pipeline step: an operation name plus the
// parameters passed to it.
type OperationConfig struct {
	Name       string                 `json:"name" yaml:"name"`
	Parameters map[string]interface{} `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Pipeline chains steps; the output of each is the input of the next.
// Reversible marks pipelines whose every step has an inverse.
type Pipeline struct {
	Operations []OperationConfig `json:"operations" yaml:"operations"`
	Reversible bool              `json:"reversible" yaml:"reversible"`
}

// Recipe is a saved pipeline.
type Recipe struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Pipeline    Pipeline `json:"pipeline" yaml:"pipeline"`
	CreatedAt   string   `json:"created_at" yaml:"created_at"`
	UpdatedAt   string   `json:"updated_at" yaml:"updated_at"`
}

// DetectionResult ranks one cipher family as the likely source of a
// ciphertext. Period is only set for polyalphabetic guesses.
type DetectionResult struct {
	Family     string  `json:"family"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Operation  string  `json:"operation"`
	Period     int     `json:"period,omitempty"`
}

type Detector interface {
	Detect(ctx context.Context, input []byte) ([]DetectionResult, error)
	SupportedFamilies() []string
}

// BaseOperation carries the static metadata of an operation. Variants embed
// it and supply Execute.
type BaseOperation struct {
	NameValue        string
	TypeValue        OperationType
	DescriptionValue string
	ReverseOp        Operation
}

func (b *BaseOperation) Name() string        { return b.NameValue }
func (b *BaseOperation) Type() OperationType { return b.TypeValue }
func (b *BaseOperation) Description() string { return b.DescriptionValue }

func (b *BaseOperation) Reverse() (Operation, bool) {
	return b.ReverseOp, b.ReverseOp != nil
}
