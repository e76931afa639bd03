package cipher

import (
	"context"
)

// Encrypt runs "<variant>_encrypt" on text.
func Encrypt(ctx context.Context, variant, text string, params map[string]interface{}) (string, error) {
	return run(ctx, variant, OperationTypeEncrypt, text, params)
}

// Decrypt runs "<variant>_decrypt" on text. row_column needs the
// original_length parameter.
func Decrypt(ctx context.Context, variant, text string, params map[string]interface{}) (string, error) {
	return run(ctx, variant, OperationTypeDecrypt, text, params)
}

func run(ctx context.Context, variant string, kind OperationType, text string, params map[string]interface{}) (string, error) {
	op, err := LookupOperation(variant + "_" + string(kind))
	if err != nil {
		return "", err
	}
	out, err := op.Execute(ctx, []byte(text), params)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
