package cipher

import (
	"context"

	"github.com/RowanDark/cipherlab/internal/substitution"
	"github.com/RowanDark/cipherlab/internal/transposition"
)

// transformFunc is the text-level body of a classical operation.
type transformFunc func(text string, params map[string]interface{}) (string, error)

// ClassicalOp adapts a cipher transform to the Operation interface. Keys
// are parsed from params on every call, so an op holds no key state.
type ClassicalOp struct {
	BaseOperation
	transform transformFunc
}

func (op *ClassicalOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := op.transform(string(input), params)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// Monoalphabetic

func monoalphabetic(params map[string]interface{}) (*substitution.Monoalphabetic, error) {
	key, err := stringParam(params, ParamKey)
	if err != nil {
		return nil, err
	}
	return substitution.NewMonoalphabetic(key)
}

func monoalphabeticEncrypt(text string, params map[string]interface{}) (string, error) {
	m, err := monoalphabetic(params)
	if err != nil {
		return "", err
	}
	return m.Encrypt(text), nil
}

func monoalphabeticDecrypt(text string, params map[string]interface{}) (string, error) {
	m, err := monoalphabetic(params)
	if err != nil {
		return "", err
	}
	return m.Decrypt(text), nil
}

// Vigenère

func vigenere(params map[string]interface{}) (*substitution.Vigenere, error) {
	key, err := stringParam(params, ParamKey)
	if err != nil {
		return nil, err
	}
	return substitution.NewVigenere(key)
}

func vigenereEncrypt(text string, params map[string]interface{}) (string, error) {
	v, err := vigenere(params)
	if err != nil {
		return "", err
	}
	return v.Encrypt(text), nil
}

func vigenereDecrypt(text string, params map[string]interface{}) (string, error) {
	v, err := vigenere(params)
	if err != nil {
		return "", err
	}
	return v.Decrypt(text), nil
}

// Hill

func hill(params map[string]interface{}) (*substitution.Hill, error) {
	key, err := matrixParam(params)
	if err != nil {
		return nil, err
	}
	filler, err := fillerParam(params)
	if err != nil {
		return nil, err
	}
	return substitution.NewHill(key, filler)
}

func hillEncrypt(text string, params map[string]interface{}) (string, error) {
	h, err := hill(params)
	if err != nil {
		return "", err
	}
	return h.Encrypt(text), nil
}

func hillDecrypt(text string, params map[string]interface{}) (string, error) {
	h, err := hill(params)
	if err != nil {
		return "", err
	}
	return h.Decrypt(text)
}

// Playfair

func playfair(params map[string]interface{}) (*transposition.Playfair, error) {
	key, err := stringParam(params, ParamKey)
	if err != nil {
		return nil, err
	}
	filler, err := fillerParam(params)
	if err != nil {
		return nil, err
	}
	return transposition.NewPlayfair(key, filler)
}

func playfairEncrypt(text string, params map[string]interface{}) (string, error) {
	p, err := playfair(params)
	if err != nil {
		return "", err
	}
	return p.Encrypt(text), nil
}

func playfairDecrypt(text string, params map[string]interface{}) (string, error) {
	p, err := playfair(params)
	if err != nil {
		return "", err
	}
	return p.Decrypt(text)
}

// Rail fence family

func rails(params map[string]interface{}) (int, error) {
	return intParam(params, ParamRails, ParamRows)
}

func railfenceEncrypt(text string, params map[string]interface{}) (string, error) {
	n, err := rails(params)
	if err != nil {
		return "", err
	}
	return transposition.RailFence{Rails: n}.Encrypt(text)
}

func railfenceDecrypt(text string, params map[string]interface{}) (string, error) {
	n, err := rails(params)
	if err != nil {
		return "", err
	}
	return transposition.RailFence{Rails: n}.Decrypt(text)
}

func doubleRailfenceEncrypt(text string, params map[string]interface{}) (string, error) {
	n, err := rails(params)
	if err != nil {
		return "", err
	}
	return transposition.DoubleRailFence{Rails: n}.Encrypt(text)
}

func doubleRailfenceDecrypt(text string, params map[string]interface{}) (string, error) {
	n, err := rails(params)
	if err != nil {
		return "", err
	}
	return transposition.DoubleRailFence{Rails: n}.Decrypt(text)
}

func rowColumn(params map[string]interface{}) (transposition.RowColumn, error) {
	n, err := rails(params)
	if err != nil {
		return transposition.RowColumn{}, err
	}
	filler, err := fillerParam(params)
	if err != nil {
		return transposition.RowColumn{}, err
	}
	return transposition.RowColumn{Rows: n, Filler: filler}, nil
}

func rowColumnEncrypt(text string, params map[string]interface{}) (string, error) {
	rc, err := rowColumn(params)
	if err != nil {
		return "", err
	}
	return rc.Encrypt(text)
}

func rowColumnDecrypt(text string, params map[string]interface{}) (string, error) {
	rc, err := rowColumn(params)
	if err != nil {
		return "", err
	}
	length, err := intParam(params, ParamOriginalLength)
	if err != nil {
		return "", err
	}
	return rc.Decrypt(text, length)
}

// registerPair registers <variant>_encrypt and <variant>_decrypt as each
// other's reverse.
func registerPair(variant, description string, encrypt, decrypt transformFunc) {
	enc := &ClassicalOp{
		BaseOperation: BaseOperation{
			NameValue:        variant + "_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Encrypt with " + description,
		},
		transform: encrypt,
	}
	dec := &ClassicalOp{
		BaseOperation: BaseOperation{
			NameValue:        variant + "_decrypt",
			TypeValue:        OperationTypeDecrypt,
			DescriptionValue: "Decrypt with " + description,
		},
		transform: decrypt,
	}
	enc.ReverseOp = dec
	dec.ReverseOp = enc

	RegisterOperation(enc)
	RegisterOperation(dec)
}

func init() {
	registerPair("monoalphabetic", "a 26-letter substitution alphabet (param: key)",
		monoalphabeticEncrypt, monoalphabeticDecrypt)
	registerPair("vigenere", "a repeating keyword shift (param: key)",
		vigenereEncrypt, vigenereDecrypt)
	registerPair("hill", "an invertible N×N key matrix mod 26 (params: matrix, filler)",
		hillEncrypt, hillDecrypt)
	registerPair("playfair", "a 5×5 keyword square on digraphs (params: key, filler)",
		playfairEncrypt, playfairDecrypt)
	registerPair("railfence", "a zig-zag over N rails (param: rails)",
		railfenceEncrypt, railfenceDecrypt)
	registerPair("double_railfence", "a rail fence followed by a cyclic column shuffle (param: rails)",
		doubleRailfenceEncrypt, doubleRailfenceDecrypt)
	registerPair("row_column", "a rows×columns grid read by column (params: rails, filler; decrypt also original_length)",
		rowColumnEncrypt, rowColumnDecrypt)
}
