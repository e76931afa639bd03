package cipher

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// mockOperation is a test implementation of Operation
type mockOperation struct {
	BaseOperation
}

func (m *mockOperation) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	return input, nil
}

func registerMock(t *testing.T, name string, opType OperationType) *mockOperation {
	t.Helper()
	op := &mockOperation{
		BaseOperation: BaseOperation{
			NameValue:        name,
			TypeValue:        opType,
			DescriptionValue: "Mock operation for testing",
		},
	}
	if err := RegisterOperation(op); err != nil {
		t.Fatalf("failed to register operation: %v", err)
	}
	t.Cleanup(func() { UnregisterOperation(name) })
	return op
}

func TestRegisterOperation(t *testing.T) {
	op := registerMock(t, "mock_encrypt", OperationTypeEncrypt)

	if err := RegisterOperation(op); err == nil {
		t.Fatal("expected error when registering duplicate operation")
	}
	if err := RegisterOperation(nil); err == nil {
		t.Fatal("expected error when registering nil operation")
	}
	if err := RegisterOperation(&mockOperation{}); err == nil {
		t.Fatal("expected error when registering unnamed operation")
	}
}

func TestGetOperation(t *testing.T) {
	registerMock(t, "test-op", OperationTypeDecrypt)

	retrieved, exists := GetOperation("test-op")
	if !exists {
		t.Fatal("operation should exist")
	}
	if retrieved.Name() != "test-op" {
		t.Errorf("expected name 'test-op', got '%s'", retrieved.Name())
	}

	if _, exists := GetOperation("nonexistent"); exists {
		t.Error("nonexistent operation should not exist")
	}

	if _, err := LookupOperation("nonexistent"); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("expected ErrUnknownOperation, got %v", err)
	}
}

func TestBuiltinOperationsRegistered(t *testing.T) {
	variants := []string{
		"monoalphabetic", "vigenere", "hill", "playfair",
		"railfence", "double_railfence", "row_column",
	}
	for _, v := range variants {
		enc, ok := GetOperation(v + "_encrypt")
		if !ok {
			t.Fatalf("%s_encrypt not registered", v)
		}
		dec, ok := GetOperation(v + "_decrypt")
		if !ok {
			t.Fatalf("%s_decrypt not registered", v)
		}
		if enc.Type() != OperationTypeEncrypt || dec.Type() != OperationTypeDecrypt {
			t.Errorf("%s: unexpected types %s/%s", v, enc.Type(), dec.Type())
		}

		rev, ok := enc.Reverse()
		if !ok || rev.Name() != dec.Name() {
			t.Errorf("%s_encrypt should reverse to %s", v, dec.Name())
		}
		rev, ok = dec.Reverse()
		if !ok || rev.Name() != enc.Name() {
			t.Errorf("%s_decrypt should reverse to %s", v, enc.Name())
		}
		if enc.Description() == "" {
			t.Errorf("%s_encrypt has no description", v)
		}
	}
}

func TestListOperationsSorted(t *testing.T) {
	ops := ListOperations()
	if len(ops) < 14 {
		t.Fatalf("expected at least 14 operations, got %d", len(ops))
	}
	for i := 1; i < len(ops); i++ {
		if ops[i-1].Name() > ops[i].Name() {
			t.Fatalf("operations not sorted: %s before %s", ops[i-1].Name(), ops[i].Name())
		}
	}
}

func TestListOperationsByType(t *testing.T) {
	for _, op := range ListOperationsByType(OperationTypeDecrypt) {
		if op.Type() != OperationTypeDecrypt {
			t.Errorf("expected decrypt type, got %s for %s", op.Type(), op.Name())
		}
	}
	if got := len(ListOperationsByType(OperationTypeEncrypt)); got != 7 {
		t.Errorf("expected 7 encrypt operations, got %d", got)
	}
}

func TestVariants(t *testing.T) {
	got := Variants()
	want := []string{"double_railfence", "hill", "monoalphabetic", "playfair", "railfence", "row_column", "vigenere"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestUnregisterOperation(t *testing.T) {
	op := &mockOperation{BaseOperation: BaseOperation{NameValue: "temp-op", TypeValue: OperationTypeEncrypt}}
	if err := RegisterOperation(op); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	UnregisterOperation("temp-op")
	if _, exists := GetOperation("temp-op"); exists {
		t.Error("operation should have been unregistered")
	}
}

func TestRegistrySelectIsolated(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"b_decrypt", "a_encrypt", "c_encrypt"} {
		typ := OperationTypeEncrypt
		if strings.HasSuffix(name, "_decrypt") {
			typ = OperationTypeDecrypt
		}
		if err := r.Add(&mockOperation{BaseOperation: BaseOperation{NameValue: name, TypeValue: typ}}); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}

	all := r.Select(nil)
	if len(all) != 3 || all[0].Name() != "a_encrypt" || all[2].Name() != "c_encrypt" {
		t.Fatalf("unexpected order: %v", names(all))
	}
	enc := r.Select(func(op Operation) bool { return op.Type() == OperationTypeEncrypt })
	if len(enc) != 2 {
		t.Fatalf("expected 2 encrypt ops, got %v", names(enc))
	}

	r.Remove("a_encrypt")
	r.Remove("missing")
	if _, ok := r.Get("a_encrypt"); ok {
		t.Fatal("a_encrypt should be gone")
	}
	if _, ok := GetOperation("a_encrypt"); ok {
		t.Fatal("isolated registry leaked into the shared one")
	}
}

func names(ops []Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Name()
	}
	return out
}
