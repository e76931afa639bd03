package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const layeredPipeline = `[
	{"name": "vigenere_encrypt", "parameters": {"key": "LEMON"}},
	{"name": "railfence_encrypt", "parameters": {"rails": 3}}
]`

func TestRecipeLifecycle(t *testing.T) {
	dir := isolate(t)

	stdout, stderr, code := runCLI(t, "recipe", "save", "--name", "layered", "--tags", "classic, demo", "--pipeline", layeredPipeline)
	if code != 0 {
		t.Fatalf("save failed (%d): %s", code, stderr)
	}
	if !strings.HasPrefix(stdout, "saved layered (") {
		t.Fatalf("unexpected save output %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, "recipes", "layered.json")); err != nil {
		t.Fatalf("recipe file not written: %v", err)
	}

	stdout, _, code = runCLI(t, "encrypt", "--recipe", "layered", "attack at dawn")
	if code != 0 || strings.TrimSpace(stdout) != "LPRXOVFNRFEH" {
		t.Fatalf("encrypt with recipe = %q (code %d)", stdout, code)
	}
	stdout, _, code = runCLI(t, "decrypt", "--recipe", "layered", "LPRXOVFNRFEH")
	if code != 0 || strings.TrimSpace(stdout) != "ATTACKATDAWN" {
		t.Fatalf("decrypt with recipe = %q (code %d)", stdout, code)
	}

	stdout, _, code = runCLI(t, "recipe", "list")
	if code != 0 || !strings.Contains(stdout, "layered") || !strings.Contains(stdout, "classic,demo") {
		t.Fatalf("unexpected list output %q", stdout)
	}
	stdout, _, code = runCLI(t, "recipe", "search", "LAYER")
	if code != 0 || !strings.Contains(stdout, "layered") {
		t.Fatalf("unexpected search output %q", stdout)
	}
	stdout, _, code = runCLI(t, "recipe", "show", "layered")
	if code != 0 || !strings.Contains(stdout, `"vigenere_encrypt"`) {
		t.Fatalf("unexpected show output %q", stdout)
	}

	exported, _, code := runCLI(t, "recipe", "export", "layered")
	if code != 0 || !strings.Contains(exported, "name: layered") {
		t.Fatalf("unexpected export output %q", exported)
	}

	if _, stderr, code := runCLI(t, "recipe", "delete", "layered"); code != 0 {
		t.Fatalf("delete failed: %s", stderr)
	}
	if _, _, code := runCLI(t, "recipe", "show", "layered"); code != 1 {
		t.Fatalf("expected exit code 1 for deleted recipe, got %d", code)
	}

	yamlPath := filepath.Join(dir, "layered.yml")
	if err := os.WriteFile(yamlPath, []byte(exported), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	stdout, stderr, code = runCLI(t, "recipe", "import", yamlPath)
	if code != 0 || !strings.HasPrefix(stdout, "imported layered") {
		t.Fatalf("import failed (%d): %s %s", code, stdout, stderr)
	}
	stdout, _, code = runCLI(t, "encrypt", "--recipe", "layered", "attack at dawn")
	if code != 0 || strings.TrimSpace(stdout) != "LPRXOVFNRFEH" {
		t.Fatalf("encrypt with imported recipe = %q (code %d)", stdout, code)
	}

	audit, err := os.ReadFile(filepath.Join(dir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	for _, event := range []string{"recipe_saved", "recipe_deleted"} {
		if !strings.Contains(string(audit), `"event_type":"`+event+`"`) {
			t.Fatalf("missing %s audit event", event)
		}
	}
}

func TestRecipeSaveValidation(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no name", []string{"recipe", "save", "--pipeline", layeredPipeline}, 2},
		{"no pipeline", []string{"recipe", "save", "--name", "x"}, 2},
		{"bad json", []string{"recipe", "save", "--name", "x", "--pipeline", "[{"}, 2},
		{"scalar json", []string{"recipe", "save", "--name", "x", "--pipeline", "42"}, 2},
		{"unknown op", []string{"recipe", "save", "--name", "x", "--pipeline", `[{"name":"enigma_encrypt"}]`}, 2},
		{"unknown subcommand", []string{"recipe", "rename"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, stderr, code := runCLI(t, tt.args...); code != tt.code {
				t.Fatalf("expected exit code %d, got %d (%s)", tt.code, code, stderr)
			}
		})
	}
}

func TestParsePipelineReversibleDefault(t *testing.T) {
	p, err := parsePipeline(`{"operations":[{"name":"railfence_encrypt"}],"reversible":false}`, true)
	if err != nil {
		t.Fatalf("parsePipeline: %v", err)
	}
	if p.Reversible {
		t.Fatal("explicit reversible:false was overridden")
	}
	p, err = parsePipeline(`[{"name":"railfence_encrypt"}]`, true)
	if err != nil {
		t.Fatalf("parsePipeline: %v", err)
	}
	if !p.Reversible || len(p.Operations) != 1 {
		t.Fatalf("unexpected pipeline %+v", p)
	}
}

func TestDecryptNonReversibleRecipe(t *testing.T) {
	isolate(t)
	if _, stderr, code := runCLI(t, "recipe", "save", "--name", "oneway", "--reversible=false", "--pipeline", layeredPipeline); code != 0 {
		t.Fatalf("save failed: %s", stderr)
	}
	if _, _, code := runCLI(t, "decrypt", "--recipe", "oneway", "LPRXOVFNRFEH"); code == 0 {
		t.Fatal("expected decrypt of a non-reversible recipe to fail")
	}
}

func TestRecipeWithRowColumnNeedsOriginalLength(t *testing.T) {
	isolate(t)
	pipeline := `[
		{"name": "vigenere_encrypt", "parameters": {"key": "LEMON"}},
		{"name": "row_column_encrypt", "parameters": {"rails": 4}}
	]`
	if _, stderr, code := runCLI(t, "recipe", "save", "--name", "grid", "--pipeline", pipeline); code != 0 {
		t.Fatalf("save failed (%d): %s", code, stderr)
	}

	stdout, stderr, code := runCLI(t, "encrypt", "--recipe", "grid", "WE ARE DISCOVERED")
	if code != 0 {
		t.Fatalf("encrypt failed (%d): %s", code, stderr)
	}
	ciphertext := strings.TrimSpace(stdout)
	if len(ciphertext) != 16 {
		t.Fatalf("expected a padded 4x4 grid, got %q", ciphertext)
	}

	_, stderr, code = runCLI(t, "decrypt", "--recipe", "grid", ciphertext)
	if code != 3 || !strings.Contains(stderr, "original_length") {
		t.Fatalf("decrypt without original length: code %d, stderr %q", code, stderr)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"flag", []string{"decrypt", "--recipe", "grid", "--original-length", "15", ciphertext}},
		{"params", []string{"decrypt", "--recipe", "grid", "--params", `{"original_length": 15}`, ciphertext}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCLI(t, tt.args...)
			if code != 0 || strings.TrimSpace(stdout) != "WEAREDISCOVERED" {
				t.Fatalf("decrypt = %q (code %d): %s", stdout, code, stderr)
			}
		})
	}
}

func TestRecipeRejectsIgnoredFlags(t *testing.T) {
	isolate(t)
	if _, stderr, code := runCLI(t, "recipe", "save", "--name", "layered", "--pipeline", layeredPipeline); code != 0 {
		t.Fatalf("save failed (%d): %s", code, stderr)
	}
	tests := [][]string{
		{"encrypt", "--recipe", "layered", "--rails", "4", "attack at dawn"},
		{"encrypt", "--recipe", "layered", "--original-length", "12", "attack at dawn"},
		{"encrypt", "--recipe", "layered", "--params", `{"key":"X"}`, "attack at dawn"},
		{"decrypt", "--recipe", "layered", "--key", "KEY", "LPRXOVFNRFEH"},
		{"decrypt", "--recipe", "layered", "--rails", "4", "LPRXOVFNRFEH"},
	}
	for _, args := range tests {
		_, stderr, code := runCLI(t, args...)
		if code != 2 || !strings.Contains(stderr, "cannot be combined with --recipe") {
			t.Errorf("%v: code %d, stderr %q", args, code, stderr)
		}
	}
}
