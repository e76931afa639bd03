package cipher

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrRecipeNotFound is returned when a named recipe does not exist.
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeManager keeps recipes keyed by name. With a directory configured
// every recipe is mirrored to <dir>/<stem>.json.
type RecipeManager struct {
	mu      sync.RWMutex
	recipes map[string]*Recipe
	dir     recipeDir
}

// NewRecipeManager returns a manager backed by dir. An empty dir keeps
// recipes in memory.
func NewRecipeManager(dir string) *RecipeManager {
	return &RecipeManager{recipes: make(map[string]*Recipe), dir: recipeDir(dir)}
}

// SaveRecipe validates recipe and stores a copy of it. Saving over an
// existing name keeps that recipe's ID and creation time. The recipe
// directory is written before the in-memory copy changes, and only on
// success are ID and timestamps filled in on recipe.
func (rm *RecipeManager) SaveRecipe(recipe *Recipe) error {
	if strings.TrimSpace(recipe.Name) == "" {
		return errors.New("recipe name cannot be empty")
	}
	if err := recipe.Pipeline.Validate(); err != nil {
		return fmt.Errorf("recipe %s: %w", recipe.Name, err)
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	stored := cloneRecipe(recipe)
	if prev := rm.recipes[stored.Name]; prev != nil && stored.ID == "" {
		stored.ID = prev.ID
		if stored.CreatedAt == "" {
			stored.CreatedAt = prev.CreatedAt
		}
	}
	stamp(stored, time.Now())
	if err := rm.dir.write(stored); err != nil {
		return err
	}
	rm.recipes[stored.Name] = stored
	recipe.ID, recipe.CreatedAt, recipe.UpdatedAt = stored.ID, stored.CreatedAt, stored.UpdatedAt
	return nil
}

func cloneRecipe(r *Recipe) *Recipe {
	c := *r
	c.Tags = slices.Clone(r.Tags)
	c.Pipeline.Operations = slices.Clone(r.Pipeline.Operations)
	return &c
}

func stamp(r *Recipe, now time.Time) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	ts := now.UTC().Format(time.RFC3339)
	if r.CreatedAt == "" {
		r.CreatedAt = ts
	}
	r.UpdatedAt = ts
}

func (rm *RecipeManager) GetRecipe(name string) (*Recipe, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	r, ok := rm.recipes[name]
	return r, ok
}

// ListRecipes returns every recipe ordered by name.
func (rm *RecipeManager) ListRecipes() []*Recipe {
	return rm.filter(func(*Recipe) bool { return true })
}

// SearchRecipes returns recipes whose name, description or any tag contains
// query, case-insensitively.
func (rm *RecipeManager) SearchRecipes(query string) []*Recipe {
	q := strings.ToLower(query)
	has := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }
	return rm.filter(func(r *Recipe) bool {
		return has(r.Name) || has(r.Description) || slices.ContainsFunc(r.Tags, has)
	})
}

func (rm *RecipeManager) filter(keep func(*Recipe) bool) []*Recipe {
	rm.mu.RLock()
	out := make([]*Recipe, 0, len(rm.recipes))
	for _, r := range rm.recipes {
		if keep(r) {
			out = append(out, r)
		}
	}
	rm.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Recipe) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (rm *RecipeManager) DeleteRecipe(name string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if _, ok := rm.recipes[name]; !ok {
		return fmt.Errorf("%w: %s", ErrRecipeNotFound, name)
	}
	delete(rm.recipes, name)
	return rm.dir.remove(name)
}

// LoadRecipes reads every *.json file in the recipe directory, creating the
// directory when it does not exist yet.
func (rm *RecipeManager) LoadRecipes() error {
	loaded, err := rm.dir.readAll()
	if err != nil {
		return err
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	for _, r := range loaded {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		rm.recipes[r.Name] = r
	}
	return nil
}

// ExportYAML renders a stored recipe as YAML.
func (rm *RecipeManager) ExportYAML(name string) ([]byte, error) {
	r, ok := rm.GetRecipe(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, name)
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode recipe %s: %w", name, err)
	}
	return data, nil
}

// ImportYAML parses a YAML recipe and saves it. An ID present in the
// document is kept.
func (rm *RecipeManager) ImportYAML(data []byte) (*Recipe, error) {
	r := new(Recipe)
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	if err := rm.SaveRecipe(r); err != nil {
		return nil, err
	}
	return r, nil
}

// recipeDir is the on-disk mirror. The zero value disables persistence.
type recipeDir string

func (d recipeDir) path(name string) string {
	return filepath.Join(string(d), fileStem(name)+".json")
}

func (d recipeDir) write(r *Recipe) error {
	if d == "" {
		return nil
	}
	if err := os.MkdirAll(string(d), 0o755); err != nil {
		return fmt.Errorf("create recipes directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode recipe %s: %w", r.Name, err)
	}
	if err := os.WriteFile(d.path(r.Name), data, 0o644); err != nil {
		return fmt.Errorf("write recipe %s: %w", r.Name, err)
	}
	return nil
}

func (d recipeDir) remove(name string) error {
	if d == "" {
		return nil
	}
	if err := os.Remove(d.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete recipe %s: %w", name, err)
	}
	return nil
}

func (d recipeDir) readAll() ([]*Recipe, error) {
	if d == "" {
		return nil, nil
	}
	if err := os.MkdirAll(string(d), 0o755); err != nil {
		return nil, fmt.Errorf("create recipes directory: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(string(d), "*.json"))
	if err != nil {
		return nil, err
	}
	out := make([]*Recipe, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read recipe %s: %w", filepath.Base(f), err)
		}
		r := new(Recipe)
		if err := json.Unmarshal(data, r); err != nil {
			return nil, fmt.Errorf("parse recipe %s: %w", filepath.Base(f), err)
		}
		out = append(out, r)
	}
	return out, nil
}

// fileStem keeps ASCII letters, digits, '-' and '_', turns spaces into
// underscores and drops everything else.
func fileStem(name string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r == '-' || r == '_',
			r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, name)
	if stem == "" {
		return "recipe"
	}
	return stem
}
