package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/RowanDark/cipherlab/internal/cipher"
	"github.com/RowanDark/cipherlab/internal/history"
	"github.com/RowanDark/cipherlab/internal/logging"
	"github.com/RowanDark/cipherlab/internal/rpc"
)

type cipherFlags struct {
	variant        string
	recipe         string
	key            string
	matrix         string
	rails          int
	filler         string
	originalLength int
	params         string
	server         string
	jsonOut        bool
	noHistory      bool
}

func (f *cipherFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.variant, "variant", "", "cipher variant (monoalphabetic, vigenere, hill, playfair, railfence, double_railfence, row_column)")
	fs.StringVar(&f.recipe, "recipe", "", "run a saved recipe instead of a single variant")
	fs.StringVar(&f.key, "key", "", "substitution alphabet or keyword")
	fs.StringVar(&f.matrix, "matrix", "", "Hill key matrix, row-major (e.g. \"3 2 3 5\")")
	fs.IntVar(&f.rails, "rails", 0, "rail or row count (defaults to the configured value)")
	fs.StringVar(&f.filler, "filler", "", "padding letter (defaults to the configured value)")
	fs.IntVar(&f.originalLength, "original-length", 0, "plaintext length before padding (row_column decrypt)")
	fs.StringVar(&f.params, "params", "", "extra parameters as a JSON object")
	fs.StringVar(&f.server, "server", "", "run on a cipherd instance at this address instead of locally")
	fs.BoolVar(&f.jsonOut, "json", false, "print a JSON result document")
	fs.BoolVar(&f.noHistory, "no-history", false, "do not journal this operation")
}

// parameters merges --params with the dedicated flags; flags win.
func (f *cipherFlags) parameters() (map[string]interface{}, error) {
	params := map[string]interface{}{}
	if strings.TrimSpace(f.params) != "" {
		if !gjson.Valid(f.params) {
			return nil, errors.New("--params is not valid JSON")
		}
		parsed := gjson.Parse(f.params)
		if !parsed.IsObject() {
			return nil, errors.New("--params must be a JSON object")
		}
		parsed.ForEach(func(key, value gjson.Result) bool {
			params[key.String()] = value.Value()
			return true
		})
	}
	if f.key != "" {
		params[cipher.ParamKey] = f.key
	}
	if f.matrix != "" {
		params[cipher.ParamMatrix] = f.matrix
	}
	if f.rails != 0 {
		params[cipher.ParamRails] = f.rails
	}
	if f.filler != "" {
		params[cipher.ParamFiller] = f.filler
	}
	if f.originalLength != 0 {
		params[cipher.ParamOriginalLength] = f.originalLength
	}
	return params, nil
}

func runEncrypt(a *app, args []string) int {
	return runCipher(a, cipher.OperationTypeEncrypt, args)
}

func runDecrypt(a *app, args []string) int {
	return runCipher(a, cipher.OperationTypeDecrypt, args)
}

func runCipher(a *app, kind cipher.OperationType, args []string) int {
	fs := flag.NewFlagSet(string(kind), flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var f cipherFlags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if (f.variant == "") == (f.recipe == "") {
		fmt.Fprintln(a.stderr, "exactly one of --variant or --recipe is required")
		return 2
	}
	if f.recipe != "" {
		if bad := recipeConflicts(fs, kind); len(bad) > 0 {
			fmt.Fprintf(a.stderr, "%s cannot be combined with --recipe when %sing; the recipe carries its own parameters\n",
				strings.Join(bad, ", "), kind)
			return 2
		}
	}

	text, err := readText(fs.Args())
	if err != nil {
		fmt.Fprintf(a.stderr, "read input: %v\n", err)
		return 1
	}
	params, err := f.parameters()
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 2
	}

	pipeline, err := a.buildPipeline(&f, kind, params)
	if err != nil {
		return a.fail(string(kind), err)
	}
	label := pipelineLabel(pipeline)

	ctx := context.Background()
	start := time.Now()
	var out string
	if f.server != "" {
		out, err = executeRemote(ctx, f.server, pipeline, text)
	} else {
		var raw []byte
		raw, err = pipeline.WithDefaults(a.defaults()).Execute(ctx, []byte(text))
		out = string(raw)
	}
	dur := time.Since(start)

	errKind := cipher.Classify(err)
	if f.server != "" && err != nil {
		errKind = rpc.KindFromStatus(err)
	}
	if !f.noHistory && f.server == "" {
		a.journal(ctx, label, len(text), len(out), errKind, dur)
	}

	if err != nil {
		if errKind == cipher.KindMalformedInput || errKind == cipher.KindNotInvertible {
			a.emit(logging.AuditEvent{
				EventType: logging.EventKeyRejected,
				Operation: label,
				Decision:  logging.DecisionDeny,
				Reason:    err.Error(),
			})
		}
		return a.failKind(string(kind), errKind, err)
	}

	eventType := logging.EventEncrypt
	if kind == cipher.OperationTypeDecrypt {
		eventType = logging.EventDecrypt
	}
	a.emit(logging.AuditEvent{
		EventType: eventType,
		Operation: label,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"input_len": len(text), "output_len": len(out), "remote": f.server != ""},
	})

	if f.jsonOut {
		doc, err := resultDocument(label, text, out, dur)
		if err != nil {
			fmt.Fprintf(a.stderr, "encode result: %v\n", err)
			return 1
		}
		fmt.Fprintln(a.stdout, doc)
		return 0
	}
	fmt.Fprintln(a.stdout, out)
	return 0
}

// buildPipeline resolves --variant or --recipe into the steps to run. A
// recipe is run forwards to encrypt and reversed to decrypt, with params
// supplying what the reversed steps cannot take from the recipe.
func (a *app) buildPipeline(f *cipherFlags, kind cipher.OperationType, params map[string]interface{}) (*cipher.Pipeline, error) {
	if f.variant != "" {
		name := strings.ToLower(strings.TrimSpace(f.variant)) + "_" + string(kind)
		if _, err := cipher.LookupOperation(name); err != nil {
			return nil, err
		}
		return &cipher.Pipeline{Operations: []cipher.OperationConfig{{Name: name, Parameters: params}}}, nil
	}

	rm := cipher.NewRecipeManager(a.cfg.RecipeDir)
	if err := rm.LoadRecipes(); err != nil {
		return nil, err
	}
	recipe, ok := rm.GetRecipe(f.recipe)
	if !ok {
		return nil, fmt.Errorf("%w: %s", cipher.ErrRecipeNotFound, f.recipe)
	}
	p := recipe.Pipeline
	if kind == cipher.OperationTypeDecrypt {
		return p.ReverseWith(params)
	}
	return &p, nil
}

// recipeConflicts names the flags set alongside --recipe that would be
// ignored. Decrypting may still pass --original-length and --params, which
// fill what an inverse step needs beyond the recipe's own parameters.
func recipeConflicts(fs *flag.FlagSet, kind cipher.OperationType) []string {
	allowed := map[string]bool{"recipe": true, "server": true, "json": true, "no-history": true}
	if kind == cipher.OperationTypeDecrypt {
		allowed["original-length"] = true
		allowed["params"] = true
	}
	var bad []string
	fs.Visit(func(fl *flag.Flag) {
		if !allowed[fl.Name] {
			bad = append(bad, "--"+fl.Name)
		}
	})
	return bad
}

func executeRemote(ctx context.Context, addr string, p *cipher.Pipeline, text string) (string, error) {
	client, err := rpc.Dial(addr)
	if err != nil {
		return "", err
	}
	defer client.Close()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if len(p.Operations) == 1 {
		step := p.Operations[0]
		return client.Execute(ctx, step.Name, text, step.Parameters)
	}
	return client.ExecutePipeline(ctx, p, text, false)
}

func (a *app) journal(ctx context.Context, label string, inLen, outLen int, kind string, dur time.Duration) {
	if a.cfg.HistoryPath == "" {
		return
	}
	j, err := a.openJournal()
	if err != nil {
		a.logger.Warn("history unavailable", "error", err)
		return
	}
	defer j.Close()
	entry := &history.Entry{
		Source:    "cli",
		Operation: label,
		InputLen:  inLen,
		OutputLen: outLen,
		Outcome:   history.OutcomeOK,
		ErrorKind: kind,
		Duration:  dur,
	}
	if kind != "" {
		entry.Outcome = history.OutcomeError
	}
	if err := j.Record(ctx, entry); err != nil {
		a.logger.Warn("failed to journal operation", "error", err)
	}
}

func pipelineLabel(p *cipher.Pipeline) string {
	names := make([]string, len(p.Operations))
	for i, step := range p.Operations {
		names[i] = step.Name
	}
	return strings.Join(names, "+")
}

// readText joins the positional arguments, or reads stdin when there are none.
func readText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
