package rpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RowanDark/cipherlab/internal/cipher"
	"github.com/RowanDark/cipherlab/internal/history"
	"github.com/RowanDark/cipherlab/internal/logging"
	"github.com/RowanDark/cipherlab/internal/numtheory"
	"github.com/RowanDark/cipherlab/internal/observability/metrics"
)

// Recorder persists executed operations. *history.Journal satisfies it.
type Recorder interface {
	Record(ctx context.Context, e *history.Entry) error
}

// Server implements CipherServer on top of the local operation registry.
type Server struct {
	logger   *slog.Logger
	audit    *logging.AuditLogger
	journal  Recorder
	defaults cipher.Defaults
	detector cipher.Detector
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the process logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuditLogger sets the audit trail for operations and key rejections.
func WithAuditLogger(audit *logging.AuditLogger) ServerOption {
	return func(s *Server) {
		if audit != nil {
			s.audit = audit
		}
	}
}

// WithJournal records every Execute call.
func WithJournal(r Recorder) ServerOption {
	return func(s *Server) {
		s.journal = r
	}
}

// WithDefaults fills rails and filler for requests that omit them.
func WithDefaults(d cipher.Defaults) ServerOption {
	return func(s *Server) {
		s.defaults = d
	}
}

// NewServer creates a Cipher service implementation.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		logger:   slog.Default(),
		audit:    logging.Discard("cipher_rpc"),
		detector: cipher.NewClassicalDetector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs a single operation or a pipeline over the request input.
func (s *Server) Execute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input, err := stringField(req, "input")
	if err != nil {
		return nil, toStatus(err)
	}
	p, err := s.requestPipeline(req)
	if err != nil {
		return nil, toStatus(err)
	}
	label := pipelineLabel(p)

	start := time.Now()
	out, err := p.Execute(ctx, []byte(input))
	dur := time.Since(start)

	kind := cipher.Classify(err)
	metrics.RecordOperation(label, kind, dur)
	s.journalEntry(ctx, label, len(input), len(out), kind, dur)

	if err != nil {
		if cipher.IsKeyError(err) {
			s.emit(logging.AuditEvent{
				EventType: logging.EventKeyRejected,
				Operation: label,
				Decision:  logging.DecisionDeny,
				Reason:    err.Error(),
				Metadata:  map[string]any{"kind": kind},
			})
		}
		return nil, toStatus(err)
	}

	s.emit(logging.AuditEvent{
		EventType: eventFor(p),
		Operation: label,
		Decision:  logging.DecisionAllow,
		Metadata: map[string]any{
			"input_len":  len(input),
			"output_len": len(out),
			"steps":      len(p.Operations),
		},
	})
	return structpb.NewStruct(map[string]interface{}{
		"output":    string(out),
		"operation": label,
		"steps":     len(p.Operations),
	})
}

func (s *Server) requestPipeline(req *structpb.Struct) (*cipher.Pipeline, error) {
	fields := req.GetFields()
	var params map[string]interface{}
	if v, ok := fields["params"]; ok {
		ps := v.GetStructValue()
		if ps == nil {
			return nil, fieldError("params", "expected an object")
		}
		params = ps.AsMap()
	}
	var p *cipher.Pipeline
	switch {
	case fields["pipeline"] != nil:
		ps := fields["pipeline"].GetStructValue()
		if ps == nil {
			return nil, fieldError("pipeline", "expected an object")
		}
		decoded, err := pipelineFromStruct(ps)
		if err != nil {
			return nil, err
		}
		p = decoded
	case fields["operation"] != nil:
		name, err := stringField(req, "operation")
		if err != nil {
			return nil, err
		}
		p = &cipher.Pipeline{Operations: []cipher.OperationConfig{{Name: strings.TrimSpace(name), Parameters: params}}}
	default:
		return nil, fieldError("operation", "either operation or pipeline is required")
	}

	if v, ok := fields["reverse"]; ok && v.GetBoolValue() {
		p.Reversible = true
		// With a pipeline, params fill what reversed steps need beyond
		// their own parameters, e.g. original_length for row_column.
		reversed, err := p.ReverseWith(params)
		if errors.Is(err, cipher.ErrUnknownOperation) || errors.Is(err, numtheory.ErrMalformedInput) {
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", numtheory.ErrMalformedInput, err)
		}
		p = reversed
	}
	return p.WithDefaults(s.defaults), nil
}

// ListOperations describes every registered operation.
func (s *Server) ListOperations(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	ops := cipher.ListOperations()
	list := make([]interface{}, 0, len(ops))
	for _, op := range ops {
		inverse := ""
		if rev, ok := op.Reverse(); ok {
			inverse = rev.Name()
		}
		list = append(list, map[string]interface{}{
			"name":        op.Name(),
			"type":        string(op.Type()),
			"description": op.Description(),
			"inverse":     inverse,
		})
	}
	return structpb.NewStruct(map[string]interface{}{"operations": list})
}

// SolveCRT reconstructs x from {moduli, remainders}.
func (s *Server) SolveCRT(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	moduli, err := intListField(req, "moduli")
	if err != nil {
		return nil, toStatus(err)
	}
	remainders, err := intListField(req, "remainders")
	if err != nil {
		return nil, toStatus(err)
	}
	res, err := numtheory.SolveCRT(moduli, remainders)
	if err != nil {
		return nil, toStatus(err)
	}
	out := map[string]interface{}{
		"solution": res.Solution,
		"modulus":  res.Modulus,
		"lcm":      res.LCM,
	}
	if res.Warning != nil {
		out["warning"] = res.Warning.Error()
		s.emit(logging.AuditEvent{
			EventType: logging.EventCRTWarning,
			Operation: "crt",
			Decision:  logging.DecisionInfo,
			Reason:    res.Warning.Error(),
			Metadata:  map[string]any{"moduli": moduli},
		})
	}
	return structpb.NewStruct(out)
}

// ModInverse computes a⁻¹ mod m from {a, m}.
func (s *Server) ModInverse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a, err := intField(req, "a")
	if err != nil {
		return nil, toStatus(err)
	}
	m, err := intField(req, "m")
	if err != nil {
		return nil, toStatus(err)
	}
	inv, err := numtheory.ModInverse(a, m)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]interface{}{"inverse": inv})
}

// Detect ranks the cipher families that could have produced {input}.
func (s *Server) Detect(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input, err := stringField(req, "input")
	if err != nil {
		return nil, toStatus(err)
	}
	results, err := s.detector.Detect(ctx, []byte(input))
	if err != nil {
		return nil, toStatus(err)
	}
	list := make([]interface{}, 0, len(results))
	for _, r := range results {
		item := map[string]interface{}{
			"family":     r.Family,
			"confidence": r.Confidence,
			"reasoning":  r.Reasoning,
			"operation":  r.Operation,
		}
		if r.Period > 0 {
			item["period"] = r.Period
		}
		list = append(list, item)
	}
	return structpb.NewStruct(map[string]interface{}{"results": list})
}

func (s *Server) journalEntry(ctx context.Context, label string, inLen, outLen int, kind string, dur time.Duration) {
	if s.journal == nil {
		return
	}
	entry := &history.Entry{
		Source:    "rpc",
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
	// The request context may already be cancelled; the journal write must not be.
	if err := s.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Warn("failed to journal operation", "operation", label, "error", err)
	}
}

func (s *Server) emit(event logging.AuditEvent) {
	if err := s.audit.Emit(event); err != nil {
		s.logger.Warn("audit log error", "error", err)
	}
}

func pipelineLabel(p *cipher.Pipeline) string {
	names := make([]string, len(p.Operations))
	for i, step := range p.Operations {
		names[i] = step.Name
	}
	return strings.Join(names, "+")
}

func eventFor(p *cipher.Pipeline) logging.EventType {
	for _, step := range p.Operations {
		if !strings.HasSuffix(step.Name, "_"+string(cipher.OperationTypeDecrypt)) {
			return logging.EventEncrypt
		}
	}
	return logging.EventDecrypt
}

var _ CipherServer = (*Server)(nil)
