package rpc

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RowanDark/cipherlab/internal/cipher"
	"github.com/RowanDark/cipherlab/internal/numtheory"
)

// Client calls a remote Cipher service.
type Client struct {
	conn *grpc.ClientConn
	own  bool
}

// Dial connects to addr without transport security. The daemon listens on
// loopback by default.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}
	return &Client{conn: conn, own: true}, nil
}

// NewClient wraps an existing connection. Close leaves conn open.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Close releases the connection if the client created it.
func (c *Client) Close() error {
	if !c.own {
		return nil
	}
	return c.conn.Close()
}

// Execute runs one named operation remotely.
func (c *Client) Execute(ctx context.Context, operation, input string, params map[string]interface{}) (string, error) {
	req := map[string]interface{}{"operation": operation, "input": input}
	if len(params) > 0 {
		req["params"] = params
	}
	return c.execute(ctx, req)
}

// ExecutePipeline runs p remotely, or its inverse when reverse is set.
func (c *Client) ExecutePipeline(ctx context.Context, p *cipher.Pipeline, input string, reverse bool) (string, error) {
	ps, err := pipelineToStruct(p)
	if err != nil {
		return "", err
	}
	req, err := structpb.NewStruct(map[string]interface{}{"input": input, "reverse": reverse})
	if err != nil {
		return "", err
	}
	req.Fields["pipeline"] = structpb.NewStructValue(ps)
	return c.invokeOutput(ctx, req)
}

// ReversePipeline runs the inverse of p remotely. aux supplies parameters
// the reversed steps need but p does not carry, such as original_length.
func (c *Client) ReversePipeline(ctx context.Context, p *cipher.Pipeline, input string, aux map[string]interface{}) (string, error) {
	ps, err := pipelineToStruct(p)
	if err != nil {
		return "", err
	}
	req := map[string]interface{}{"input": input, "reverse": true}
	if len(aux) > 0 {
		req["params"] = aux
	}
	s, err := structpb.NewStruct(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", numtheory.ErrMalformedInput, err)
	}
	s.Fields["pipeline"] = structpb.NewStructValue(ps)
	return c.invokeOutput(ctx, s)
}

func (c *Client) execute(ctx context.Context, m map[string]interface{}) (string, error) {
	req, err := structpb.NewStruct(m)
	if err != nil {
		return "", fmt.Errorf("%w: %v", numtheory.ErrMalformedInput, err)
	}
	return c.invokeOutput(ctx, req)
}

func (c *Client) invokeOutput(ctx context.Context, req *structpb.Struct) (string, error) {
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodExecute, req, resp); err != nil {
		return "", err
	}
	return resp.GetFields()["output"].GetStringValue(), nil
}

// OperationInfo describes one remote operation.
type OperationInfo struct {
	Name        string
	Type        string
	Description string
	Inverse     string
}

// ListOperations lists the operations the server has registered.
func (c *Client) ListOperations(ctx context.Context) ([]OperationInfo, error) {
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodListOperations, &emptypb.Empty{}, resp); err != nil {
		return nil, err
	}
	var out []OperationInfo
	for _, v := range resp.GetFields()["operations"].GetListValue().GetValues() {
		f := v.GetStructValue().GetFields()
		out = append(out, OperationInfo{
			Name:        f["name"].GetStringValue(),
			Type:        f["type"].GetStringValue(),
			Description: f["description"].GetStringValue(),
			Inverse:     f["inverse"].GetStringValue(),
		})
	}
	return out, nil
}

// SolveCRT solves the congruence system remotely.
func (c *Client) SolveCRT(ctx context.Context, moduli, remainders []int) (numtheory.CRTResult, error) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"moduli":     intsToList(moduli),
		"remainders": intsToList(remainders),
	})
	if err != nil {
		return numtheory.CRTResult{}, err
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodSolveCRT, req, resp); err != nil {
		return numtheory.CRTResult{}, err
	}
	f := resp.GetFields()
	res := numtheory.CRTResult{
		Solution: int(f["solution"].GetNumberValue()),
		Modulus:  int(f["modulus"].GetNumberValue()),
		LCM:      int(f["lcm"].GetNumberValue()),
	}
	if w, ok := f["warning"]; ok {
		res.Warning = remoteWarning(w.GetStringValue())
	}
	return res, nil
}

// ModInverse computes a⁻¹ mod m remotely.
func (c *Client) ModInverse(ctx context.Context, a, m int) (int, error) {
	req, err := structpb.NewStruct(map[string]interface{}{"a": a, "m": m})
	if err != nil {
		return 0, err
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodModInverse, req, resp); err != nil {
		return 0, err
	}
	inv, ok := resp.GetFields()["inverse"]
	if !ok {
		return 0, errors.New("response is missing inverse")
	}
	return int(inv.GetNumberValue()), nil
}

// Detect asks the server to rank cipher families for input.
func (c *Client) Detect(ctx context.Context, input string) ([]cipher.DetectionResult, error) {
	req, err := structpb.NewStruct(map[string]interface{}{"input": input})
	if err != nil {
		return nil, err
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodDetect, req, resp); err != nil {
		return nil, err
	}
	var out []cipher.DetectionResult
	for _, v := range resp.GetFields()["results"].GetListValue().GetValues() {
		f := v.GetStructValue().GetFields()
		out = append(out, cipher.DetectionResult{
			Family:     f["family"].GetStringValue(),
			Confidence: f["confidence"].GetNumberValue(),
			Reasoning:  f["reasoning"].GetStringValue(),
			Operation:  f["operation"].GetStringValue(),
			Period:     int(f["period"].GetNumberValue()),
		})
	}
	return out, nil
}

// remoteWarning carries a server-side CRT warning message while still
// matching numtheory.ErrNonCoprimeModuli.
type remoteWarning string

func (w remoteWarning) Error() string { return string(w) }

func (w remoteWarning) Unwrap() error { return numtheory.ErrNonCoprimeModuli }

func intsToList(values []int) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
