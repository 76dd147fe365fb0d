// Package ext's Host implements evaluator.ExternHost: it owns one
// grpc.ClientConn per `extern "libname";` declaration (spec.md §6) and
// marshals every extern_call through the fixed wire/v1 contract, grounded
// on funvibe-funxy/internal/evaluator/builtins_grpc.go's
// builtinGrpcConnect/builtinGrpcInvoke dial-then-Invoke shape.
package ext

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/wisp-lang/wisp/internal/diagnostics"
	"github.com/wisp-lang/wisp/internal/evaluator"
	"github.com/wisp-lang/wisp/internal/token"
)

// Resolver turns a library name named by `extern "libname";` into a dial
// target (a unix socket path or host:port), so the host process need not
// hardcode any naming convention.
type Resolver func(library string) (target string, err error)

// conn is one registered extension connection, stamped with a stable
// opaque ID so diagnostics and the (future) connection-registry builtins
// can refer to it without exposing the underlying grpc.ClientConn.
type conn struct {
	id string
	cc *grpc.ClientConn
}

// Host dials one grpc.ClientConn per distinct library name the first time
// it is used, reusing it for every subsequent extern_call.
type Host struct {
	resolve Resolver

	mu    sync.Mutex
	conns map[string]*conn
}

// NewHost returns a Host resolving library names to dial targets via
// resolve.
func NewHost(resolve Resolver) *Host {
	return &Host{resolve: resolve, conns: make(map[string]*conn)}
}

// Call implements evaluator.ExternHost. It lazily dials library, builds an
// InvokeRequest from args, and unpacks the InvokeResponse back into a
// Symbol -- or returns the RPC's carried error field as a
// *diagnostics.Fatal so spec.md's throw/try/catch machinery can surface
// it like any other runtime fault.
func (h *Host) Call(ev *evaluator.Evaluator, tok token.Token, library, function string, args []*evaluator.Symbol) (*evaluator.Symbol, error) {
	if err := loadSchema(); err != nil {
		return nil, err
	}
	c, err := h.dial(library)
	if err != nil {
		return nil, fmt.Errorf("extern %q: %w", library, err)
	}

	req := dynamic.NewMessage(invokeRequestDesc)
	req.SetField(fieldFunction, function)
	argMsgs := make([]interface{}, 0, len(args))
	for _, a := range args {
		w, err := valueToWire(a.Value)
		if err != nil {
			return nil, fmt.Errorf("extern_call %s.%s: %w", library, function, err)
		}
		argMsgs = append(argMsgs, w)
	}
	req.SetField(fieldArgs, argMsgs)

	resp := dynamic.NewMessage(invokeResponseDesc)
	if err := c.cc.Invoke(context.Background(), invokeMethodFullName, req, resp); err != nil {
		return nil, fmt.Errorf("extern_call %s.%s: %w", library, function, err)
	}

	if errMsg, _ := resp.GetField(fieldError).(string); errMsg != "" {
		return nil, diagnostics.New(tok, "extern_call {0}.{1}: {2}", library, function, errMsg)
	}

	resultMsg, ok := resp.GetField(fieldResult).(*dynamic.Message)
	if !ok {
		return evaluator.NewSymbol(evaluator.Nil), nil
	}
	val, err := wireToValue(resultMsg)
	if err != nil {
		return nil, err
	}
	return evaluator.NewSymbol(val), nil
}

func (h *Host) dial(library string) (*conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.conns[library]; ok {
		return c, nil
	}
	target, err := h.resolve(library)
	if err != nil {
		return nil, err
	}
	cc, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	c := &conn{id: uuid.NewString(), cc: cc}
	h.conns[library] = c
	return c, nil
}

// Close tears down every dialed connection. Safe to call once at process
// exit; a Host is not reusable afterward.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	var first error
	for name, c := range h.conns {
		if err := c.cc.Close(); err != nil && first == nil {
			first = err
		}
		delete(h.conns, name)
	}
	return first
}
