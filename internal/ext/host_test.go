package ext

import (
	"context"
	"net"
	"testing"

	"github.com/jhump/protoreflect/dynamic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/wisp-lang/wisp/internal/evaluator"
	"github.com/wisp-lang/wisp/internal/numeric"
	"github.com/wisp-lang/wisp/internal/token"
)

// startEchoServer serves a single plugin process, in-process, that answers
// every Invoke call by returning its first argument unchanged -- enough to
// exercise the Host.Call -> wire codec -> RPC -> wire codec round trip
// without needing a real child process, grounded on funvibe-funxy's
// builtinGrpcRegister's manual grpc.ServiceDesc construction.
func startEchoServer(t *testing.T) string {
	t.Helper()
	require.NoError(t, loadSchema())

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	srv.RegisterService(&grpc.ServiceDesc{
		ServiceName: "wisp.ext.v1.Extension",
		HandlerType: (*interface{})(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Invoke",
				Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
					req := dynamic.NewMessage(invokeRequestDesc)
					if err := dec(req); err != nil {
						return nil, err
					}
					resp := dynamic.NewMessage(invokeResponseDesc)
					args, _ := req.GetField(fieldArgs).([]interface{})
					if len(args) > 0 {
						resp.SetField(fieldResult, args[0])
					}
					return resp, nil
				},
			},
		},
		Streams: []grpc.StreamDesc{},
	}, nil)

	go srv.Serve(lis)
	t.Cleanup(srv.Stop)
	return lis.Addr().String()
}

func TestHostCallRoundTripsThroughEchoServer(t *testing.T) {
	addr := startEchoServer(t)
	host := NewHost(func(library string) (string, error) {
		return addr, nil
	})
	t.Cleanup(func() { _ = host.Close() })

	ev := evaluator.New(evaluator.NewScope(evaluator.Bounded, nil))
	args := []*evaluator.Symbol{evaluator.NewSymbol(evaluator.Str("hello"))}

	sym, err := host.Call(ev, token.Token{}, "plugin", "echo", args)
	require.NoError(t, err)
	assert.Equal(t, "hello", sym.Value.Str)
}

func TestHostCallReusesConnectionForSameLibrary(t *testing.T) {
	addr := startEchoServer(t)
	dialCount := 0
	host := NewHost(func(library string) (string, error) {
		dialCount++
		return addr, nil
	})
	t.Cleanup(func() { _ = host.Close() })

	ev := evaluator.New(evaluator.NewScope(evaluator.Bounded, nil))
	args := []*evaluator.Symbol{evaluator.NewSymbol(evaluator.Num(numeric.Int(40)))}

	_, err := host.Call(ev, token.Token{}, "plugin", "echo", args)
	require.NoError(t, err)
	_, err = host.Call(ev, token.Token{}, "plugin", "echo", args)
	require.NoError(t, err)

	assert.Equal(t, 1, dialCount)
}
