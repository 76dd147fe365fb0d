// Package ext is the gRPC-backed bridge satisfying evaluator.ExternHost
// (spec.md §6's "host extension ABI" collaborator contract): an
// `extern "libname";` declaration names a local plugin process, and
// `extern_call libname.funcname(args)` marshals Value arguments across a
// generic Invoke RPC without any library-specific generated stubs --
// grounded on funvibe-funxy/internal/evaluator/builtins_grpc.go's
// protoreflect "dynamic message over a plain grpc.ClientConn" pattern,
// generalized here into a single fixed wire contract every plugin speaks.
package ext

import (
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

// wireProto is the ABI contract every extension host process implements.
// Parsed once via protoparse (funvibe-funxy's own loading mechanism) from
// an in-memory source instead of a file on disk, since the contract is
// fixed and shipped with the runtime rather than authored per-project.
const wireProto = `
syntax = "proto3";
package wisp.ext.v1;

message WireValue {
  oneof kind {
    bool   is_nil        = 1;
    bool   bool_value     = 2;
    bytes  number_bits    = 3;
    string string_value   = 4;
    WireArray array_value = 5;
  }
}

message WireArray {
  repeated WireValue items = 1;
}

message InvokeRequest {
  string function        = 1;
  repeated WireValue args = 2;
}

message InvokeResponse {
  WireValue result = 1;
  string error      = 2;
}

service Extension {
  rpc Invoke(InvokeRequest) returns (InvokeResponse);
}
`

const wireProtoFile = "wisp_ext.proto"

var (
	schemaOnce sync.Once
	schemaErr  error
	fileDesc   *desc.FileDescriptor

	invokeRequestDesc  *desc.MessageDescriptor
	invokeResponseDesc *desc.MessageDescriptor
	wireValueDesc      *desc.MessageDescriptor
	wireArrayDesc      *desc.MessageDescriptor
	extensionSvcDesc   *desc.ServiceDescriptor

	// WireValue.kind oneof alternatives.
	fieldIsNil       *desc.FieldDescriptor
	fieldBoolValue   *desc.FieldDescriptor
	fieldNumberBits  *desc.FieldDescriptor
	fieldStringValue *desc.FieldDescriptor
	fieldArrayValue  *desc.FieldDescriptor

	// WireArray.items
	fieldItems *desc.FieldDescriptor

	// InvokeRequest fields
	fieldFunction *desc.FieldDescriptor
	fieldArgs     *desc.FieldDescriptor

	// InvokeResponse fields
	fieldResult *desc.FieldDescriptor
	fieldError  *desc.FieldDescriptor
)

// loadSchema parses wireProto exactly once, populating the message/service
// descriptors the codec and host need.
func loadSchema() error {
	schemaOnce.Do(func() {
		parser := protoparse.Parser{
			Accessor: protoparse.FileContentsFromMap(map[string]string{
				wireProtoFile: wireProto,
			}),
		}
		fds, err := parser.ParseFiles(wireProtoFile)
		if err != nil {
			schemaErr = fmt.Errorf("ext: parsing wire schema: %w", err)
			return
		}
		fileDesc = fds[0]

		invokeRequestDesc = fileDesc.FindMessage("wisp.ext.v1.InvokeRequest")
		invokeResponseDesc = fileDesc.FindMessage("wisp.ext.v1.InvokeResponse")
		wireValueDesc = fileDesc.FindMessage("wisp.ext.v1.WireValue")
		wireArrayDesc = fileDesc.FindMessage("wisp.ext.v1.WireArray")
		extensionSvcDesc = fileDesc.FindService("wisp.ext.v1.Extension")

		if invokeRequestDesc == nil || invokeResponseDesc == nil || wireValueDesc == nil ||
			wireArrayDesc == nil || extensionSvcDesc == nil {
			schemaErr = fmt.Errorf("ext: wire schema missing expected message or service")
			return
		}

		fieldIsNil = wireValueDesc.FindFieldByName("is_nil")
		fieldBoolValue = wireValueDesc.FindFieldByName("bool_value")
		fieldNumberBits = wireValueDesc.FindFieldByName("number_bits")
		fieldStringValue = wireValueDesc.FindFieldByName("string_value")
		fieldArrayValue = wireValueDesc.FindFieldByName("array_value")
		fieldItems = wireArrayDesc.FindFieldByName("items")
		fieldFunction = invokeRequestDesc.FindFieldByName("function")
		fieldArgs = invokeRequestDesc.FindFieldByName("args")
		fieldResult = invokeResponseDesc.FindFieldByName("result")
		fieldError = invokeResponseDesc.FindFieldByName("error")

		if fieldIsNil == nil || fieldBoolValue == nil || fieldNumberBits == nil ||
			fieldStringValue == nil || fieldArrayValue == nil || fieldItems == nil ||
			fieldFunction == nil || fieldArgs == nil || fieldResult == nil || fieldError == nil {
			schemaErr = fmt.Errorf("ext: wire schema missing expected field")
		}
	})
	return schemaErr
}

// invokeMethodFullName is the fixed RPC path every plugin process serves.
const invokeMethodFullName = "/wisp.ext.v1.Extension/Invoke"
