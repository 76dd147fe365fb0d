package ext

import (
	"fmt"

	"github.com/funvibe/funbit/pkg/funbit"
	"github.com/jhump/protoreflect/dynamic"

	"github.com/wisp-lang/wisp/internal/evaluator"
	"github.com/wisp-lang/wisp/internal/numeric"
)

// packNumber serializes a Number into the tagged bit layout consumed by the
// WireValue.number_bits field: one byte, 0 for an integer, 1 for a float,
// followed by the 64-bit payload -- funbit does the actual bit-level
// packing (SPEC_FULL.md's DOMAIN STACK entry for
// github.com/funvibe/funbit), matching the exact/inexact numeric-literal
// widening spec.md's lexer section describes.
func packNumber(n numeric.Number) ([]byte, error) {
	b := funbit.NewBuilder()
	if n.IsFloat() {
		b.AddInteger(uint8(1), funbit.WithSize(8))
		b.AddFloat(n.AsFloat(), funbit.WithSize(64))
	} else {
		b.AddInteger(uint8(0), funbit.WithSize(8))
		b.AddInteger(n.AsInt(), funbit.WithSize(64), funbit.WithSigned(true))
	}
	return b.Build()
}

// unpackNumber is packNumber's inverse.
func unpackNumber(data []byte) (numeric.Number, error) {
	if len(data) < 1 {
		return numeric.Number{}, fmt.Errorf("ext: truncated number_bits payload")
	}
	var tag uint8
	var rest []byte
	tagMatcher := funbit.NewMatcher()
	tagMatcher.Integer(&tag, funbit.WithSize(8))
	tagMatcher.Binary(&rest)
	if _, err := funbit.Match(tagMatcher, data); err != nil {
		return numeric.Number{}, fmt.Errorf("ext: decoding number tag: %w", err)
	}
	if tag == 1 {
		var f float64
		m := funbit.NewMatcher()
		m.Float(&f, funbit.WithSize(64))
		if _, err := funbit.Match(m, rest); err != nil {
			return numeric.Number{}, fmt.Errorf("ext: decoding float payload: %w", err)
		}
		return numeric.Float(f), nil
	}
	var i int64
	m := funbit.NewMatcher()
	m.Integer(&i, funbit.WithSize(64), funbit.WithSigned(true))
	if _, err := funbit.Match(m, rest); err != nil {
		return numeric.Number{}, fmt.Errorf("ext: decoding int payload: %w", err)
	}
	return numeric.Int(i), nil
}

// valueToWire lowers a Value to a dynamic WireValue message. Field access is
// FieldDescriptor-based (SetField/GetField, not by-name lookups), matching
// funvibe-funxy's objectToDynamicMessage/convertToProtoValue pattern.
func valueToWire(v evaluator.Value) (*dynamic.Message, error) {
	if err := loadSchema(); err != nil {
		return nil, err
	}
	msg := dynamic.NewMessage(wireValueDesc)
	switch v.Kind {
	case evaluator.KindNil:
		msg.SetField(fieldIsNil, true)
	case evaluator.KindBoolean:
		msg.SetField(fieldBoolValue, v.Bool)
	case evaluator.KindNumber:
		bits, err := packNumber(v.Num)
		if err != nil {
			return nil, err
		}
		msg.SetField(fieldNumberBits, bits)
	case evaluator.KindString:
		msg.SetField(fieldStringValue, v.Str)
	case evaluator.KindArray:
		arr := dynamic.NewMessage(wireArrayDesc)
		items := make([]interface{}, 0, len(v.Arr))
		for _, el := range v.Arr {
			item, err := valueToWire(el.Value)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		arr.SetField(fieldItems, items)
		msg.SetField(fieldArrayValue, arr)
	default:
		return nil, fmt.Errorf("ext: %s values cannot cross the host extension boundary", v.Kind)
	}
	return msg, nil
}

// wireToValue is valueToWire's inverse.
func wireToValue(msg *dynamic.Message) (evaluator.Value, error) {
	switch {
	case msg.HasField(fieldIsNil):
		return evaluator.Nil, nil
	case msg.HasField(fieldBoolValue):
		return evaluator.Bool(msg.GetField(fieldBoolValue).(bool)), nil
	case msg.HasField(fieldNumberBits):
		n, err := unpackNumber(msg.GetField(fieldNumberBits).([]byte))
		if err != nil {
			return evaluator.Value{}, err
		}
		return evaluator.Num(n), nil
	case msg.HasField(fieldStringValue):
		return evaluator.Str(msg.GetField(fieldStringValue).(string)), nil
	case msg.HasField(fieldArrayValue):
		arrMsg, ok := msg.GetField(fieldArrayValue).(*dynamic.Message)
		if !ok {
			return evaluator.Value{}, fmt.Errorf("ext: array_value field was not a message")
		}
		list, _ := arrMsg.GetField(fieldItems).([]interface{})
		out := make([]*evaluator.Symbol, 0, len(list))
		for _, it := range list {
			itemMsg, ok := it.(*dynamic.Message)
			if !ok {
				return evaluator.Value{}, fmt.Errorf("ext: array item was not a message")
			}
			val, err := wireToValue(itemMsg)
			if err != nil {
				return evaluator.Value{}, err
			}
			out = append(out, evaluator.NewSymbol(val))
		}
		return evaluator.Arr(out), nil
	}
	return evaluator.Nil, nil
}
