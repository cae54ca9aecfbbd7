package cellstore

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// ValueType tags the dynamic type carried by a Value.
type ValueType uint8

const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeBytes
	TypeTimestamp
	TypeID
)

// Value is a typed property value stored in a cell body field. Scalars are
// encoded into Data the same way the teacher's storage layer encodes node
// and edge properties, so a Store implementation can treat a Value as an
// opaque byte string for on-disk/on-wire purposes.
type Value struct {
	Type ValueType
	Data []byte
}

func StringValue(s string) Value { return Value{Type: TypeString, Data: []byte(s)} }

func IntValue(i int64) Value {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, uint64(i))
	return Value{Type: TypeInt, Data: data}
}

func FloatValue(f float64) Value {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, math.Float64bits(f))
	return Value{Type: TypeFloat, Data: data}
}

func BoolValue(b bool) Value {
	data := []byte{0}
	if b {
		data[0] = 1
	}
	return Value{Type: TypeBool, Data: data}
}

func BytesValue(b []byte) Value { return Value{Type: TypeBytes, Data: b} }

func TimestampValue(t time.Time) Value {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, uint64(t.Unix()))
	return Value{Type: TypeTimestamp, Data: data}
}

func IDValue(id Id) Value {
	b, _ := id.MarshalBinary()
	return Value{Type: TypeID, Data: b}
}

func (v Value) AsString() (string, error) {
	if v.Type != TypeString {
		return "", fmt.Errorf("value is not a string")
	}
	return string(v.Data), nil
}

func (v Value) AsInt() (int64, error) {
	if v.Type != TypeInt {
		return 0, fmt.Errorf("value is not an int")
	}
	return int64(binary.LittleEndian.Uint64(v.Data)), nil
}

func (v Value) AsFloat() (float64, error) {
	if v.Type != TypeFloat {
		return 0, fmt.Errorf("value is not a float")
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(v.Data)), nil
}

func (v Value) AsBool() (bool, error) {
	if v.Type != TypeBool {
		return false, fmt.Errorf("value is not a bool")
	}
	return v.Data[0] == 1, nil
}

func (v Value) AsTimestamp() (time.Time, error) {
	if v.Type != TypeTimestamp {
		return time.Time{}, fmt.Errorf("value is not a timestamp")
	}
	return time.Unix(int64(binary.LittleEndian.Uint64(v.Data)), 0), nil
}

func (v Value) AsID() (Id, error) {
	if v.Type != TypeID {
		return UnitID, fmt.Errorf("value is not an id")
	}
	var id Id
	if err := id.UnmarshalBinary(v.Data); err != nil {
		return UnitID, fmt.Errorf("malformed id value: %w", err)
	}
	return id, nil
}

// String renders the value as text, for logging. Filter expression
// activation maps are built from Native, not from String.
func (v Value) String() string {
	switch v.Type {
	case TypeString:
		s, _ := v.AsString()
		return s
	case TypeInt:
		i, _ := v.AsInt()
		return fmt.Sprintf("%d", i)
	case TypeFloat:
		f, _ := v.AsFloat()
		return fmt.Sprintf("%g", f)
	case TypeBool:
		b, _ := v.AsBool()
		return fmt.Sprintf("%t", b)
	case TypeTimestamp:
		t, _ := v.AsTimestamp()
		return t.String()
	case TypeID:
		id, _ := v.AsID()
		return id.String()
	case TypeBytes:
		return fmt.Sprintf("%x", v.Data)
	default:
		return fmt.Sprintf("%x", v.Data)
	}
}

// Native converts the value to the nearest Go built-in type, used to build
// CEL activation maps and JSON responses.
func (v Value) Native() any {
	switch v.Type {
	case TypeString:
		s, _ := v.AsString()
		return s
	case TypeInt:
		i, _ := v.AsInt()
		return i
	case TypeFloat:
		f, _ := v.AsFloat()
		return f
	case TypeBool:
		b, _ := v.AsBool()
		return b
	case TypeTimestamp:
		t, _ := v.AsTimestamp()
		return t
	case TypeID:
		id, _ := v.AsID()
		return id.String()
	default:
		return v.Data
	}
}
