package focus

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/focus-lang/focus/internal/evaluator"
	"github.com/focus-lang/focus/internal/typesystem"
)

// ErrUnsupportedValue is returned for values that have no counterpart on
// the other side, such as functions.
var ErrUnsupportedValue = errors.New("unsupported value")

// Marshaller converts between focus values and Go values.
//
//	()        <-> Record{} (no fields)
//	bool      <-> bool
//	char      <-> one-character string
//	int       <-> int64 (any Go integer kind on input)
//	float     <-> float64
//	struct    <-> Record, fields in declared order (Go structs on input)
//	array     <-> []interface{} (any Go slice on input)
//	function  ->  ErrUnsupportedValue
type Marshaller struct {
	eval *evaluator.Evaluator
}

func NewMarshaller(eval *evaluator.Evaluator) *Marshaller {
	return &Marshaller{eval: eval}
}

// ToHost converts a focus value to a Go value.
func (m *Marshaller) ToHost(v evaluator.Value) (interface{}, error) {
	switch o := evaluator.Deref(v).(type) {
	case nil, evaluator.Unit:
		return Record{}, nil
	case evaluator.Boolean:
		return o.Value, nil
	case evaluator.Char:
		return string(o.Value), nil
	case evaluator.Integer:
		return o.Value, nil
	case evaluator.Float:
		return o.Value, nil
	case *evaluator.Object:
		return m.objectToHost(o)
	case *evaluator.Function:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedValue, o.Inspect())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedValue, o.Type())
	}
}

func (m *Marshaller) objectToHost(o *evaluator.Object) (interface{}, error) {
	t, err := m.eval.Types.Resolve(o.TypeID)
	if err != nil {
		return nil, err
	}
	if fields, ok := t.AsStruct(); ok {
		rec := Record{TypeName: t.Name, Fields: make([]Field, 0, len(fields))}
		for i, f := range fields {
			val, err := m.ToHost(o.Values[i])
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			rec.Fields = append(rec.Fields, Field{Name: f.Name, Value: val})
		}
		return rec, nil
	}
	elements := make([]interface{}, len(o.Values))
	for i, el := range o.Values {
		val, err := m.ToHost(el)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elements[i] = val
	}
	return elements, nil
}

// ToValue converts a Go value to a focus value and its type. Go structs
// map onto the focus struct of the same name; fields match by `focus` tag
// or case-insensitively by name.
func (m *Marshaller) ToValue(val interface{}) (evaluator.Value, typesystem.TypeID, error) {
	if val == nil {
		return evaluator.Unit{}, typesystem.UnitID, nil
	}
	if v, ok := val.(evaluator.Value); ok {
		return v, m.eval.ValueType(v), nil
	}
	if rec, ok := val.(Record); ok {
		return m.recordToObject(rec)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return evaluator.Integer{Value: v.Int()}, typesystem.IntID, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return evaluator.Integer{Value: int64(v.Uint())}, typesystem.IntID, nil
	case reflect.Float32, reflect.Float64:
		return evaluator.Float{Value: v.Float()}, typesystem.FloatID, nil
	case reflect.Bool:
		return evaluator.Boolean{Value: v.Bool()}, typesystem.BoolID, nil
	case reflect.String:
		s := v.String()
		if utf8.RuneCountInString(s) != 1 {
			return nil, 0, fmt.Errorf("%w: only one-character strings convert to char, got %q", ErrUnsupportedValue, s)
		}
		r, _ := utf8.DecodeRuneInString(s)
		return evaluator.Char{Value: r}, typesystem.CharID, nil
	case reflect.Slice, reflect.Array:
		return m.sliceToArray(v)
	case reflect.Struct:
		return m.structToObject(v)
	case reflect.Ptr:
		if v.IsNil() {
			return evaluator.Unit{}, typesystem.UnitID, nil
		}
		return m.ToValue(v.Elem().Interface())
	}
	return nil, 0, fmt.Errorf("%w: %T", ErrUnsupportedValue, val)
}

func (m *Marshaller) sliceToArray(v reflect.Value) (evaluator.Value, typesystem.TypeID, error) {
	if v.Len() == 0 {
		return nil, 0, fmt.Errorf("%w: cannot infer the element type of an empty slice", ErrUnsupportedValue)
	}
	values := make([]evaluator.Value, v.Len())
	elem := typesystem.NoType
	for i := 0; i < v.Len(); i++ {
		val, t, err := m.ToValue(v.Index(i).Interface())
		if err != nil {
			return nil, 0, fmt.Errorf("element %d: %w", i, err)
		}
		if i == 0 {
			elem = t
		} else if same, _ := m.eval.Types.Equal(elem, t); !same {
			return nil, 0, fmt.Errorf("element %d: mixed element types %s and %s",
				i, m.eval.TypeName(elem), m.eval.TypeName(t))
		}
		values[i] = val
	}
	id, err := m.eval.Types.ArrayOf(elem)
	if err != nil {
		return nil, 0, err
	}
	return &evaluator.Object{TypeID: id, Values: values}, id, nil
}

func (m *Marshaller) structToObject(v reflect.Value) (evaluator.Value, typesystem.TypeID, error) {
	goType := v.Type()
	t, err := m.structType(goType.Name())
	if err != nil {
		return nil, 0, err
	}
	fields, _ := t.AsStruct()
	values := make([]evaluator.Value, len(fields))
	for i, f := range fields {
		gf, ok := goField(goType, f.Name)
		if !ok {
			return nil, 0, fmt.Errorf("%s: missing field %s", goType.Name(), f.Name)
		}
		val, err := m.fieldValue(f, v.FieldByIndex(gf.Index).Interface())
		if err != nil {
			return nil, 0, err
		}
		values[i] = val
	}
	return &evaluator.Object{TypeID: t.ID, Values: values}, t.ID, nil
}

func (m *Marshaller) recordToObject(rec Record) (evaluator.Value, typesystem.TypeID, error) {
	if rec.TypeName == "" && len(rec.Fields) == 0 {
		return evaluator.Unit{}, typesystem.UnitID, nil
	}
	t, err := m.structType(rec.TypeName)
	if err != nil {
		return nil, 0, err
	}
	fields, _ := t.AsStruct()
	if len(rec.Fields) != len(fields) {
		return nil, 0, fmt.Errorf("%s: expected %d field(s), got %d", t.Name, len(fields), len(rec.Fields))
	}
	values := make([]evaluator.Value, len(fields))
	for i, f := range fields {
		raw, ok := rec.Get(f.Name)
		if !ok {
			return nil, 0, fmt.Errorf("%s: missing field %s", t.Name, f.Name)
		}
		val, err := m.fieldValue(f, raw)
		if err != nil {
			return nil, 0, err
		}
		values[i] = val
	}
	return &evaluator.Object{TypeID: t.ID, Values: values}, t.ID, nil
}

func (m *Marshaller) structType(name string) (*typesystem.Type, error) {
	t, ok := m.eval.Types.Lookup(name)
	if ok {
		t, _ = m.eval.Types.Resolve(t.ID)
	}
	if t == nil || !t.IsStruct() {
		return nil, fmt.Errorf("%w: no struct type named %q", ErrUnsupportedValue, name)
	}
	return t, nil
}

func (m *Marshaller) fieldValue(f typesystem.StructField, raw interface{}) (evaluator.Value, error) {
	val, ft, err := m.ToValue(raw)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", f.Name, err)
	}
	if same, _ := m.eval.Types.Equal(ft, f.Type); !same {
		return nil, fmt.Errorf("field %s: expected %s, found %s",
			f.Name, m.eval.TypeName(f.Type), m.eval.TypeName(ft))
	}
	return val, nil
}

func goField(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // Skip unexported fields
			continue
		}
		if tag, ok := f.Tag.Lookup("focus"); ok {
			if tag == name {
				return f, true
			}
			continue
		}
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return reflect.StructField{}, false
}
