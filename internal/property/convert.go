package property

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"property-binder/internal/binding"
)

var (
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
)

// Convert converts value to type to.
//
// Besides plain assignability it handles: nil to nillable kinds; pointers in
// either direction; numeric conversions that neither overflow nor truncate;
// strings parsed into bool, integer, float, time.Duration and time.Time
// (RFC 3339); integers into time.Duration; and element-wise conversion of
// slices, arrays and maps. Failures wrap binding.ErrTypeMismatch.
func Convert(value any, to reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch to.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
			return reflect.Zero(to), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w: cannot assign nil to %s", binding.ErrTypeMismatch, to)
		}
	}

	return convertValue(reflect.ValueOf(value), to)
}

func convertValue(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	if v.Type().AssignableTo(to) {
		return v, nil
	}

	// Values held in interfaces (e.g. []any elements) are unwrapped first.
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return Convert(nil, to)
		}

		return convertValue(v.Elem(), to)
	}

	if to.Kind() == reflect.Pointer {
		inner, err := convertValue(v, to.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		p := reflect.New(to.Elem())
		p.Elem().Set(inner)

		return p, nil
	}

	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Convert(nil, to)
		}

		return convertValue(v.Elem(), to)
	}

	switch {
	case to == durationType:
		return toDuration(v)
	case to == timeType:
		return toTime(v)
	}

	switch to.Kind() {
	case reflect.Bool:
		return toBool(v, to)
	case reflect.String:
		if v.Kind() == reflect.String {
			return v.Convert(to), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return toInt(v, to)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return toUint(v, to)
	case reflect.Float32, reflect.Float64:
		return toFloat(v, to)
	case reflect.Slice, reflect.Array:
		return toSequence(v, to)
	case reflect.Map:
		return toMap(v, to)
	}

	return reflect.Value{}, mismatch(v, to)
}

func mismatch(v reflect.Value, to reflect.Type) error {
	return fmt.Errorf("%w: cannot convert %s to %s", binding.ErrTypeMismatch, v.Type(), to)
}

func toBool(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	switch v.Kind() {
	case reflect.Bool:
		return v.Convert(to), nil
	case reflect.String:
		b, err := strconv.ParseBool(v.String())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %q is not a boolean", binding.ErrTypeMismatch, v.String())
		}

		return reflect.ValueOf(b).Convert(to), nil
	default:
		return reflect.Value{}, mismatch(v, to)
	}
}

func toInt(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	var n int64

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt64 {
			return reflect.Value{}, overflow(v, to)
		}

		n = int64(u)
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return reflect.Value{}, fmt.Errorf("%w: %v is not an integer", binding.ErrTypeMismatch, f)
		}

		n = int64(f)
	case reflect.String:
		parsed, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %q is not an integer", binding.ErrTypeMismatch, v.String())
		}

		n = parsed
	default:
		return reflect.Value{}, mismatch(v, to)
	}

	out := reflect.New(to).Elem()
	if out.OverflowInt(n) {
		return reflect.Value{}, overflow(v, to)
	}

	out.SetInt(n)

	return out, nil
}

func toUint(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	var n uint64

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if i < 0 {
			return reflect.Value{}, overflow(v, to)
		}

		n = uint64(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n = v.Uint()
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return reflect.Value{}, fmt.Errorf("%w: %v is not an unsigned integer", binding.ErrTypeMismatch, f)
		}

		n = uint64(f)
	case reflect.String:
		parsed, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %q is not an unsigned integer", binding.ErrTypeMismatch, v.String())
		}

		n = parsed
	default:
		return reflect.Value{}, mismatch(v, to)
	}

	out := reflect.New(to).Elem()
	if out.OverflowUint(n) {
		return reflect.Value{}, overflow(v, to)
	}

	out.SetUint(n)

	return out, nil
}

func toFloat(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	var f float64

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		f = float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		f = v.Float()
	case reflect.String:
		parsed, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %q is not a number", binding.ErrTypeMismatch, v.String())
		}

		f = parsed
	default:
		return reflect.Value{}, mismatch(v, to)
	}

	out := reflect.New(to).Elem()
	if out.OverflowFloat(f) {
		return reflect.Value{}, overflow(v, to)
	}

	out.SetFloat(f)

	return out, nil
}

func overflow(v reflect.Value, to reflect.Type) error {
	return fmt.Errorf("%w: %v overflows %s", binding.ErrTypeMismatch, v.Interface(), to)
}

func toDuration(v reflect.Value) (reflect.Value, error) {
	switch v.Kind() {
	case reflect.String:
		d, err := time.ParseDuration(v.String())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %q is not a duration", binding.ErrTypeMismatch, v.String())
		}

		return reflect.ValueOf(d), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(time.Duration(v.Int())), nil
	default:
		return reflect.Value{}, mismatch(v, durationType)
	}
}

func toTime(v reflect.Value) (reflect.Value, error) {
	if v.Kind() != reflect.String {
		return reflect.Value{}, mismatch(v, timeType)
	}

	t, err := time.Parse(time.RFC3339, v.String())
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %q is not an RFC 3339 time", binding.ErrTypeMismatch, v.String())
	}

	return reflect.ValueOf(t), nil
}

func toSequence(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return reflect.Value{}, mismatch(v, to)
	}

	var out reflect.Value

	if to.Kind() == reflect.Array {
		if v.Len() != to.Len() {
			return reflect.Value{}, fmt.Errorf("%w: %d elements for %s", binding.ErrTypeMismatch, v.Len(), to)
		}

		out = reflect.New(to).Elem()
	} else {
		out = reflect.MakeSlice(to, v.Len(), v.Len())
	}

	for i := range v.Len() {
		elem, err := convertValue(v.Index(i), to.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}

		out.Index(i).Set(elem)
	}

	return out, nil
}

func toMap(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	if v.Kind() != reflect.Map {
		return reflect.Value{}, mismatch(v, to)
	}

	out := reflect.MakeMapWithSize(to, v.Len())

	iter := v.MapRange()
	for iter.Next() {
		key, err := convertValue(iter.Key(), to.Key())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("key %v: %w", iter.Key().Interface(), err)
		}

		elem, err := convertValue(iter.Value(), to.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("key %v: %w", iter.Key().Interface(), err)
		}

		out.SetMapIndex(key, elem)
	}

	return out, nil
}
