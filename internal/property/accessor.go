package property

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"property-binder/internal/binding"
	"property-binder/internal/match"
)

var (
	errorType    = reflect.TypeFor[error]()
	documentType = reflect.TypeFor[map[string]any]()
	listType     = reflect.TypeFor[[]any]()
)

// Accessor reads and writes properties of a root value. It mutates the root
// in place and is not safe for concurrent writes.
type Accessor struct {
	root  any
	value reflect.Value

	tagName   string
	autoGrow  bool
	growLimit int
	oldValues bool
	validate  *validator.Validate
	rules     map[string]string
}

var _ binding.ScopedTarget = (*Accessor)(nil)

// New creates an Accessor over root, which must be a non-nil pointer or map.
func New(root any, opts ...Option) (*Accessor, error) {
	v := reflect.ValueOf(root)

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return nil, errors.New("property: root pointer is nil")
		}

		v = v.Elem()
	case reflect.Map:
		if v.IsNil() {
			return nil, errors.New("property: root map is nil")
		}
	default:
		return nil, fmt.Errorf("property: root must be a non-nil pointer or map, got %T", root)
	}

	a := &Accessor{
		root:      root,
		value:     v,
		tagName:   DefaultTagName,
		growLimit: DefaultGrowLimit,
	}

	for _, opt := range opts {
		opt(a)
	}

	if len(a.rules) > 0 && a.validate == nil {
		a.validate = validator.New()
	}

	return a, nil
}

// Root returns the value passed to New.
func (a *Accessor) Root() any {
	return a.root
}

// Read returns the current value at name. A missing map key yields nil.
func (a *Accessor) Read(name string) (any, error) {
	path, err := ParsePath(name)
	if err != nil {
		return nil, binding.NewPropertyError(binding.KindNotReadable, name, nil, err)
	}

	r := &reader{access{Accessor: a, name: name, path: path}}

	v, err := r.resolve()
	if err != nil {
		return nil, err
	}

	if !v.IsValid() {
		return nil, nil
	}

	return v.Interface(), nil
}

// IsReadable reports whether Read(name) would succeed.
func (a *Accessor) IsReadable(name string) bool {
	_, err := a.Read(name)
	return err == nil
}

// IsWritable reports whether name resolves to a writable property judging by
// static types only. Paths through interface values are assumed writable.
func (a *Accessor) IsWritable(name string) bool {
	path, err := ParsePath(name)
	if err != nil {
		return false
	}

	t := a.value.Type()

	for i, seg := range path {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}

		last := i == len(path)-1

		switch t.Kind() {
		case reflect.Interface:
			return true
		case reflect.Struct:
			if seg.IsKey {
				return false
			}

			f, ok := lookupField(t, a.tagName, seg.Name)
			if !ok || (last && f.readOnly) {
				return false
			}

			t = t.FieldByIndex(f.index).Type
		case reflect.Map:
			if _, err := Convert(seg.Text(), t.Key()); err != nil {
				return false
			}

			t = t.Elem()
		case reflect.Slice, reflect.Array:
			if _, err := seg.index(); err != nil {
				return false
			}

			t = t.Elem()
		default:
			return false
		}
	}

	return true
}

// Write assigns value to the property at name.
func (a *Accessor) Write(name string, value any) error {
	return a.WriteScoped(binding.Scope{}, name, value)
}

// WriteScoped is Write with the calling batch's scope. When the scope ignores
// unknown properties, no name suggestions are computed.
func (a *Accessor) WriteScoped(scope binding.Scope, name string, value any) error {
	path, err := ParsePath(name)
	if err != nil {
		return binding.NewPropertyError(binding.KindNotWritable, name, value, err)
	}

	w := &writer{
		access: access{Accessor: a, name: name, path: path},
		scope:  scope,
		value:  value,
	}

	return w.set(a.value, 0)
}

// access holds what readers and writers share for one path.
type access struct {
	*Accessor
	name string
	path Path
}

// nilAt reports that the value at path[:i] is nil.
func (c *access) nilAt(i int, value any) *binding.PropertyError {
	return binding.NewPropertyError(binding.KindNullPath, c.name, value,
		fmt.Errorf("%w at %q", binding.ErrNilPath, c.path[:i].String()))
}

// fieldByIndex walks a promoted field index, crossing embedded pointers.
// It returns false on a nil embedded pointer when grow is off.
func fieldByIndex(v reflect.Value, index []int, grow bool) (reflect.Value, bool) {
	for n, idx := range index {
		if n > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !grow || !v.CanSet() {
					return reflect.Value{}, false
				}

				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(idx)
	}

	return v, true
}

type reader struct {
	access
}

func (r *reader) fail(kind binding.Kind, err error) *binding.PropertyError {
	return binding.NewPropertyError(kind, r.name, nil, err)
}

func (r *reader) resolve() (reflect.Value, error) {
	cur := r.value

	for i, seg := range r.path {
		for cur.Kind() == reflect.Pointer || cur.Kind() == reflect.Interface {
			if cur.IsNil() {
				return reflect.Value{}, r.nilAt(i, nil)
			}

			cur = cur.Elem()
		}

		last := i == len(r.path)-1

		switch cur.Kind() {
		case reflect.Struct:
			f, ok := lookupField(cur.Type(), r.tagName, seg.Name)
			if seg.IsKey || !ok {
				pe := r.fail(binding.KindNotReadable,
					fmt.Errorf("%w: %q on %s", binding.ErrNoSuchProperty, seg.Text(), cur.Type()))
				if !seg.IsKey {
					pe.Suggestions = match.Suggest(seg.Name, fieldNames(cur.Type(), r.tagName), 0)
				}

				return reflect.Value{}, pe
			}

			fv, ok := fieldByIndex(cur, f.index, false)
			if !ok {
				return reflect.Value{}, r.nilAt(i, nil)
			}

			cur = fv
		case reflect.Map:
			if cur.IsNil() {
				return reflect.Value{}, r.nilAt(i, nil)
			}

			key, err := Convert(seg.Text(), cur.Type().Key())
			if err != nil {
				return reflect.Value{}, r.fail(binding.KindNotReadable, fmt.Errorf("invalid key %q: %w", seg.Text(), err))
			}

			elem := cur.MapIndex(key)
			if !elem.IsValid() {
				if last {
					return reflect.Value{}, nil
				}

				return reflect.Value{}, r.nilAt(i+1, nil)
			}

			cur = elem
		case reflect.Slice, reflect.Array:
			idx, err := seg.index()
			if err != nil {
				return reflect.Value{}, r.fail(binding.KindNotReadable, fmt.Errorf("%w: %w", binding.ErrNoSuchProperty, err))
			}

			if idx >= cur.Len() {
				if last {
					return reflect.Value{}, r.fail(binding.KindNotReadable,
						fmt.Errorf("%w: %d (length %d)", binding.ErrIndexOutOfRange, idx, cur.Len()))
				}

				return reflect.Value{}, r.nilAt(i+1, nil)
			}

			cur = cur.Index(idx)
		default:
			return reflect.Value{}, r.fail(binding.KindNotReadable,
				fmt.Errorf("%w: cannot resolve %q on %s", binding.ErrNoSuchProperty, seg.Text(), cur.Type()))
		}
	}

	return cur, nil
}

type writer struct {
	access
	scope binding.Scope
	value any

	old    any
	hasOld bool
}

func (w *writer) fail(kind binding.Kind, err error) *binding.PropertyError {
	pe := binding.NewPropertyError(kind, w.name, w.value, err)
	if w.hasOld {
		pe.OldValue = w.old
	}

	return pe
}

func (w *writer) rejected(code string, err error) *binding.PropertyError {
	pe := w.fail(binding.KindValueRejected, err)
	pe.Code = code

	return pe
}

func (w *writer) unknown(t reflect.Type, seg Segment) *binding.PropertyError {
	pe := w.fail(binding.KindNotWritable, fmt.Errorf("%w: %q on %s", binding.ErrNoSuchProperty, seg.Text(), t))
	if !w.scope.IgnoreUnknown && !seg.IsKey {
		pe.Suggestions = match.Suggest(seg.Name, fieldNames(t, w.tagName), 0)
	}

	return pe
}

func (w *writer) captureOld(v reflect.Value) {
	if w.oldValues && v.IsValid() && v.CanInterface() {
		w.old = v.Interface()
		w.hasOld = true
	}
}

// set writes into cur, the value found at path[:i]. cur is either settable
// or a map.
func (w *writer) set(cur reflect.Value, i int) error {
	for cur.Kind() == reflect.Pointer || cur.Kind() == reflect.Interface {
		if cur.IsNil() {
			if !w.autoGrow || !cur.CanSet() {
				return w.nilAt(i, w.value)
			}

			if cur.Kind() == reflect.Pointer {
				cur.Set(reflect.New(cur.Type().Elem()))
			} else {
				grown, ok := w.growth(cur.Type(), i)
				if !ok {
					return w.nilAt(i, w.value)
				}

				cur.Set(grown)
			}
		}

		if cur.Kind() == reflect.Pointer {
			cur = cur.Elem()
			continue
		}

		inner := cur.Elem()
		if inner.Kind() == reflect.Pointer || inner.Kind() == reflect.Map {
			if inner.IsNil() {
				if !w.autoGrow || !cur.CanSet() {
					return w.nilAt(i, w.value)
				}

				if inner.Kind() == reflect.Pointer {
					cur.Set(reflect.New(inner.Type().Elem()))
				} else {
					cur.Set(reflect.MakeMap(inner.Type()))
				}

				inner = cur.Elem()
			}

			cur = inner

			continue
		}

		// Values held in an interface are not addressable: write into a copy
		// and store it back.
		if !cur.CanSet() {
			return w.fail(binding.KindNotWritable,
				fmt.Errorf("%w: %q is not addressable", binding.ErrReadOnly, w.path[:i].String()))
		}

		cp := reflect.New(inner.Type()).Elem()
		cp.Set(inner)

		if err := w.set(cp, i); err != nil {
			return err
		}

		cur.Set(cp)

		return nil
	}

	seg := w.path[i]
	last := i == len(w.path)-1

	switch cur.Kind() {
	case reflect.Struct:
		return w.setField(cur, seg, i, last)
	case reflect.Map:
		return w.setMapEntry(cur, seg, i, last)
	case reflect.Slice, reflect.Array:
		return w.setElement(cur, seg, i, last)
	default:
		return w.fail(binding.KindNotWritable,
			fmt.Errorf("%w: cannot resolve %q on %s", binding.ErrNoSuchProperty, seg.Text(), cur.Type()))
	}
}

// growth returns the value a nil interface at path[:i] grows into: a list
// long enough for path[i] when it is an index within the grow limit, a
// document otherwise.
func (w *writer) growth(t reflect.Type, i int) (reflect.Value, bool) {
	seg := w.path[i]

	if idx, err := seg.index(); err == nil {
		if idx >= w.growLimit || !listType.AssignableTo(t) {
			return reflect.Value{}, false
		}

		return reflect.ValueOf(make([]any, idx+1)), true
	}

	if !documentType.AssignableTo(t) {
		return reflect.Value{}, false
	}

	return reflect.ValueOf(map[string]any{}), true
}

func (w *writer) setField(cur reflect.Value, seg Segment, i int, last bool) error {
	if seg.IsKey {
		return w.unknown(cur.Type(), seg)
	}

	f, ok := lookupField(cur.Type(), w.tagName, seg.Name)
	if !ok {
		return w.unknown(cur.Type(), seg)
	}

	if last && f.readOnly {
		return w.fail(binding.KindNotWritable, fmt.Errorf("%w: %s", binding.ErrReadOnly, f.name))
	}

	// Promoted fields sit behind embedded pointers that may be nil; setters
	// are only called on a reachable receiver.
	fv, ok := fieldByIndex(cur, f.index, w.autoGrow)
	if !ok {
		return w.nilAt(i, w.value)
	}

	if last {
		if setter, ok := w.setter(cur, f); ok {
			w.captureOld(fv)
			return w.invoke(setter, f)
		}

		return w.assign(fv, f.validate)
	}

	return w.set(fv, i+1)
}

// setter finds a Set<Field> method taking one argument and returning nothing
// or an error.
func (w *writer) setter(cur reflect.Value, f fieldInfo) (reflect.Value, bool) {
	if !cur.CanAddr() {
		return reflect.Value{}, false
	}

	m := cur.Addr().MethodByName("Set" + f.goName)
	if !m.IsValid() {
		return reflect.Value{}, false
	}

	mt := m.Type()
	if mt.NumIn() != 1 || mt.IsVariadic() {
		return reflect.Value{}, false
	}

	switch mt.NumOut() {
	case 0:
		return m, true
	case 1:
		return m, mt.Out(0) == errorType
	default:
		return reflect.Value{}, false
	}
}

func (w *writer) invoke(m reflect.Value, f fieldInfo) (err error) {
	arg, cerr := Convert(w.value, m.Type().In(0))
	if cerr != nil {
		return w.rejected(binding.CodeTypeMismatch, cerr)
	}

	if verr := w.check(arg, f.validate); verr != nil {
		return verr
	}

	defer func() {
		if r := recover(); r != nil {
			err = w.rejected(binding.CodeMethodInvocation, fmt.Errorf("Set%s panicked: %v", f.goName, r))
		}
	}()

	out := m.Call([]reflect.Value{arg})
	if len(out) == 1 && !out[0].IsNil() {
		return w.rejected(binding.CodeMethodInvocation, out[0].Interface().(error))
	}

	return nil
}

func (w *writer) assign(dst reflect.Value, tag string) error {
	w.captureOld(dst)

	if !dst.CanSet() {
		return w.fail(binding.KindNotWritable, fmt.Errorf("%w: %s", binding.ErrReadOnly, w.path))
	}

	v, err := Convert(w.value, dst.Type())
	if err != nil {
		return w.rejected(binding.CodeTypeMismatch, err)
	}

	if verr := w.check(v, tag); verr != nil {
		return verr
	}

	dst.Set(v)

	return nil
}

// check validates v against the field's validate tag and the rule registered
// for the written property. Both must pass.
func (w *writer) check(v reflect.Value, tag string) (err error) {
	if rule := w.rules[w.name]; rule != "" {
		if tag == "" {
			tag = rule
		} else {
			tag += "," + rule
		}
	}

	if w.validate == nil || tag == "" {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = w.rejected(binding.CodeValidation, fmt.Errorf("invalid rule %q: %v", tag, r))
		}
	}()

	if verr := w.validate.Var(v.Interface(), tag); verr != nil {
		return w.rejected(binding.CodeValidation, verr)
	}

	return nil
}

func (w *writer) setMapEntry(cur reflect.Value, seg Segment, i int, last bool) error {
	mt := cur.Type()

	key, err := Convert(seg.Text(), mt.Key())
	if err != nil {
		return w.fail(binding.KindNotWritable, fmt.Errorf("invalid key %q for %s: %w", seg.Text(), mt, err))
	}

	if cur.IsNil() {
		if !w.autoGrow || !cur.CanSet() {
			return w.nilAt(i, w.value)
		}

		cur.Set(reflect.MakeMap(mt))
	}

	existing := cur.MapIndex(key)

	if last {
		if existing.IsValid() {
			w.captureOld(existing)
		}

		v, err := Convert(w.value, mt.Elem())
		if err != nil {
			return w.rejected(binding.CodeTypeMismatch, err)
		}

		if verr := w.check(v, ""); verr != nil {
			return verr
		}

		cur.SetMapIndex(key, v)

		return nil
	}

	elem := reflect.New(mt.Elem()).Elem()
	if existing.IsValid() {
		elem.Set(existing)
	} else if !w.autoGrow {
		return w.nilAt(i+1, w.value)
	}

	if err := w.set(elem, i+1); err != nil {
		return err
	}

	cur.SetMapIndex(key, elem)

	return nil
}

func (w *writer) setElement(cur reflect.Value, seg Segment, i int, last bool) error {
	idx, err := seg.index()
	if err != nil {
		return w.fail(binding.KindNotWritable, fmt.Errorf("%w: %w", binding.ErrNoSuchProperty, err))
	}

	if idx >= cur.Len() {
		switch {
		case cur.Kind() == reflect.Slice && w.autoGrow && idx < w.growLimit && cur.CanSet():
			grown := reflect.MakeSlice(cur.Type(), idx+1, max(idx+1, cur.Cap()))
			reflect.Copy(grown, cur)
			cur.Set(grown)
		case last:
			return w.fail(binding.KindNotWritable,
				fmt.Errorf("%w: %d (length %d)", binding.ErrIndexOutOfRange, idx, cur.Len()))
		default:
			return w.nilAt(i+1, w.value)
		}
	}

	elem := cur.Index(idx)
	if last {
		return w.assign(elem, "")
	}

	return w.set(elem, i+1)
}
