package panel

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

var (
	// ErrUnknownControl is returned when an edit names a control that does not exist.
	ErrUnknownControl = errors.New("unknown control")
	// ErrInvalidValue is returned when a value cannot be converted to the control's type.
	ErrInvalidValue = errors.New("invalid control value")
)

// Kind identifies the widget a control renders as.
type Kind string

const (
	KindNumber  Kind = "number"
	KindBool    Kind = "boolean"
	KindString  Kind = "string"
	KindColor   Kind = "color"
	KindOptions Kind = "options"
	KindButton  Kind = "button"
)

// Option is one entry of an options control: the label shown and the value assigned.
type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Controller binds one struct field (or a function, for buttons) to a panel widget.
// Configuration methods return the controller so calls can be chained.
type Controller struct {
	gui    *GUI
	id     string
	folder string
	name   string
	kind   Kind

	field reflect.Value
	fn    func()

	min, max, step *float64
	options        []Option
	optionValues   []reflect.Value
	onChange       []func(value any)
	listen         bool

	// cached is the last value published for controls that are not listened.
	cached any
}

func newController(g *GUI, folder string, target any, field string) *Controller {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("panel: target for %q must be a non-nil pointer to a struct, got %T", field, target))
	}
	fv := rv.Elem().FieldByName(field)
	if !fv.IsValid() {
		panic(fmt.Sprintf("panel: %T has no field %q", target, field))
	}
	if !fv.CanSet() {
		panic(fmt.Sprintf("panel: field %q of %T is not exported", field, target))
	}

	c := &Controller{gui: g, folder: folder, name: field, field: fv}
	switch {
	case fv.Type() == reflect.TypeOf(common.Color{}):
		c.kind = KindColor
	case fv.Kind() == reflect.Func && fv.Type().NumIn() == 0 && fv.Type().NumOut() == 0:
		c.kind = KindButton
		c.fn = func() {
			if !fv.IsNil() {
				fv.Call(nil)
			}
		}
	case isNumber(fv.Kind()):
		c.kind = KindNumber
	case fv.Kind() == reflect.Bool:
		c.kind = KindBool
	case fv.Kind() == reflect.String:
		c.kind = KindString
	default:
		panic(fmt.Sprintf("panel: field %q of %T has unsupported type %s", field, target, fv.Type()))
	}
	c.cached = c.read()
	return c
}

// ID returns the stable identifier used by remote clients.
func (c *Controller) ID() string {
	return c.id
}

// Kind returns the widget kind.
func (c *Controller) Kind() Kind {
	return c.kind
}

// Label returns the display name.
func (c *Controller) Label() string {
	return c.name
}

// Name sets the display name.
//
// Parameters:
//   - name: the label shown next to the widget
//
// Returns:
//   - *Controller: the controller, for chaining
func (c *Controller) Name(name string) *Controller {
	c.gui.mu.Lock()
	c.name = name
	c.gui.mu.Unlock()
	return c
}

// Min sets the lower bound for number controls. Values set below it are clamped.
func (c *Controller) Min(v float64) *Controller {
	c.gui.mu.Lock()
	c.min = &v
	c.gui.mu.Unlock()
	return c
}

// Max sets the upper bound for number controls. Values set above it are clamped.
func (c *Controller) Max(v float64) *Controller {
	c.gui.mu.Lock()
	c.max = &v
	c.gui.mu.Unlock()
	return c
}

// Step sets the slider increment shown by clients for number controls.
func (c *Controller) Step(v float64) *Controller {
	c.gui.mu.Lock()
	c.step = &v
	c.gui.mu.Unlock()
	return c
}

// Range is shorthand for Min(lo).Max(hi).
func (c *Controller) Range(lo, hi float64) *Controller {
	return c.Min(lo).Max(hi)
}

// Options turns the control into a drop-down. Each option value must be convertible to the
// bound field's type.
//
// Parameters:
//   - opts: the choices in display order
//
// Returns:
//   - *Controller: the controller, for chaining
func (c *Controller) Options(opts ...Option) *Controller {
	values := make([]reflect.Value, 0, len(opts))
	for _, o := range opts {
		v := reflect.ValueOf(o.Value)
		if !v.IsValid() || !convertible(v.Type(), c.field.Type()) {
			panic(fmt.Sprintf("panel: option %q (%T) does not fit field %q of type %s", o.Label, o.Value, c.name, c.field.Type()))
		}
		values = append(values, v.Convert(c.field.Type()))
	}

	c.gui.mu.Lock()
	c.kind = KindOptions
	c.options = opts
	c.optionValues = values
	c.gui.mu.Unlock()
	return c
}

// OnChange registers fn to run after every successful Set with the value now stored.
//
// Parameters:
//   - fn: the callback; buttons receive nil
//
// Returns:
//   - *Controller: the controller, for chaining
func (c *Controller) OnChange(fn func(value any)) *Controller {
	c.gui.mu.Lock()
	c.onChange = append(c.onChange, fn)
	c.gui.mu.Unlock()
	return c
}

// Listen makes snapshots re-read the bound field every time, so changes made outside the
// panel (orbit controls moving the camera, for example) reach clients.
func (c *Controller) Listen() *Controller {
	c.gui.mu.Lock()
	c.listen = true
	c.gui.mu.Unlock()
	return c
}

// Value returns the bound field's current value. Colors are returned as "#rrggbb" strings.
// Must be called from the thread that owns the bound object.
func (c *Controller) Value() any {
	return c.read()
}

// Set converts v to the field's type, clamps numbers to the configured range, stores it and
// runs the OnChange callbacks. Buttons ignore v and invoke their function.
// Must be called from the thread that owns the bound object.
//
// Parameters:
//   - v: the new value; numbers may be any numeric type or numeric string
//
// Returns:
//   - error: ErrInvalidValue if v does not fit the control
func (c *Controller) Set(v any) error {
	if c.kind == KindButton {
		c.fn()
		c.fire(nil)
		return nil
	}

	var err error
	switch c.kind {
	case KindNumber:
		err = c.setNumber(v)
	case KindBool:
		err = c.setBool(v)
	case KindString:
		err = c.setString(v)
	case KindColor:
		err = c.setColor(v)
	case KindOptions:
		err = c.setOption(v)
	}
	if err != nil {
		return fmt.Errorf("%s %q: %w", c.kind, c.name, err)
	}

	value := c.read()
	c.gui.mu.Lock()
	c.cached = value
	c.gui.mu.Unlock()
	c.fire(value)
	return nil
}

func (c *Controller) fire(value any) {
	c.gui.mu.Lock()
	callbacks := slices.Clone(c.onChange)
	c.gui.mu.Unlock()
	for _, fn := range callbacks {
		fn(value)
	}
}

func (c *Controller) setNumber(v any) error {
	f, err := toFloat(v)
	if err != nil {
		return err
	}
	c.gui.mu.Lock()
	lo, hi := c.min, c.max
	c.gui.mu.Unlock()
	if lo != nil && f < *lo {
		f = *lo
	}
	if hi != nil && f > *hi {
		f = *hi
	}

	// Values the field type cannot hold are rejected rather than wrapped or truncated.
	overflow := fmt.Errorf("%w: %v does not fit %s", ErrInvalidValue, f, c.field.Type())
	switch c.field.Kind() {
	case reflect.Float32, reflect.Float64:
		if c.field.OverflowFloat(f) {
			return overflow
		}
		c.field.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		r := math.Round(f)
		if r < math.MinInt64 || r >= math.MaxInt64 || c.field.OverflowInt(int64(r)) {
			return overflow
		}
		c.field.SetInt(int64(r))
	default:
		r := math.Round(f)
		if r < 0 || r >= math.MaxUint64 || c.field.OverflowUint(uint64(r)) {
			return overflow
		}
		c.field.SetUint(uint64(r))
	}
	return nil
}

func (c *Controller) setBool(v any) error {
	switch b := v.(type) {
	case bool:
		c.field.SetBool(b)
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, b)
		}
		c.field.SetBool(parsed)
	default:
		return fmt.Errorf("%w: %T is not a boolean", ErrInvalidValue, v)
	}
	return nil
}

func (c *Controller) setString(v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.String {
		return fmt.Errorf("%w: %T is not a string", ErrInvalidValue, v)
	}
	c.field.SetString(rv.String())
	return nil
}

func (c *Controller) setColor(v any) error {
	var col common.Color
	switch x := v.(type) {
	case common.Color:
		col = x
	case string:
		parsed, err := common.ParseHexColor(x)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		col = parsed
	default:
		return fmt.Errorf("%w: %T is not a color", ErrInvalidValue, v)
	}

	if c.field.Kind() == reflect.String {
		c.field.SetString(col.Hex())
		return nil
	}
	// Keep the stored alpha; clients only edit rgb.
	old := c.field.Interface().(common.Color)
	col.A = old.A
	c.field.Set(reflect.ValueOf(col))
	return nil
}

func (c *Controller) setOption(v any) error {
	c.gui.mu.Lock()
	opts, values := c.options, c.optionValues
	c.gui.mu.Unlock()

	rv := reflect.ValueOf(v)
	if rv.IsValid() {
		if isNumber(rv.Kind()) && isNumber(c.field.Kind()) {
			if f, err := toFloat(v); err == nil {
				rv = reflect.ValueOf(f)
			}
		}
		if convertible(rv.Type(), c.field.Type()) {
			converted := rv.Convert(c.field.Type())
			for _, ov := range values {
				if ov.Equal(converted) {
					c.field.Set(ov)
					return nil
				}
			}
		}
	}
	if label, ok := v.(string); ok {
		for i, o := range opts {
			if o.Label == label {
				c.field.Set(values[i])
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %v is not one of the options", ErrInvalidValue, v)
}

// read returns the field in its wire form.
func (c *Controller) read() any {
	switch c.kind {
	case KindButton:
		return nil
	case KindColor:
		if c.field.Kind() == reflect.String {
			return c.field.String()
		}
		return c.field.Interface().(common.Color).Hex()
	case KindNumber:
		f, _ := toFloat(c.field.Interface())
		return f
	case KindBool:
		return c.field.Bool()
	case KindString:
		return c.field.String()
	default:
		return c.field.Interface()
	}
}

// state captures the controller for a snapshot. Caller holds c.gui.mu.
func (c *Controller) state(value any) ControlState {
	return ControlState{
		ID:      c.id,
		Folder:  c.folder,
		Name:    c.name,
		Kind:    c.kind,
		Value:   value,
		Min:     c.min,
		Max:     c.max,
		Step:    c.step,
		Options: c.options,
		Listen:  c.listen,
	}
}

// convertible reports whether from converts to to without the int-to-rune string conversion.
func convertible(from, to reflect.Type) bool {
	if to.Kind() == reflect.String && from.Kind() != reflect.String {
		return false
	}
	return from.ConvertibleTo(to)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// toFloat converts any numeric value, or a numeric string, to a finite float64.
func toFloat(v any) (float64, error) {
	var f float64
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
		return 0, fmt.Errorf("%w: missing number", ErrInvalidValue)
	case rv.CanFloat():
		f = rv.Float()
	case rv.CanInt():
		f = float64(rv.Int())
	case rv.CanUint():
		f = float64(rv.Uint())
	case rv.Kind() == reflect.String:
		parsed, err := strconv.ParseFloat(rv.String(), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, rv.String())
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: %T is not a number", ErrInvalidValue, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v is not finite", ErrInvalidValue, f)
	}
	return f, nil
}
