package property

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// DefaultTagName is the struct tag consulted for property names and options.
const DefaultTagName = "prop"

// DefaultGrowLimit bounds the slice index auto-grow may create.
const DefaultGrowLimit = 256

// Option configures an Accessor.
type Option func(*Accessor)

// WithTagName sets the struct tag used for property names, e.g. "json" or
// "yaml". Only the name and the readonly option are interpreted.
func WithTagName(name string) Option {
	return func(a *Accessor) {
		a.tagName = name
	}
}

// WithAutoGrow makes writes create nil intermediate pointers, maps and
// interface values, and grow slices to reach an index.
func WithAutoGrow(enabled bool) Option {
	return func(a *Accessor) {
		a.autoGrow = enabled
	}
}

// WithGrowLimit caps slice auto-grow; indices at or beyond limit are not
// created.
func WithGrowLimit(limit int) Option {
	return func(a *Accessor) {
		a.growLimit = limit
	}
}

// WithOldValues captures the previous value of a property into
// PropertyError.OldValue when a write fails.
func WithOldValues(enabled bool) Option {
	return func(a *Accessor) {
		a.oldValues = enabled
	}
}

// WithValidator checks converted values against the field's `validate` tag.
func WithValidator(v *validator.Validate) Option {
	return func(a *Accessor) {
		a.validate = v
	}
}

// WithRules attaches validator tags to property names, e.g.
// {"server.port": "min=1,max=65535"}. A rule applies to writes of exactly
// that name, including map entries, and adds to any `validate` field tag.
// A default validator is used unless WithValidator is given.
func WithRules(rules map[string]string) Option {
	return func(a *Accessor) {
		a.rules = rules
	}
}

var ruleValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New()
})

// CheckRule reports whether rule is a well-formed validator tag.
func CheckRule(rule string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid rule %q: %v", rule, r)
		}
	}()

	_ = ruleValidator().Var("", rule)

	return nil
}
