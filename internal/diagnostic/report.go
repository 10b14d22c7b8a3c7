package diagnostic

import (
	"errors"

	"property-binder/internal/binding"
)

// CodeUnclassified is used for errors that carry no property classification.
const CodeUnclassified = "unclassified"

// FromError converts the result of binding.Apply into diagnostics.
// A *binding.BatchError yields one error per rejected value, a
// *binding.PropertyError yields a single error, anything else one
// unclassified error. A nil error yields empty diagnostics.
func FromError(err error) *Diagnostics {
	res := &Diagnostics{}
	if err == nil {
		return res
	}

	var be *binding.BatchError
	if errors.As(err, &be) {
		for _, f := range be.Failures() {
			res.Add(fromPropertyError(f))
		}

		return res
	}

	var pe *binding.PropertyError
	if errors.As(err, &pe) {
		res.Add(fromPropertyError(pe))

		return res
	}

	res.AddError(CodeUnclassified, err.Error(), "", "")

	return res
}

func fromPropertyError(pe *binding.PropertyError) Diagnostic {
	msg := pe.Kind.String()
	if pe.Err != nil {
		msg = pe.Err.Error()
	}

	return Diagnostic{
		Severity:    SeverityError,
		Code:        pe.Code,
		Message:     msg,
		Path:        pe.Path,
		Suggestions: pe.Suggestions,
		OldValue:    pe.OldValue,
	}
}
