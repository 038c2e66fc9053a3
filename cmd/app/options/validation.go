package options

import (
	"github.com/marmotedu/component-base/pkg/validation"
)

// Validate checks every option section, first a struct-level pass (catches
// a nil section before its own Validate panics on a nil receiver) then each
// section's own field-by-field rules, mirroring the teacher's
// internal/pkg/model.User.Validate shape applied to the config layer
// instead of a persisted entity.
func (o *Options) Validate() []error {
	var errs []error

	val := validation.NewValidator(o)
	for _, e := range val.Validate() {
		errs = append(errs, e)
	}

	errs = append(errs, o.InsecureServing.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	errs = append(errs, o.Registry.Validate()...)
	errs = append(errs, o.Privsep.Validate()...)
	errs = append(errs, o.Session.Validate()...)
	errs = append(errs, o.WireGuard.Validate()...)

	return errs
}
