// Package validation validates configuration and call arguments.
//
// Struct tags are checked with go-playground/validator; field names in
// messages come from mapstructure or json tags:
//
//	type Config struct {
//	    Host  string `mapstructure:"host" validate:"required,url"`
//	    Model string `mapstructure:"model" validate:"required"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic checks collect errors for fields that tags cannot express:
//
//	v := validation.New()
//	v.FloatRange("options.top_p", opts.TopP, 0, 1)
//	err := v.Err()
//
// Both forms return an INVALID_INPUT *errors.AppError whose details list
// every failing field.
package validation
