// Package validation provides input validation for pipeline definitions and
// form submissions.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Both return an
// *errors.AppError with code INVALID_INPUT and a "fields" detail.
//
// # Struct Tag Validation
//
//	type StageConfig struct {
//	    Role string `json:"role" validate:"notblank"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.OneOf("query_type", form.QueryType, analysis.QueryTypes())
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
