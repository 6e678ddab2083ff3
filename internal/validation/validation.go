// Package validation contains the logic for validating
// request data.
//
// Requests are read into untyped Params so rules see the
// values as the client sent them. Rules use the `validator`
// library's Var checks (number, len, min) and report failures
// as errs.FieldErrors, which BindAndValidate turns into the
// 422 error the client receives.
package validation
