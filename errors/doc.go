// Package errors provides the structured error type used across livesse.
//
// AppError carries a machine-readable code, a human-readable message, a
// retryable flag and an optional cause. The subscription manager uses it to
// report payload decode failures; configuration validation uses it to report
// invalid fields.
package errors
