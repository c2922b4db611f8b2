// Package validation checks configuration structs against their
// `validate` tags and reports failures as INVALID_INPUT AppErrors.
//
//	type Config struct {
//	    URL           string `mapstructure:"url" validate:"required,url"`
//	    MaxRetryCount int    `mapstructure:"max_retry_count" validate:"gte=0,lte=100"`
//	}
//	if err := validation.ValidateStruct(cfg); err != nil { ... }
//
// Field names in messages follow the mapstructure tag so they match the keys
// users write in config files.
package validation
