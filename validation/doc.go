// Package validation validates configuration structs.
//
// Struct tag validation uses go-playground/validator; field names in messages
// are taken from mapstructure (then json) tags so they match config keys.
//
//	type Endpoint struct {
//	    URL string `mapstructure:"url" validate:"required,url"`
//	}
//	err := validation.Validate(ep)
//
// Programmatic checks collect errors and return one AppError:
//
//	err := validation.New().
//	    AbsoluteURL("default_url", cfg.DefaultURL).
//	    PositiveDuration("heartbeat_interval", cfg.HeartbeatInterval).
//	    Err()
package validation
