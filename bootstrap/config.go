package bootstrap

import (
	"github.com/kbukum/livesse/config"
)

// Config is satisfied by any struct embedding config.ServiceConfig that
// defines its own ApplyDefaults and Validate covering its sections.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
