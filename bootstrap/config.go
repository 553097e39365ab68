package bootstrap

import (
	"github.com/kbukum/chatkit/config"
)

// Config is the constraint for program configuration types. Any struct
// embedding config.ServiceConfig satisfies it through promoted methods:
//
//	type CLIConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Ollama ollama.Config `yaml:"ollama" mapstructure:"ollama"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
