package config

import "time"

// ProcessorConfig contains processing engine configuration.
type ProcessorConfig struct {
	// Workers is the number of concurrent processing goroutines.
	Workers int `env:"PROCESSOR_WORKERS" envDefault:"4"`

	// QueueSize is the dispatcher queue length.
	QueueSize int `env:"PROCESSOR_QUEUE_SIZE" envDefault:"256"`

	// Delay is how long the simulated provider takes per payment.
	Delay time.Duration `env:"PROCESSOR_DELAY" envDefault:"2s"`

	// FailureRate is the simulated provider decline probability in [0,1].
	FailureRate float64 `env:"PROCESSOR_FAILURE_RATE" envDefault:"0.2"`
}

// Sanitize applies guardrails to processor configuration values.
func (p *ProcessorConfig) Sanitize() {
	if p.Workers <= 0 {
		p.Workers = 4
	}
	if p.QueueSize <= 0 {
		p.QueueSize = 256
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	if p.FailureRate < 0 {
		p.FailureRate = 0
	}
	if p.FailureRate > 1 {
		p.FailureRate = 1
	}
}
