package instance

import plcmem "github.com/wippyai/plcmem"

type config struct {
	mem  plcmem.Memory
	name string
}

// Option configures New.
type Option func(*config)

// WithMemory places the instance in caller-provided memory instead of a
// fresh buffer. The memory must hold at least the struct size.
func WithMemory(m plcmem.Memory) Option {
	return func(c *config) {
		c.mem = m
	}
}

// WithName labels the instance, usually with the data block name.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}
