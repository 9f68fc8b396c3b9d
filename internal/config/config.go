// Package config carries the validation options accepted by the body
// validator.
package config

// Options are the validation knobs the core accepts. There are no files,
// environment variables, or persisted state involved — Options is plain
// data, populated by the CLI's flag binding.
type Options struct {
	// MaxMessageSendArgs bounds the argument count of a MessageSend
	// expression before O3S208 is emitted. Default 4.
	MaxMessageSendArgs int
}

// DefaultOptions returns the default validation knobs.
func DefaultOptions() Options {
	return Options{MaxMessageSendArgs: 4}
}
