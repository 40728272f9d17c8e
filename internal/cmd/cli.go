// Package cmd defines the kong command tree of the cdtv-bridge CLI.
package cmd

// LogConfig groups the logging flags shared by all commands.
type LogConfig struct {
	Level     string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"CDTVBRIDGE_LOG_LEVEL"`
	File      string `help:"Also write logs to this file" env:"CDTVBRIDGE_LOG_FILE"`
	TraceFile string `help:"Write raw line-event traces to this file" env:"CDTVBRIDGE_TRACE_FILE"`
}

// CLI is the root command structure parsed by kong. Configuration files
// (JSON/YAML/TOML) provide defaults; flags and environment override.
type CLI struct {
	Log    LogConfig `embed:"" prefix:"log."`
	Config string    `help:"Path to a config file" env:"CDTVBRIDGE_CONFIG"`

	Run       Run           `cmd:"" help:"Run the bridge dispatch loop against the simulated backend"`
	Encode    Encode        `cmd:"" help:"Print the infrared pulse train for a button or raw 12-bit code"`
	ConfigCmd ConfigCommand `cmd:"" name:"config" help:"Configuration file utilities"`
}
