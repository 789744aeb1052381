package mdtree

// DumpOption configures tree dumps.
type DumpOption func(*dumpConfig)

type dumpConfig struct {
	osc8 bool
}

// WithOSC8 enables or disables OSC 8 hyperlinks on link targets.
func WithOSC8(enabled bool) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.osc8 = enabled
	}
}
