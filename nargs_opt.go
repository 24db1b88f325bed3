package nargs

type parseCfg struct {
	startIndex    int
	ignoreUnknown bool
	dump          bool
}

type ParseOpt func(*parseCfg)

// WithStartIndex skips args before index (typically 1, the program name).
func WithStartIndex(index int) ParseOpt {
	return func(c *parseCfg) {
		c.startIndex = index
	}
}

// WithIgnoreUnknown keeps unknown tokens in the result instead of failing.
func WithIgnoreUnknown(ignore bool) ParseOpt {
	return func(c *parseCfg) {
		c.ignoreUnknown = ignore
	}
}

func WithDump(dump bool) ParseOpt {
	return func(c *parseCfg) {
		c.dump = dump
	}
}

func newParseCfg(opts []ParseOpt) *parseCfg {
	cfg := &parseCfg{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
