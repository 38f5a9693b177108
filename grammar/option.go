package grammar

type buildConfig struct {
	markovize    bool
	unknown      string
	phrase       string
	identityProb float64
	glue         bool
}

func newBuildConfig(opts []Option) *buildConfig {
	c := &buildConfig{
		unknown:      DefaultUnknownMarker,
		phrase:       DefaultPhraseSymbol,
		identityProb: DefaultIdentityProbability,
		glue:         true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(c *buildConfig)

// VerticalMarkovization annotates every internal node except the root with the label of its parent.
func VerticalMarkovization() Option {
	return func(c *buildConfig) {
		c.markovize = true
	}
}

// UnknownMarker sets the terminal that replaces tokens unseen in training data.
func UnknownMarker(marker string) Option {
	return func(c *buildConfig) {
		if marker != "" {
			c.unknown = marker
		}
	}
}

// PhraseSymbol sets the LHS of the glue rule and the identity rules of a synchronous grammar.
func PhraseSymbol(sym string) Option {
	return func(c *buildConfig) {
		if sym != "" {
			c.phrase = sym
		}
	}
}

func IdentityProbability(p float64) Option {
	return func(c *buildConfig) {
		c.identityProb = p
	}
}

// DisableGlue stops a synchronous grammar from adding the glue rule.
func DisableGlue() Option {
	return func(c *buildConfig) {
		c.glue = false
	}
}
