package scrub

type options struct {
	strategy             string
	confidenceThreshold  float64
	contextBoost         float64
	contextWindow        int
	entities             []string
	modelDir             string
	hashSalt             string
	replaceSeed          uint64
	extraFalsePositives  []string
	reclassifySingleWord bool
	whitelistEmails      []string
	whitelistDomains     []string
}

// Option configures a Scrub instance.
type Option func(*options)

// WithStrategy selects the anonymization strategy: "redact", "mask",
// "replace", or "hash". Default: "redact".
func WithStrategy(name string) Option {
	return func(o *options) { o.strategy = name }
}

// WithConfidenceThreshold sets the minimum confidence for a match to be
// anonymized. Default: 0.5.
func WithConfidenceThreshold(t float64) Option {
	return func(o *options) { o.confidenceThreshold = t }
}

// WithEntities restricts detection to the given entity types.
func WithEntities(entities ...string) Option {
	return func(o *options) { o.entities = entities }
}

// WithModelDir enables the NER model pass. The directory must contain
// model.onnx, vocab.txt, and libonnxruntime.so.
func WithModelDir(dir string) Option {
	return func(o *options) { o.modelDir = dir }
}

// WithHashSalt sets the salt for the hash strategy.
func WithHashSalt(salt string) Option {
	return func(o *options) { o.hashSalt = salt }
}

// WithReplaceSeed makes the replace strategy deterministic.
func WithReplaceSeed(seed uint64) Option {
	return func(o *options) { o.replaceSeed = seed }
}

// WithExtraFalsePositives extends the built-in false-positive lexicon.
func WithExtraFalsePositives(words ...string) Option {
	return func(o *options) { o.extraFalsePositives = words }
}

// WithWhitelist exempts the given emails and domains from anonymization.
func WithWhitelist(emails, domains []string) Option {
	return func(o *options) {
		o.whitelistEmails = emails
		o.whitelistDomains = domains
	}
}

func defaultOptions() options {
	return options{
		strategy:            "redact",
		confidenceThreshold: 0.5,
		contextBoost:        0.2,
		contextWindow:       40,
	}
}
