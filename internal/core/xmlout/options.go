package xmlout

// Default element names
const (
	DefaultRoot       = "Records"
	DefaultRecord     = "Record"
	DefaultExtensions = "CustomerExtensions"
)

// Option configures a Writer
type Option func(*config)

type config struct {
	root       string
	record     string
	extensions string
	prefix     string
	indent     string
	header     bool
	repair     bool
}

func defaults() config {
	return config{
		root:       DefaultRoot,
		record:     DefaultRecord,
		extensions: DefaultExtensions,
		header:     true,
	}
}

// WithRoot names the document element
func WithRoot(name string) Option { return func(c *config) { c.root = name } }

// WithRecord names the element written per row
func WithRecord(name string) Option { return func(c *config) { c.record = name } }

// WithExtensionsTag names the wrapper around customer extension fields
func WithExtensionsTag(name string) Option { return func(c *config) { c.extensions = name } }

// WithIndent pretty prints with the given line prefix and per level indent
func WithIndent(prefix, indent string) Option {
	return func(c *config) {
		c.prefix = prefix
		c.indent = indent
	}
}

// WithHeader toggles the leading XML declaration
func WithHeader(on bool) Option { return func(c *config) { c.header = on } }

// WithTagRepair rewrites illegal column names instead of failing
func WithTagRepair(on bool) Option { return func(c *config) { c.repair = on } }
