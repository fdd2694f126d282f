package dataprovider

// Option configures a Client.
type Option func(*clientConfig)

// TypeOption configures one record type.
type TypeOption func(*typeConfig)

type typeConfig struct {
	attributes []string
	labels     map[string]string
	identity   []string
}

type clientConfig struct {
	driver          string
	addrs           []string
	username        string
	password        string
	blevePath       string
	index           string
	keyPrefix       string
	filter          string
	returnFields    []string
	defaultPageSize int
	maxPageSize     int
	keyField        string
	typeField       string
	defaultType     string
	defaultSort     string
	multiSort       bool
	types           []string
	typeConfigs     map[string]*typeConfig
}

// WithRedis connects to Redis with the search module.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = addrs
	}
}

// WithCredentials sets the Redis ACL user and password.
func WithCredentials(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithBleve opens (or creates) an embedded bleve index at path.
func WithBleve(path string) Option {
	return func(c *clientConfig) {
		c.driver = driverBleve
		c.blevePath = path
	}
}

// WithIndex sets the searched index. For bleve it names the opened index.
func WithIndex(name string) Option {
	return func(c *clientConfig) { c.index = name }
}

// WithKeyPrefix strips prefix from document keys to form IDs.
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) { c.keyPrefix = prefix }
}

// WithFilter sets the base filter every query is combined with.
func WithFilter(filter string) Option {
	return func(c *clientConfig) { c.filter = filter }
}

// WithReturnFields restricts the fields loaded per document.
func WithReturnFields(fields ...string) Option {
	return func(c *clientConfig) { c.returnFields = fields }
}

// WithPageSize sets the default and maximum page size.
func WithPageSize(def, maxSize int) Option {
	return func(c *clientConfig) {
		c.defaultPageSize = def
		c.maxPageSize = maxSize
	}
}

// WithKeyField keys every record by field, overriding type identity.
func WithKeyField(field string) Option {
	return func(c *clientConfig) { c.keyField = field }
}

// WithTypeField reads each document's record type from field.
func WithTypeField(field string) Option {
	return func(c *clientConfig) { c.typeField = field }
}

// WithDefaultSort sets the order used when a request asks for none, e.g. "-year,title".
func WithDefaultSort(param string) Option {
	return func(c *clientConfig) { c.defaultSort = param }
}

// WithMultiSort lets requests sort on more than one attribute.
func WithMultiSort() Option {
	return func(c *clientConfig) { c.multiSort = true }
}

// WithType declares a record type. The first declared type is the default
// when no type field is set.
func WithType(name string, opts ...TypeOption) Option {
	return func(c *clientConfig) {
		if c.typeConfigs == nil {
			c.typeConfigs = make(map[string]*typeConfig)
		}
		tc, ok := c.typeConfigs[name]
		if !ok {
			tc = &typeConfig{}
			c.typeConfigs[name] = tc
			c.types = append(c.types, name)
		}
		for _, o := range opts {
			o(tc)
		}
		if c.defaultType == "" {
			c.defaultType = name
		}
	}
}

// Attributes declares the sortable attributes of a type.
func Attributes(names ...string) TypeOption {
	return func(t *typeConfig) { t.attributes = append(t.attributes, names...) }
}

// Label overrides the generated display label of an attribute.
func Label(attr, label string) TypeOption {
	return func(t *typeConfig) {
		if t.labels == nil {
			t.labels = make(map[string]string)
		}
		t.labels[attr] = label
	}
}

// Identity declares the fields that identify a record of the type.
func Identity(fields ...string) TypeOption {
	return func(t *typeConfig) { t.identity = fields }
}
