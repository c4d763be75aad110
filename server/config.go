package server

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/HienLe2004/menuq/internal/pipeline"
	"github.com/HienLe2004/menuq/server/dao"
	"github.com/HienLe2004/menuq/server/dao/inmem"
	"github.com/HienLe2004/menuq/server/dao/sqlite"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// StoreKind names a backend for session records and transcripts.
type StoreKind string

const (
	StoreInMemory StoreKind = "inmem"
	StoreSQLite   StoreKind = "sqlite"
)

type storeBackend struct {
	needsDir bool
	open     func(dir string) (dao.Store, error)
}

var storeBackends = map[StoreKind]storeBackend{
	StoreInMemory: {
		open: func(string) (dao.Store, error) {
			return inmem.NewDatastore(), nil
		},
	},
	StoreSQLite: {
		needsDir: true,
		open: func(dir string) (dao.Store, error) {
			if err := os.MkdirAll(dir, 0770); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			return sqlite.NewDatastore(dir)
		},
	},
}

func storeKindNames() string {
	var names []string
	for k := range storeBackends {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// StoreConfig says where a server keeps session records and transcripts.
// Carts are never kept there.
type StoreConfig struct {
	Kind StoreKind

	// Dir is the directory the store writes to, for kinds that need one.
	Dir string
}

// ParseStore reads a store description of the form "KIND" or "KIND:DIR",
// such as "inmem" or "sqlite:/var/lib/menuq". KIND is not case-sensitive.
func ParseStore(s string) (StoreConfig, error) {
	kindStr, dir, hasDir := strings.Cut(strings.TrimSpace(s), ":")
	sc := StoreConfig{
		Kind: StoreKind(strings.ToLower(strings.TrimSpace(kindStr))),
		Dir:  strings.TrimSpace(dir),
	}

	backend, ok := storeBackends[sc.Kind]
	if !ok {
		return StoreConfig{}, fmt.Errorf("unknown store %q; must be one of %s", kindStr, storeKindNames())
	}
	if hasDir && !backend.needsDir {
		return StoreConfig{}, fmt.Errorf("store %q does not take a directory", sc.Kind)
	}
	if err := sc.Validate(); err != nil {
		return StoreConfig{}, err
	}
	return sc, nil
}

// String gives sc in the form accepted by ParseStore.
func (sc StoreConfig) String() string {
	if sc.Dir == "" {
		return string(sc.Kind)
	}
	return string(sc.Kind) + ":" + sc.Dir
}

// Validate returns an error if sc names an unknown kind or is missing the
// directory its kind needs.
func (sc StoreConfig) Validate() error {
	backend, ok := storeBackends[sc.Kind]
	if !ok {
		return fmt.Errorf("unknown store %q; must be one of %s", sc.Kind, storeKindNames())
	}
	if backend.needsDir && sc.Dir == "" {
		return fmt.Errorf("store %q needs a directory, as in %q", sc.Kind, string(sc.Kind)+":DIR")
	}
	return nil
}

// Open validates sc and opens the store it describes.
func (sc StoreConfig) Open() (dao.Store, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	st, err := storeBackends[sc.Kind].open(sc.Dir)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", sc.Kind, err)
	}
	return st, nil
}

// DefaultCatalogPath is the catalog a server loads if Config.CatalogPath is
// not set.
const DefaultCatalogPath = "data/menu.toml"

// Config is a configuration for a server. It contains all parameters that can
// be used to configure the operation of a MenuQServer.
type Config struct {

	// TokenSecret is the secret used for signing tokens. If not provided, a
	// default key is used.
	TokenSecret []byte

	// Store is where session records and transcripts are kept. If not
	// provided, they are kept in memory.
	Store StoreConfig

	// CatalogPath is the menu catalog to serve orders from. If not provided,
	// DefaultCatalogPath is used.
	CatalogPath string

	// Strategy is the interpreter used by sessions that do not ask for one.
	Strategy pipeline.Strategy

	// ParseBudget is the step budget of the grammar-based interpreter. Zero
	// means the parser default and a negative value means no limit.
	ParseBudget int

	// UnauthDelayMillis is the amount of additional time to wait
	// (in milliseconds) before sending a response that indicates either that
	// the client was unauthorized or the client was unauthenticated. This is
	// something of an "anti-flood" measure for naive clients attempting
	// non-parallel connections. If not set it will default to 1 second
	// (1000ms). Set this to any negative number to disable the delay.
	UnauthDelayMillis int
}

// UnauthDelay returns the configured time for the UnauthDelay as a
// time.Duration. If cfg.UnauthDelayMillis is set to a number less than 0, this
// will return a zero-valued time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		var dur time.Duration
		return dur
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a new Config identitical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.TokenSecret == nil {
		newCFG.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if newCFG.Store.Kind == "" {
		newCFG.Store = StoreConfig{Kind: StoreInMemory}
	}
	if newCFG.CatalogPath == "" {
		newCFG.CatalogPath = DefaultCatalogPath
	}
	if newCFG.UnauthDelayMillis == 0 {
		newCFG.UnauthDelayMillis = 1000
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if err := cfg.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if cfg.CatalogPath == "" {
		return fmt.Errorf("catalog path: not set")
	}
	if cfg.Strategy != pipeline.Grammar && cfg.Strategy != pipeline.Pattern {
		return fmt.Errorf("strategy: unknown strategy %v", cfg.Strategy)
	}
	return nil
}
