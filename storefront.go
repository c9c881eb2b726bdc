// Package storefront wires the session, catalog and cart state containers
// for one storefront client. Construct a single Storefront per process or
// user session and hand it to the presentation layer; there is no hidden
// package-level state.
package storefront

import (
	"context"
	"io"
	"net/http"

	"github.com/angelmondragon/storefront-client/cart"
	"github.com/angelmondragon/storefront-client/catalog"
	"github.com/angelmondragon/storefront-client/pkg/api"
	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/angelmondragon/storefront-client/pkg/kvstore"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/session"
	"go.uber.org/multierr"
)

// Storefront bundles the three stores behind one handle.
type Storefront struct {
	Session *session.Store
	Catalog *catalog.Store
	Cart    *cart.Store

	logg    *logger.Logger
	closers []io.Closer
}

// Option configures optional wiring.
type Option func(*options)

type options struct {
	httpClient *http.Client
	kv         kvstore.Store
	logg       *logger.Logger
}

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithKVStore overrides the persistent store; redis and config are ignored
// when set.
func WithKVStore(store kvstore.Store) Option {
	return func(o *options) { o.kv = store }
}

// WithLogger overrides the logger built from config.
func WithLogger(logg *logger.Logger) Option {
	return func(o *options) { o.logg = logg }
}

// New builds a fully wired Storefront from configuration.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Storefront, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	logg := o.logg
	if logg == nil {
		logg = logger.New(logger.Options{
			ServiceName: "storefront",
			Level:       logger.ParseLevel(cfg.App.LogLevel),
			WarnStack:   cfg.App.LogWarnStack,
		})
	}

	sf := &Storefront{logg: logg}

	kv := o.kv
	if kv == nil {
		if cfg.Redis.Enabled() {
			redisStore, err := kvstore.NewRedis(ctx, cfg.Redis)
			if err != nil {
				return nil, err
			}
			kv = redisStore
			sf.closers = append(sf.closers, redisStore)
		} else {
			kv = kvstore.NewMemory()
		}
	}

	var apiOpts []api.Option
	if o.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(o.httpClient))
	}
	client, err := api.NewClient(cfg.API, logg, apiOpts...)
	if err != nil {
		sf.release()
		return nil, err
	}

	sf.Session = session.New(ctx, client, kv, logg)
	sf.Catalog = catalog.New(client, sf.Session, logg)
	sf.Cart = cart.New(ctx, kv, cfg.Cart, sf.Session, logg)

	return sf, nil
}

// Close releases any owned connections (currently only redis, when this
// Storefront created it).
func (s *Storefront) Close() error {
	return s.release()
}

func (s *Storefront) release() error {
	var errs []error
	for _, closer := range s.closers {
		errs = append(errs, closer.Close())
	}
	s.closers = nil
	return multierr.Combine(errs...)
}
