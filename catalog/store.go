// Package catalog mirrors the server-authoritative product list locally and
// drives the product CRUD flow. The local list is always the last successful
// server response, never a client-computed projection.
package catalog

import (
	"context"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/types"
	"github.com/angelmondragon/storefront-client/pkg/validators"
)

// ProductAPI is the slice of the API client the catalog store depends on.
type ProductAPI interface {
	ListProducts(ctx context.Context) ([]types.Product, error)
	CreateProduct(ctx context.Context, token string, product types.Product) (*types.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
	UpdateProduct(ctx context.Context, token, id string, fields map[string]any) (*types.Product, error)
}

// CredentialSource provides the token and user id populated by the session
// store.
type CredentialSource interface {
	Token() string
	UserID() string
}

// Store holds the product list plus loading/error flags.
type Store struct {
	mu    sync.Mutex
	api   ProductAPI
	creds CredentialSource
	logg  *logger.Logger

	products []types.Product
	loading  bool
	lastErr  string
}

func New(productAPI ProductAPI, creds CredentialSource, logg *logger.Logger) *Store {
	return &Store{api: productAPI, creds: creds, logg: logg}
}

// FetchProducts replaces the local list wholesale with the server's. The
// loading flag is cleared whatever the outcome.
func (s *Store) FetchProducts(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	products, err := s.api.ListProducts(ctx)
	if err != nil {
		s.recordFailure(ctx, "fetch products failed", err)
		return
	}

	s.mu.Lock()
	s.products = products
	s.lastErr = ""
	s.mu.Unlock()
	s.logg.Debug(ctx, "products fetched")
}

// AddProduct validates and completes the input, submits it, appends the
// server's record and triggers a full refresh. Credential and validation
// failures are recorded before any network traffic happens.
func (s *Store) AddProduct(ctx context.Context, input ProductInput) {
	token := s.creds.Token()
	if token == "" {
		s.recordFailure(ctx, "add product rejected", pkgerrors.New(pkgerrors.CodeCredentialMissing, "No token available"))
		return
	}
	userID := s.creds.UserID()
	if userID == "" {
		s.recordFailure(ctx, "add product rejected", pkgerrors.New(pkgerrors.CodeCredentialMissing, "No userID available"))
		return
	}
	if err := validators.Struct(input); err != nil {
		s.recordFailure(ctx, "add product rejected", err)
		return
	}

	created, err := s.api.CreateProduct(ctx, token, input.withDefaults(userID))
	if err != nil {
		s.recordFailure(ctx, "add product failed", err)
		return
	}

	s.mu.Lock()
	s.products = append(s.products, *created)
	s.lastErr = ""
	s.mu.Unlock()
	s.logg.Info(s.logg.WithProductID(ctx, created.ID), "product added")

	// Re-sync with the server's view; the appended record above is only a
	// stopgap until this refresh lands.
	s.FetchProducts(ctx)
}

// DeleteProduct removes the product remotely, then drops it from the local
// list by id. No refetch.
func (s *Store) DeleteProduct(ctx context.Context, id string) {
	token := s.creds.Token()
	if token == "" {
		s.recordFailure(ctx, "delete product rejected", pkgerrors.New(pkgerrors.CodeCredentialMissing, "No token available"))
		return
	}

	if err := s.api.DeleteProduct(ctx, token, id); err != nil {
		s.recordFailure(ctx, "delete product failed", err)
		return
	}

	s.mu.Lock()
	kept := s.products[:0:0]
	for _, product := range s.products {
		if product.ID != id {
			kept = append(kept, product)
		}
	}
	s.products = kept
	s.lastErr = ""
	s.mu.Unlock()
	s.logg.Info(s.logg.WithProductID(ctx, id), "product deleted")
}

// UpdateProduct sends a partial update. The response body is authoritative:
// whatever record comes back (including the wrapped raw-text fallback for
// non-JSON bodies) replaces the matching local entry, then the full list is
// refreshed.
func (s *Store) UpdateProduct(ctx context.Context, id string, fields map[string]any) {
	token := s.creds.Token()
	if token == "" {
		s.recordFailure(ctx, "update product rejected", pkgerrors.New(pkgerrors.CodeCredentialMissing, "No token available"))
		return
	}

	updated, err := s.api.UpdateProduct(ctx, token, id, fields)
	if err != nil {
		s.recordFailure(ctx, "update product failed", err)
		return
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = *updated
			break
		}
	}
	s.lastErr = ""
	s.mu.Unlock()
	s.logg.Info(s.logg.WithProductID(ctx, id), "product updated")

	s.FetchProducts(ctx)
}

func (s *Store) recordFailure(ctx context.Context, msg string, err error) {
	s.mu.Lock()
	s.lastErr = pkgerrors.UserMessage(err)
	s.mu.Unlock()
	s.logg.Error(ctx, msg, err)
}

// Products returns a copy of the current list.
func (s *Store) Products() []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded error message, empty after a success.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
