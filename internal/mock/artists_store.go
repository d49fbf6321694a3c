package mock

import (
	"context"

	cl "spotifake/pkg/catalog"
)

// ArtistStore defines an interface responsible for Artist CRUD.
type ArtistStore struct {
	ListArtistsFn  func(ctx context.Context) ([]cl.Artist, error)
	GetArtistFn    func(ctx context.Context, id int64) (cl.Artist, error)
	CreateArtistFn func(ctx context.Context, req cl.CreateArtistRequest) (cl.Artist, error)
	UpdateArtistFn func(ctx context.Context, req cl.UpdateArtistRequest) (cl.Artist, error)
	DeleteArtistFn func(ctx context.Context, id int64) error
}

// ListArtists proxies the request to the ListArtistsFn that's injected when
// the mock store is created.
func (s *ArtistStore) ListArtists(ctx context.Context) ([]cl.Artist, error) {
	return s.ListArtistsFn(ctx)
}

// GetArtist proxies the request to the GetArtistFn that's injected when
// the mock store is created.
func (s *ArtistStore) GetArtist(ctx context.Context, id int64) (cl.Artist, error) {
	return s.GetArtistFn(ctx, id)
}

// CreateArtist proxies the request to the CreateArtistFn that's injected when
// the mock store is created.
func (s *ArtistStore) CreateArtist(ctx context.Context, req cl.CreateArtistRequest) (cl.Artist, error) {
	return s.CreateArtistFn(ctx, req)
}

// UpdateArtist proxies the request to the UpdateArtistFn that's injected when
// the mock store is created.
func (s *ArtistStore) UpdateArtist(ctx context.Context, req cl.UpdateArtistRequest) (cl.Artist, error) {
	return s.UpdateArtistFn(ctx, req)
}

// DeleteArtist proxies the request to the DeleteArtistFn that's injected when
// the mock store is created.
func (s *ArtistStore) DeleteArtist(ctx context.Context, id int64) error {
	return s.DeleteArtistFn(ctx, id)
}
