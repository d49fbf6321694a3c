package mock

import (
	"context"

	cl "spotifake/pkg/catalog"
)

// AlbumStore defines an interface responsible for Album CRUD.
type AlbumStore struct {
	ListAlbumsFn  func(ctx context.Context, req cl.ListAlbumsRequest) ([]cl.Album, error)
	GetAlbumFn    func(ctx context.Context, id int64, v cl.Visibility) (cl.Album, error)
	CreateAlbumFn func(ctx context.Context, req cl.CreateAlbumRequest) (cl.Album, error)
	UpdateAlbumFn func(ctx context.Context, req cl.UpdateAlbumRequest) (cl.Album, error)
	DeleteAlbumFn func(ctx context.Context, id int64, v cl.Visibility) error
}

// ListAlbums proxies the request to the ListAlbumsFn that's injected when
// the mock store is created.
func (s *AlbumStore) ListAlbums(ctx context.Context, req cl.ListAlbumsRequest) ([]cl.Album, error) {
	return s.ListAlbumsFn(ctx, req)
}

// GetAlbum proxies the request to the GetAlbumFn that's injected when
// the mock store is created.
func (s *AlbumStore) GetAlbum(ctx context.Context, id int64, v cl.Visibility) (cl.Album, error) {
	return s.GetAlbumFn(ctx, id, v)
}

// CreateAlbum proxies the request to the CreateAlbumFn that's injected when
// the mock store is created.
func (s *AlbumStore) CreateAlbum(ctx context.Context, req cl.CreateAlbumRequest) (cl.Album, error) {
	return s.CreateAlbumFn(ctx, req)
}

// UpdateAlbum proxies the request to the UpdateAlbumFn that's injected when
// the mock store is created.
func (s *AlbumStore) UpdateAlbum(ctx context.Context, req cl.UpdateAlbumRequest) (cl.Album, error) {
	return s.UpdateAlbumFn(ctx, req)
}

// DeleteAlbum proxies the request to the DeleteAlbumFn that's injected when
// the mock store is created.
func (s *AlbumStore) DeleteAlbum(ctx context.Context, id int64, v cl.Visibility) error {
	return s.DeleteAlbumFn(ctx, id, v)
}
