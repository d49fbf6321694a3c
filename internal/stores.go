package internal

import (
	"context"

	cl "spotifake/pkg/catalog"
)

type ArtistStore interface {
	ListArtists(ctx context.Context) ([]cl.Artist, error)
	GetArtist(ctx context.Context, id int64) (cl.Artist, error)
	CreateArtist(ctx context.Context, req cl.CreateArtistRequest) (cl.Artist, error)
	UpdateArtist(ctx context.Context, req cl.UpdateArtistRequest) (cl.Artist, error)
	DeleteArtist(ctx context.Context, id int64) error
}

// AlbumStore reads and writes albums. Every lookup by id is narrowed by the
// given Visibility, so a hidden album is reported as cl.ErrNotFound.
type AlbumStore interface {
	ListAlbums(ctx context.Context, req cl.ListAlbumsRequest) ([]cl.Album, error)
	GetAlbum(ctx context.Context, id int64, v cl.Visibility) (cl.Album, error)
	CreateAlbum(ctx context.Context, req cl.CreateAlbumRequest) (cl.Album, error)
	UpdateAlbum(ctx context.Context, req cl.UpdateAlbumRequest) (cl.Album, error)
	DeleteAlbum(ctx context.Context, id int64, v cl.Visibility) error
}

type TrackStore interface {
	GetTrack(ctx context.Context, id int64, v cl.Visibility) (cl.Track, error)
	UpdateTrack(ctx context.Context, req cl.UpdateTrackRequest) (cl.Track, error)
}

type UserStore interface {
	Authenticate(ctx context.Context, username, password string) (cl.User, error)
	Token(ctx context.Context, userID int64) (string, error)
	UserByToken(ctx context.Context, token string) (cl.User, error)
	CreateUser(ctx context.Context, req cl.CreateUserRequest) (cl.User, error)
	SetStaff(ctx context.Context, username string, staff bool) (cl.User, error)
}
