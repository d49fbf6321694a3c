package mock

import (
	"context"

	cl "spotifake/pkg/catalog"
)

type TrackStore struct {
	GetTrackFn    func(ctx context.Context, id int64, v cl.Visibility) (cl.Track, error)
	UpdateTrackFn func(ctx context.Context, req cl.UpdateTrackRequest) (cl.Track, error)
}

// GetTrack proxies the request to the GetTrackFn that's injected when
// the mock store is created.
func (s *TrackStore) GetTrack(ctx context.Context, id int64, v cl.Visibility) (cl.Track, error) {
	return s.GetTrackFn(ctx, id, v)
}

// UpdateTrack proxies the request to the UpdateTrackFn that's injected when
// the mock store is created.
func (s *TrackStore) UpdateTrack(ctx context.Context, req cl.UpdateTrackRequest) (cl.Track, error) {
	return s.UpdateTrackFn(ctx, req)
}
