package mock

import (
	"context"

	"spotifake/internal/media"
)

// MediaStore records saved blobs in memory unless SaveFn or DeleteFn are set.
type MediaStore struct {
	SaveFn   func(ctx context.Context, u media.Upload) error
	DeleteFn func(ctx context.Context, name string) error

	Saved   map[string][]byte
	Deleted []string
}

func (s *MediaStore) Save(ctx context.Context, u media.Upload) error {
	if s.SaveFn != nil {
		if err := s.SaveFn(ctx, u); err != nil {
			return err
		}
	}
	if s.Saved == nil {
		s.Saved = make(map[string][]byte)
	}
	s.Saved[u.Name] = u.Data
	return nil
}

func (s *MediaStore) Delete(ctx context.Context, name string) error {
	if s.DeleteFn != nil {
		if err := s.DeleteFn(ctx, name); err != nil {
			return err
		}
	}
	s.Deleted = append(s.Deleted, name)
	delete(s.Saved, name)
	return nil
}
