package media

import (
	"context"

	"github.com/zeebo/errs"
)

// Store persists decoded uploads as opaque blobs.
type Store interface {
	Save(ctx context.Context, u Upload) error
	Delete(ctx context.Context, name string) error
}

// SaveAll stores every upload. If one fails, the ones already stored are
// removed again before the error is returned.
func SaveAll(ctx context.Context, s Store, uploads []Upload) error {
	saved := make([]string, 0, len(uploads))
	for _, u := range uploads {
		if err := s.Save(ctx, u); err != nil {
			return errs.Combine(err, DeleteAll(ctx, s, saved))
		}
		saved = append(saved, u.Name)
	}
	return nil
}

// DeleteAll removes every named blob, returning the combined errors.
func DeleteAll(ctx context.Context, s Store, names []string) error {
	var group errs.Group
	for _, name := range names {
		if name == "" {
			continue
		}
		group.Add(s.Delete(ctx, name))
	}
	return group.Err()
}
