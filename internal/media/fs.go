package media

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// FSStore keeps media blobs as files in a single directory and serves them
// back over HTTP.
type FSStore struct {
	dir string
}

// NewFSStore returns a FSStore rooted at dir, creating it if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Error.Wrap(err)
	}
	return &FSStore{dir: dir}, nil
}

// Save writes the upload to a temporary file and renames it into place.
func (s *FSStore) Save(_ context.Context, u Upload) error {
	if !ValidName(u.Name) {
		return Error.New("invalid media name %q", u.Name)
	}
	tmp, err := os.CreateTemp(s.dir, ".incoming-*")
	if err != nil {
		return Error.Wrap(err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(u.Data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return Error.Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return Error.Wrap(err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return Error.Wrap(err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, u.Name)); err != nil {
		_ = os.Remove(tmpName)
		return Error.Wrap(err)
	}
	return nil
}

// Delete removes the named blob. Deleting a missing blob is not an error.
func (s *FSStore) Delete(_ context.Context, name string) error {
	if !ValidName(name) {
		return Error.New("invalid media name %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return Error.Wrap(err)
	}
	return nil
}

// Handler serves stored blobs by the last element of the request path.
func (s *FSStore) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Base(r.URL.Path)
		if !ValidName(name) {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(s.dir, name))
	})
}
