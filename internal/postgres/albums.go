package postgres

import (
	"context"
	"sort"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	cl "spotifake/pkg/catalog"
)

const tableAlbums = "albums"

const (
	albumsColumnID          = `"id"`
	albumsColumnArtistID    = `"artist_id"`
	albumsColumnName        = `"name"`
	albumsColumnReleaseDate = `"release_date"`
	albumsColumnCover       = `"cover"`
	albumsColumnCreatedAt   = `"created_at"`
	albumsColumnUpdatedAt   = `"updated_at"`
)

var albumsColumns = []string{
	albumsColumnID,
	albumsColumnArtistID,
	albumsColumnName,
	albumsColumnReleaseDate,
	albumsColumnCover,
	albumsColumnCreatedAt,
	albumsColumnUpdatedAt,
}

func (p *Postgres) ListAlbums(ctx context.Context, req cl.ListAlbumsRequest) ([]cl.Album, error) {
	r := []cl.Album{}
	qv, err := buildListAlbumsQuery(req)
	if err != nil {
		return nil, errors.Wrap(err, "build list albums query")
	}
	err = p.sqldb.SelectContext(ctx, &r, qv.query, qv.args...)
	if err != nil {
		return nil, errors.Wrap(err, "execute list albums query")
	}

	if err := loadAlbumTracks(ctx, p.sqldb, r); err != nil {
		return nil, err
	}
	return r, nil
}

func buildListAlbumsQuery(req cl.ListAlbumsRequest) (QueryValues, error) {
	b := psql.
		Select(tableColumns(tableAlbums, albumsColumns)...).
		From(tableAlbums).
		OrderBy(tableColumn(tableAlbums, albumsColumnID))
	if req.ArtistID != 0 {
		b = b.Where(sq.Eq{tableColumn(tableAlbums, albumsColumnArtistID): req.ArtistID})
	}
	if req.Visibility.Restricted {
		b = b.Where(releasedBy(req.Visibility))
	}
	q, args, err := b.ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "list albums build query into SQL string")
}

func (p *Postgres) GetAlbum(ctx context.Context, id int64, v cl.Visibility) (cl.Album, error) {
	return getAlbum(ctx, p.sqldb, id, v)
}

func getAlbum(ctx context.Context, q sqlx.QueryerContext, id int64, v cl.Visibility) (cl.Album, error) {
	var r []cl.Album
	qv, err := buildGetAlbumQuery(id, v)
	if err != nil {
		return cl.Album{}, errors.Wrap(err, "build get album query")
	}
	err = sqlx.SelectContext(ctx, q, &r, qv.query, qv.args...)
	if err != nil {
		return cl.Album{}, errors.Wrap(err, "execute get album query")
	}

	// If not rows are found, return a 404.
	if len(r) == 0 {
		return cl.Album{}, cl.ErrNotFound
	}

	if err := loadAlbumTracks(ctx, q, r); err != nil {
		return cl.Album{}, err
	}
	return r[0], nil
}

func buildGetAlbumQuery(id int64, v cl.Visibility) (QueryValues, error) {
	b := psql.
		Select(tableColumns(tableAlbums, albumsColumns)...).
		From(tableAlbums).
		Where(sq.Eq{tableColumn(tableAlbums, albumsColumnID): id})
	if v.Restricted {
		b = b.Where(releasedBy(v))
	}
	q, args, err := b.ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "get album build query into SQL string")
}

// CreateAlbum stores the album, its tracks and their collaborator links in a
// single transaction. Unknown artist or collaborator ids are reported as a
// validation error and nothing is written.
func (p *Postgres) CreateAlbum(ctx context.Context, req cl.CreateAlbumRequest) (cl.Album, error) {
	var album cl.Album
	err := p.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := checkAlbumReferences(ctx, tx, req); err != nil {
			return err
		}

		q, args, err := psql.
			Insert(tableAlbums).
			Columns(albumsColumnArtistID, albumsColumnName, albumsColumnReleaseDate, albumsColumnCover).
			Values(req.ArtistID, req.Name, req.ReleaseDate, req.Cover).
			Suffix(returning(albumsColumns)).
			ToSql()
		if err != nil {
			return errors.Wrap(err, "build create album query")
		}
		if err := tx.GetContext(ctx, &album, q, args...); err != nil {
			return errors.Wrap(err, "execute create album query")
		}

		album.Tracks = make([]cl.Track, 0, len(req.Tracks))
		for _, tr := range req.Tracks {
			track, err := insertTrack(ctx, tx, album, tr)
			if err != nil {
				return err
			}
			album.Tracks = append(album.Tracks, track)
		}
		return nil
	})
	if err != nil {
		return cl.Album{}, err
	}

	sortTracks(album.Tracks)
	album.Collaborators = cl.AlbumCollaborators(album.Tracks)
	return album, nil
}

// checkAlbumReferences verifies that the album's artist and every track
// collaborator exist.
func checkAlbumReferences(ctx context.Context, tx *sqlx.Tx, req cl.CreateAlbumRequest) error {
	ids := []int64{req.ArtistID}
	for _, t := range req.Tracks {
		ids = append(ids, t.Collaborators...)
	}
	found, err := existingArtistIDs(ctx, tx, ids)
	if err != nil {
		return err
	}

	v := &cl.ValidationError{}
	if len(missingIDs([]int64{req.ArtistID}, found)) > 0 {
		v.Add("artist", cl.MsgUnknownPK(req.ArtistID))
	}
	for i, t := range req.Tracks {
		for _, id := range missingIDs(t.Collaborators, found) {
			v.Add("tracks."+strconv.Itoa(i)+".collaborators", cl.MsgUnknownPK(id))
		}
	}
	return v.Err()
}

// UpdateAlbum edits the album's own fields. Tracks are edited through the
// track endpoint.
func (p *Postgres) UpdateAlbum(ctx context.Context, req cl.UpdateAlbumRequest) (cl.Album, error) {
	var album cl.Album
	err := p.withTx(ctx, func(tx *sqlx.Tx) error {
		b := psql.
			Update(tableAlbums).
			Set(albumsColumnUpdatedAt, sq.Expr("NOW()")).
			Where(sq.Eq{albumsColumnID: req.ID}).
			Suffix(returning(albumsColumns))
		if req.Visibility.Restricted {
			b = b.Where(releasedBy(req.Visibility))
		}
		if req.ArtistID.Valid {
			b = b.Set(albumsColumnArtistID, req.ArtistID.Int64)
		}
		if req.Name.Valid {
			b = b.Set(albumsColumnName, req.Name.String)
		}
		if req.ReleaseDate.Valid {
			b = b.Set(albumsColumnReleaseDate, cl.DateOf(req.ReleaseDate.Time))
		}
		if req.Cover.Valid {
			b = b.Set(albumsColumnCover, req.Cover.String)
		}
		q, args, err := b.ToSql()
		if err != nil {
			return errors.Wrap(err, "build update album query")
		}

		var r []cl.Album
		if err := tx.SelectContext(ctx, &r, q, args...); err != nil {
			if isPQCode(err, codeForeignKeyViolation) {
				return cl.NewValidationError("artist", cl.MsgUnknownPK(req.ArtistID.Int64))
			}
			return errors.Wrap(err, "execute update album query")
		}
		if len(r) == 0 {
			return cl.ErrNotFound
		}
		if err := loadAlbumTracks(ctx, tx, r[:1]); err != nil {
			return err
		}
		album = r[0]
		return nil
	})
	if err != nil {
		return cl.Album{}, err
	}
	return album, nil
}

// DeleteAlbum removes the album and its tracks.
func (p *Postgres) DeleteAlbum(ctx context.Context, id int64, v cl.Visibility) error {
	b := psql.
		Delete(tableAlbums).
		Where(sq.Eq{albumsColumnID: id})
	if v.Restricted {
		b = b.Where(releasedBy(v))
	}
	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete album query")
	}

	res, err := p.sqldb.ExecContext(ctx, q, args...)
	if err != nil {
		return errors.Wrap(err, "execute delete album query")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete album rows affected")
	}
	if n == 0 {
		return cl.ErrNotFound
	}
	return nil
}

// loadAlbumTracks fills Tracks and Collaborators of every album.
func loadAlbumTracks(ctx context.Context, q sqlx.QueryerContext, albums []cl.Album) error {
	if len(albums) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(albums))
	for _, a := range albums {
		ids = append(ids, a.ID)
	}

	query, args, err := psql.
		Select(tableColumns(tableTracks, tracksColumns)...).
		From(tableTracks).
		Where(sq.Eq{tableColumn(tableTracks, tracksColumnAlbumID): ids}).
		OrderBy(tableColumn(tableTracks, tracksColumnIndex), tableColumn(tableTracks, tracksColumnID)).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build album tracks query")
	}
	var tracks []cl.Track
	if err := sqlx.SelectContext(ctx, q, &tracks, query, args...); err != nil {
		return errors.Wrap(err, "execute album tracks query")
	}
	if err := loadTrackCollaborators(ctx, q, tracks); err != nil {
		return err
	}

	byAlbum := make(map[int64][]cl.Track, len(albums))
	for _, t := range tracks {
		byAlbum[t.AlbumID] = append(byAlbum[t.AlbumID], t)
	}
	for i := range albums {
		albums[i].Tracks = byAlbum[albums[i].ID]
		if albums[i].Tracks == nil {
			albums[i].Tracks = []cl.Track{}
		}
		albums[i].Collaborators = cl.AlbumCollaborators(albums[i].Tracks)
	}
	return nil
}

func sortTracks(tracks []cl.Track) {
	sort.SliceStable(tracks, func(i, j int) bool {
		if tracks[i].Index != tracks[j].Index {
			return tracks[i].Index < tracks[j].Index
		}
		return tracks[i].ID < tracks[j].ID
	})
}
