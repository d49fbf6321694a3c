package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	cl "spotifake/pkg/catalog"
)

const tableTracks = "tracks"

const (
	tracksColumnID        = `"id"`
	tracksColumnArtistID  = `"artist_id"`
	tracksColumnAlbumID   = `"album_id"`
	tracksColumnIndex     = `"index"`
	tracksColumnName      = `"name"`
	tracksColumnAudio     = `"audio"`
	tracksColumnCreatedAt = `"created_at"`
	tracksColumnUpdatedAt = `"updated_at"`
)

var tracksColumns = []string{
	tracksColumnID,
	tracksColumnArtistID,
	tracksColumnAlbumID,
	tracksColumnIndex,
	tracksColumnName,
	tracksColumnAudio,
	tracksColumnCreatedAt,
	tracksColumnUpdatedAt,
}

const tableTrackCollaborators = "track_collaborators"

const (
	trackCollaboratorsColumnTrackID  = `"track_id"`
	trackCollaboratorsColumnArtistID = `"artist_id"`
)

// GetTrack returns the track if its album is visible.
func (p *Postgres) GetTrack(ctx context.Context, id int64, v cl.Visibility) (cl.Track, error) {
	var r []cl.Track
	qv, err := buildGetTrackQuery(id, v)
	if err != nil {
		return cl.Track{}, errors.Wrap(err, "build get track query")
	}
	err = p.sqldb.SelectContext(ctx, &r, qv.query, qv.args...)
	if err != nil {
		return cl.Track{}, errors.Wrap(err, "execute get track query")
	}

	// If not rows are found, return a 404.
	if len(r) == 0 {
		return cl.Track{}, cl.ErrNotFound
	}

	if err := loadTrackCollaborators(ctx, p.sqldb, r); err != nil {
		return cl.Track{}, err
	}
	return r[0], nil
}

func buildGetTrackQuery(id int64, v cl.Visibility) (QueryValues, error) {
	b := psql.
		Select(tableColumns(tableTracks, tracksColumns)...).
		From(tableTracks).
		Where(sq.Eq{tableColumn(tableTracks, tracksColumnID): id})
	if v.Restricted {
		b = b.
			Join(tableAlbums + " ON " + tableColumn(tableAlbums, albumsColumnID) + " = " + tableColumn(tableTracks, tracksColumnAlbumID)).
			Where(releasedBy(v))
	}
	q, args, err := b.ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "get track build query into SQL string")
}

// UpdateTrack edits the track's fields. When Collaborators is set the whole
// collaborator set is replaced.
func (p *Postgres) UpdateTrack(ctx context.Context, req cl.UpdateTrackRequest) (cl.Track, error) {
	var track cl.Track
	err := p.withTx(ctx, func(tx *sqlx.Tx) error {
		if req.Collaborators != nil {
			ids := *req.Collaborators
			found, err := existingArtistIDs(ctx, tx, ids)
			if err != nil {
				return err
			}
			v := &cl.ValidationError{}
			for _, id := range missingIDs(ids, found) {
				v.Add("collaborators", cl.MsgUnknownPK(id))
			}
			if err := v.Err(); err != nil {
				return err
			}
		}

		b := psql.
			Update(tableTracks).
			Set(tracksColumnUpdatedAt, sq.Expr("NOW()")).
			Where(sq.Eq{tracksColumnID: req.ID}).
			Suffix(returning(tracksColumns))
		if req.Visibility.Restricted {
			visible := psql.
				Select(tableColumn(tableAlbums, albumsColumnID)).
				From(tableAlbums).
				Where(releasedBy(req.Visibility))
			sub, subArgs, err := visible.PlaceholderFormat(sq.Question).ToSql()
			if err != nil {
				return errors.Wrap(err, "build visible albums query")
			}
			b = b.Where(sq.Expr(tracksColumnAlbumID+" IN ("+sub+")", subArgs...))
		}
		if req.Index.Valid {
			b = b.Set(tracksColumnIndex, req.Index.Int64)
		}
		if req.Name.Valid {
			b = b.Set(tracksColumnName, req.Name.String)
		}
		if req.Audio.Valid {
			b = b.Set(tracksColumnAudio, req.Audio.String)
		}
		q, args, err := b.ToSql()
		if err != nil {
			return errors.Wrap(err, "build update track query")
		}

		var r []cl.Track
		if err := tx.SelectContext(ctx, &r, q, args...); err != nil {
			return errors.Wrap(err, "execute update track query")
		}
		if len(r) == 0 {
			return cl.ErrNotFound
		}

		if req.Collaborators != nil {
			if err := replaceTrackCollaborators(ctx, tx, r[0].ID, *req.Collaborators); err != nil {
				return err
			}
		}
		if err := loadTrackCollaborators(ctx, tx, r[:1]); err != nil {
			return err
		}
		track = r[0]
		return nil
	})
	if err != nil {
		return cl.Track{}, err
	}
	return track, nil
}

// insertTrack stores a track of album, owned by the album's artist, together
// with its collaborator links.
func insertTrack(ctx context.Context, tx *sqlx.Tx, album cl.Album, req cl.CreateTrackRequest) (cl.Track, error) {
	q, args, err := psql.
		Insert(tableTracks).
		Columns(tracksColumnArtistID, tracksColumnAlbumID, tracksColumnIndex, tracksColumnName, tracksColumnAudio).
		Values(album.ArtistID, album.ID, req.Index, req.Name, req.Audio).
		Suffix(returning(tracksColumns)).
		ToSql()
	if err != nil {
		return cl.Track{}, errors.Wrap(err, "build create track query")
	}

	var t cl.Track
	if err := tx.GetContext(ctx, &t, q, args...); err != nil {
		return cl.Track{}, errors.Wrap(err, "execute create track query")
	}
	if err := insertTrackCollaborators(ctx, tx, t.ID, req.Collaborators); err != nil {
		return cl.Track{}, err
	}
	t.Collaborators = append([]int64{}, req.Collaborators...)
	return t, nil
}

func insertTrackCollaborators(ctx context.Context, tx *sqlx.Tx, trackID int64, artistIDs []int64) error {
	if len(artistIDs) == 0 {
		return nil
	}
	b := psql.
		Insert(tableTrackCollaborators).
		Columns(trackCollaboratorsColumnTrackID, trackCollaboratorsColumnArtistID).
		Suffix("ON CONFLICT DO NOTHING")
	for _, id := range artistIDs {
		b = b.Values(trackID, id)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "build create track collaborators query")
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return errors.Wrap(err, "execute create track collaborators query")
	}
	return nil
}

func replaceTrackCollaborators(ctx context.Context, tx *sqlx.Tx, trackID int64, artistIDs []int64) error {
	q, args, err := psql.
		Delete(tableTrackCollaborators).
		Where(sq.Eq{trackCollaboratorsColumnTrackID: trackID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete track collaborators query")
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return errors.Wrap(err, "execute delete track collaborators query")
	}
	return insertTrackCollaborators(ctx, tx, trackID, artistIDs)
}

type trackCollaboratorRow struct {
	TrackID  int64 `db:"track_id"`
	ArtistID int64 `db:"artist_id"`
}

// loadTrackCollaborators fills Collaborators of every track with one query.
func loadTrackCollaborators(ctx context.Context, q sqlx.QueryerContext, tracks []cl.Track) error {
	if len(tracks) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ID)
	}

	query, args, err := psql.
		Select(trackCollaboratorsColumnTrackID, trackCollaboratorsColumnArtistID).
		From(tableTrackCollaborators).
		Where(sq.Eq{trackCollaboratorsColumnTrackID: ids}).
		OrderBy(trackCollaboratorsColumnTrackID, trackCollaboratorsColumnArtistID).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build track collaborators query")
	}
	var rows []trackCollaboratorRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return errors.Wrap(err, "execute track collaborators query")
	}

	byTrack := make(map[int64][]int64, len(tracks))
	for _, r := range rows {
		byTrack[r.TrackID] = append(byTrack[r.TrackID], r.ArtistID)
	}
	for i := range tracks {
		tracks[i].Collaborators = byTrack[tracks[i].ID]
		if tracks[i].Collaborators == nil {
			tracks[i].Collaborators = []int64{}
		}
	}
	return nil
}
