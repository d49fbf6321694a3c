package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	cl "spotifake/pkg/catalog"
)

const tableArtists = "artists"

const (
	artistsColumnID        = `"id"`
	artistsColumnName      = `"name"`
	artistsColumnCreatedAt = `"created_at"`
	artistsColumnUpdatedAt = `"updated_at"`
)

var artistsColumns = []string{
	artistsColumnID,
	artistsColumnName,
	artistsColumnCreatedAt,
	artistsColumnUpdatedAt,
}

func (p *Postgres) ListArtists(ctx context.Context) ([]cl.Artist, error) {
	r := []cl.Artist{}
	qv, err := buildListArtistsQuery()
	if err != nil {
		return nil, errors.Wrap(err, "build list artists query")
	}
	err = p.sqldb.SelectContext(ctx, &r, qv.query, qv.args...)
	if err != nil {
		return nil, errors.Wrap(err, "execute list artists query")
	}

	if err := loadRelatedArtists(ctx, p.sqldb, r); err != nil {
		return nil, err
	}
	return r, nil
}

func buildListArtistsQuery() (QueryValues, error) {
	q, args, err := psql.
		Select(tableColumns(tableArtists, artistsColumns)...).
		From(tableArtists).
		OrderBy(tableColumn(tableArtists, artistsColumnID)).
		ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "list artists build query into SQL string")
}

func (p *Postgres) GetArtist(ctx context.Context, id int64) (cl.Artist, error) {
	var r []cl.Artist
	qv, err := buildGetArtistQuery(id)
	if err != nil {
		return cl.Artist{}, errors.Wrap(err, "build get artist query")
	}
	err = p.sqldb.SelectContext(ctx, &r, qv.query, qv.args...)
	if err != nil {
		return cl.Artist{}, errors.Wrap(err, "execute get artist query")
	}

	// If not rows are found, return a 404.
	if len(r) == 0 {
		return cl.Artist{}, cl.ErrNotFound
	}

	if err := loadRelatedArtists(ctx, p.sqldb, r); err != nil {
		return cl.Artist{}, err
	}
	return r[0], nil
}

func buildGetArtistQuery(id int64) (QueryValues, error) {
	q, args, err := psql.
		Select(tableColumns(tableArtists, artistsColumns)...).
		From(tableArtists).
		Where(sq.Eq{tableColumn(tableArtists, artistsColumnID): id}).
		ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "get artist build query into SQL string")
}

func (p *Postgres) CreateArtist(ctx context.Context, req cl.CreateArtistRequest) (cl.Artist, error) {
	q, args, err := psql.
		Insert(tableArtists).
		Columns(artistsColumnName).
		Values(req.Name).
		Suffix(returning(artistsColumns)).
		ToSql()
	if err != nil {
		return cl.Artist{}, errors.Wrap(err, "build create artist query")
	}

	var a cl.Artist
	if err := p.sqldb.GetContext(ctx, &a, q, args...); err != nil {
		return cl.Artist{}, errors.Wrap(err, "execute create artist query")
	}
	// A new artist has no tracks, hence no relations.
	a.RelatedArtists = []cl.ArtistRef{}
	return a, nil
}

func (p *Postgres) UpdateArtist(ctx context.Context, req cl.UpdateArtistRequest) (cl.Artist, error) {
	b := psql.
		Update(tableArtists).
		Set(artistsColumnUpdatedAt, sq.Expr("NOW()")).
		Where(sq.Eq{artistsColumnID: req.ID}).
		Suffix(returning(artistsColumns))
	if req.Name.Valid {
		b = b.Set(artistsColumnName, req.Name.String)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return cl.Artist{}, errors.Wrap(err, "build update artist query")
	}

	var r []cl.Artist
	if err := p.sqldb.SelectContext(ctx, &r, q, args...); err != nil {
		return cl.Artist{}, errors.Wrap(err, "execute update artist query")
	}
	if len(r) == 0 {
		return cl.Artist{}, cl.ErrNotFound
	}

	if err := loadRelatedArtists(ctx, p.sqldb, r); err != nil {
		return cl.Artist{}, err
	}
	return r[0], nil
}

// DeleteArtist removes the artist together with its albums, tracks and
// collaborator links.
func (p *Postgres) DeleteArtist(ctx context.Context, id int64) error {
	q, args, err := psql.
		Delete(tableArtists).
		Where(sq.Eq{artistsColumnID: id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete artist query")
	}

	res, err := p.sqldb.ExecContext(ctx, q, args...)
	if err != nil {
		return errors.Wrap(err, "execute delete artist query")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete artist rows affected")
	}
	if n == 0 {
		return cl.ErrNotFound
	}
	return nil
}

type relatedArtistRow struct {
	SubjectID int64  `db:"subject_id"`
	ID        int64  `db:"id"`
	Name      string `db:"name"`
}

// loadRelatedArtists fills RelatedArtists of every artist with two queries:
// the owners of the tracks each artist collaborates on, and the collaborators
// on the tracks each artist owns.
func loadRelatedArtists(ctx context.Context, q sqlx.QueryerContext, artists []cl.Artist) error {
	if len(artists) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(artists))
	for _, a := range artists {
		ids = append(ids, a.ID)
	}

	var owners []relatedArtistRow
	qv, err := buildTrackOwnersQuery(ids)
	if err != nil {
		return errors.Wrap(err, "build track owners query")
	}
	if err := sqlx.SelectContext(ctx, q, &owners, qv.query, qv.args...); err != nil {
		return errors.Wrap(err, "execute track owners query")
	}

	var collaborators []relatedArtistRow
	qv, err = buildTrackCollaboratorsQuery(ids)
	if err != nil {
		return errors.Wrap(err, "build track collaborators query")
	}
	if err := sqlx.SelectContext(ctx, q, &collaborators, qv.query, qv.args...); err != nil {
		return errors.Wrap(err, "execute track collaborators query")
	}

	ownersBySubject := groupRelated(owners)
	collaboratorsBySubject := groupRelated(collaborators)
	for i := range artists {
		id := artists[i].ID
		artists[i].RelatedArtists = cl.RelatedArtists(ownersBySubject[id], collaboratorsBySubject[id])
	}
	return nil
}

func groupRelated(rows []relatedArtistRow) map[int64][]cl.ArtistRef {
	res := make(map[int64][]cl.ArtistRef)
	for _, r := range rows {
		res[r.SubjectID] = append(res[r.SubjectID], cl.ArtistRef{ID: r.ID, Name: r.Name})
	}
	return res
}

// buildTrackOwnersQuery selects, for each subject artist, the owners of the
// tracks the subject collaborates on.
func buildTrackOwnersQuery(subjects []int64) (QueryValues, error) {
	q, args, err := psql.
		Select(
			tableColumn(tableTrackCollaborators, trackCollaboratorsColumnArtistID)+" AS subject_id",
			tableColumn(tableArtists, artistsColumnID),
			tableColumn(tableArtists, artistsColumnName),
		).
		Distinct().
		From(tableTrackCollaborators).
		Join(tableTracks + " ON " + tableColumn(tableTracks, tracksColumnID) + " = " + tableColumn(tableTrackCollaborators, trackCollaboratorsColumnTrackID)).
		Join(tableArtists + " ON " + tableColumn(tableArtists, artistsColumnID) + " = " + tableColumn(tableTracks, tracksColumnArtistID)).
		Where(sq.Eq{tableColumn(tableTrackCollaborators, trackCollaboratorsColumnArtistID): subjects}).
		ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "track owners build query into SQL string")
}

// buildTrackCollaboratorsQuery selects, for each subject artist, the
// collaborators on the tracks the subject owns.
func buildTrackCollaboratorsQuery(subjects []int64) (QueryValues, error) {
	q, args, err := psql.
		Select(
			tableColumn(tableTracks, tracksColumnArtistID)+" AS subject_id",
			tableColumn(tableArtists, artistsColumnID),
			tableColumn(tableArtists, artistsColumnName),
		).
		Distinct().
		From(tableTracks).
		Join(tableTrackCollaborators + " ON " + tableColumn(tableTrackCollaborators, trackCollaboratorsColumnTrackID) + " = " + tableColumn(tableTracks, tracksColumnID)).
		Join(tableArtists + " ON " + tableColumn(tableArtists, artistsColumnID) + " = " + tableColumn(tableTrackCollaborators, trackCollaboratorsColumnArtistID)).
		Where(sq.Eq{tableColumn(tableTracks, tracksColumnArtistID): subjects}).
		ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "track collaborators build query into SQL string")
}

// existingArtistIDs returns which of ids are stored artists.
func existingArtistIDs(ctx context.Context, q sqlx.QueryerContext, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := psql.
		Select(tableColumn(tableArtists, artistsColumnID)).
		From(tableArtists).
		Where(sq.Eq{tableColumn(tableArtists, artistsColumnID): ids}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build existing artists query")
	}

	var found []int64
	if err := sqlx.SelectContext(ctx, q, &found, query, args...); err != nil {
		return nil, errors.Wrap(err, "execute existing artists query")
	}
	return found, nil
}
