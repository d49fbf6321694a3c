package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/twitsprout/tools/requestid"
	"gopkg.in/guregu/null.v3"

	"spotifake/internal/media"
	cl "spotifake/pkg/catalog"
)

// ListAlbums lists the albums visible to the caller.
func (h *Handler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.AlbumStore.ListAlbums(ctx, cl.ListAlbumsRequest{
		Visibility: h.visibility(callerFrom(ctx)),
	})
	if err != nil {
		h.writeError(w, r, "[ListAlbums]", err)
		return
	}
	writeList(w, r, albumsEnvelope, toAlbumsRes(res, h.mediaBase(r)))
}

// GetAlbum gets the details of the album matching the id. Unreleased albums
// are reported as missing to non staff callers.
func (h *Handler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.AlbumStore.GetAlbum(ctx, pathID(r), h.visibility(callerFrom(ctx)))
	if err != nil {
		h.writeError(w, r, "[GetAlbum]", err)
		return
	}
	writeOne(w, r, toAlbumRes(res, h.mediaBase(r)), http.StatusOK)
}

// CreateAlbum creates an album together with its tracks. Every field,
// including the nested media, is validated before anything is stored.
func (h *Handler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	if err := authorizeWrite(callerFrom(r.Context())); err != nil {
		h.writeError(w, r, "[CreateAlbum]", err)
		return
	}
	h.serveCreateAlbum(w, r, "[CreateAlbum]", 0)
}

// CreateArtistAlbum creates an album for the artist in the path. An artist
// given in the body is replaced by it.
func (h *Handler) CreateArtistAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := authorizeWrite(callerFrom(ctx)); err != nil {
		h.writeError(w, r, "[CreateArtistAlbum]", err)
		return
	}

	artist, err := h.ArtistStore.GetArtist(ctx, pathID(r))
	if err != nil {
		h.writeError(w, r, "[CreateArtistAlbum]", err)
		return
	}
	h.serveCreateAlbum(w, r, "[CreateArtistAlbum]", artist.ID)
}

// serveCreateAlbum decodes, validates and stores the album in the body of r.
// A non zero artistID overrides the artist of the payload.
func (h *Handler) serveCreateAlbum(w http.ResponseWriter, r *http.Request, label string, artistID int64) {
	ctx := r.Context()

	var p cl.AlbumPayload
	if err := decodeBody(r, &p); err != nil {
		h.writeError(w, r, label, err)
		return
	}
	if artistID != 0 {
		p.Artist = null.IntFrom(artistID)
	}
	req, uploads, err := parseCreateAlbumRequest(p)
	if err != nil {
		h.writeError(w, r, label, err)
		return
	}

	res, err := h.createAlbum(ctx, req, uploads)
	if err != nil {
		h.writeError(w, r, label, err)
		return
	}
	writeOne(w, r, toAlbumRes(res, h.mediaBase(r)), http.StatusCreated)
}

// createAlbum stores the media first and then the album graph. If the graph
// cannot be stored the media are removed again.
func (h *Handler) createAlbum(ctx context.Context, req cl.CreateAlbumRequest, uploads []media.Upload) (cl.Album, error) {
	if err := media.SaveAll(ctx, h.Media, uploads); err != nil {
		return cl.Album{}, err
	}
	res, err := h.AlbumStore.CreateAlbum(ctx, req)
	if err != nil {
		h.discardMedia(ctx, "[CreateAlbum]", req.MediaNames())
		return cl.Album{}, err
	}
	return res, nil
}

func (h *Handler) discardMedia(ctx context.Context, label string, names []string) {
	if err := media.DeleteAll(ctx, h.Media, names); err != nil {
		h.Logger.Error(label+" unable to remove stored media",
			"request_id", requestid.Get(ctx),
			"details", err.Error(),
		)
	}
}

func parseCreateAlbumRequest(p cl.AlbumPayload) (cl.CreateAlbumRequest, []media.Upload, error) {
	v := &cl.ValidationError{}
	p.ValidateCreate(v)

	var uploads []media.Upload
	req := cl.CreateAlbumRequest{
		ArtistID: p.Artist.Int64,
		Name:     p.Name.String,
	}
	if d, err := cl.ParseDate(p.ReleaseDate.String); err == nil {
		req.ReleaseDate = d
	}
	if p.Cover.Valid && p.Cover.String != "" {
		if u, ok := decodeMedia(v, media.Image, "cover", p.Cover.String); ok {
			req.Cover = u.Name
			uploads = append(uploads, u)
		}
	}

	if p.Tracks != nil {
		for i, t := range *p.Tracks {
			tr := cl.CreateTrackRequest{
				Index:         int(t.Index.Int64),
				Name:          t.Name.String,
				Collaborators: t.CollaboratorIDs(),
			}
			if t.Audio.Valid && t.Audio.String != "" {
				field := "tracks." + strconv.Itoa(i) + ".audio"
				if u, ok := decodeMedia(v, media.Audio, field, t.Audio.String); ok {
					tr.Audio = u.Name
					uploads = append(uploads, u)
				}
			}
			req.Tracks = append(req.Tracks, tr)
		}
	}

	if err := v.Err(); err != nil {
		return cl.CreateAlbumRequest{}, nil, err
	}
	return req, uploads, nil
}

// decodeMedia decodes payload with c, recording a failure against field in v.
func decodeMedia(v *cl.ValidationError, c media.Codec, field, payload string) (media.Upload, bool) {
	u, err := c.Decode(field, payload)
	if err != nil {
		var verr *cl.ValidationError
		if errors.As(err, &verr) {
			v.Merge("", verr)
		} else {
			v.Add(field, err.Error())
		}
		return media.Upload{}, false
	}
	return u, true
}

// UpdateAlbum handles both PUT and PATCH. Only the album's own fields can be
// changed; tracks are edited through their own endpoint.
func (h *Handler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := callerFrom(ctx)
	if err := authorizeWrite(caller); err != nil {
		h.writeError(w, r, "[UpdateAlbum]", err)
		return
	}

	id := pathID(r)
	vis := h.visibility(caller)
	if _, err := h.AlbumStore.GetAlbum(ctx, id, vis); err != nil {
		h.writeError(w, r, "[UpdateAlbum]", err)
		return
	}

	var p cl.AlbumPayload
	if err := decodeBody(r, &p); err != nil {
		h.writeError(w, r, "[UpdateAlbum]", err)
		return
	}
	v := &cl.ValidationError{}
	p.ValidateUpdate(v, isPartial(r))

	req := cl.UpdateAlbumRequest{
		ID:          id,
		Visibility:  vis,
		ArtistID:    p.Artist,
		Name:        p.Name,
		ReleaseDate: p.Release(),
	}
	var uploads []media.Upload
	if p.Cover.Valid && p.Cover.String != "" {
		if u, ok := decodeMedia(v, media.Image, "cover", p.Cover.String); ok {
			req.Cover.SetValid(u.Name)
			uploads = append(uploads, u)
		}
	}
	if err := v.Err(); err != nil {
		h.writeError(w, r, "[UpdateAlbum]", err)
		return
	}

	if err := media.SaveAll(ctx, h.Media, uploads); err != nil {
		h.writeError(w, r, "[UpdateAlbum]", err)
		return
	}
	res, err := h.AlbumStore.UpdateAlbum(ctx, req)
	if err != nil {
		h.discardMedia(ctx, "[UpdateAlbum]", []string{req.Cover.String})
		h.writeError(w, r, "[UpdateAlbum]", err)
		return
	}
	writeOne(w, r, toAlbumRes(res, h.mediaBase(r)), http.StatusOK)
}

// DeleteAlbum removes the album and its tracks.
func (h *Handler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := callerFrom(ctx)
	if err := authorizeWrite(caller); err != nil {
		h.writeError(w, r, "[DeleteAlbum]", err)
		return
	}

	if err := h.AlbumStore.DeleteAlbum(ctx, pathID(r), h.visibility(caller)); err != nil {
		h.writeError(w, r, "[DeleteAlbum]", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
