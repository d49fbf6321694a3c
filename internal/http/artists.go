package http

import (
	"net/http"

	cl "spotifake/pkg/catalog"
)

// ListArtists lists every artist with its related artists.
func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.ArtistStore.ListArtists(ctx)
	if err != nil {
		h.writeError(w, r, "[ListArtists]", err)
		return
	}
	writeList(w, r, artistsEnvelope, toArtistsRes(res))
}

// GetArtist gets the details of the artist matching the id.
func (h *Handler) GetArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.ArtistStore.GetArtist(ctx, pathID(r))
	if err != nil {
		h.writeError(w, r, "[GetArtist]", err)
		return
	}
	writeOne(w, r, toArtistRes(res), http.StatusOK)
}

func (h *Handler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := authorizeWrite(callerFrom(ctx)); err != nil {
		h.writeError(w, r, "[CreateArtist]", err)
		return
	}

	req, err := parseCreateArtistRequest(r)
	if err != nil {
		h.writeError(w, r, "[CreateArtist]", err)
		return
	}

	res, err := h.ArtistStore.CreateArtist(ctx, req)
	if err != nil {
		h.writeError(w, r, "[CreateArtist]", err)
		return
	}
	writeOne(w, r, toArtistRes(res), http.StatusCreated)
}

func parseCreateArtistRequest(r *http.Request) (cl.CreateArtistRequest, error) {
	var p cl.ArtistPayload
	if err := decodeBody(r, &p); err != nil {
		return cl.CreateArtistRequest{}, err
	}
	v := &cl.ValidationError{}
	p.Validate(v, false)
	if err := v.Err(); err != nil {
		return cl.CreateArtistRequest{}, err
	}
	return cl.CreateArtistRequest{Name: p.Name.String}, nil
}

// UpdateArtist handles both PUT and PATCH.
func (h *Handler) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := authorizeWrite(callerFrom(ctx)); err != nil {
		h.writeError(w, r, "[UpdateArtist]", err)
		return
	}

	id := pathID(r)
	if _, err := h.ArtistStore.GetArtist(ctx, id); err != nil {
		h.writeError(w, r, "[UpdateArtist]", err)
		return
	}

	var p cl.ArtistPayload
	if err := decodeBody(r, &p); err != nil {
		h.writeError(w, r, "[UpdateArtist]", err)
		return
	}
	v := &cl.ValidationError{}
	p.Validate(v, isPartial(r))
	if err := v.Err(); err != nil {
		h.writeError(w, r, "[UpdateArtist]", err)
		return
	}

	res, err := h.ArtistStore.UpdateArtist(ctx, cl.UpdateArtistRequest{ID: id, Name: p.Name})
	if err != nil {
		h.writeError(w, r, "[UpdateArtist]", err)
		return
	}
	writeOne(w, r, toArtistRes(res), http.StatusOK)
}

// DeleteArtist removes the artist along with its albums and tracks.
func (h *Handler) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := authorizeWrite(callerFrom(ctx)); err != nil {
		h.writeError(w, r, "[DeleteArtist]", err)
		return
	}

	if err := h.ArtistStore.DeleteArtist(ctx, pathID(r)); err != nil {
		h.writeError(w, r, "[DeleteArtist]", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListArtistAlbums lists the albums of one artist visible to the caller.
func (h *Handler) ListArtistAlbums(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := callerFrom(ctx)

	artist, err := h.ArtistStore.GetArtist(ctx, pathID(r))
	if err != nil {
		h.writeError(w, r, "[ListArtistAlbums]", err)
		return
	}

	res, err := h.AlbumStore.ListAlbums(ctx, cl.ListAlbumsRequest{
		ArtistID:   artist.ID,
		Visibility: h.visibility(caller),
	})
	if err != nil {
		h.writeError(w, r, "[ListArtistAlbums]", err)
		return
	}
	writeList(w, r, albumsEnvelope, toAlbumsRes(res, h.mediaBase(r)))
}
