package http

import (
	"net/http"

	"spotifake/internal/media"
	cl "spotifake/pkg/catalog"
)

// GetTrack gets the details of the track matching the id. Tracks of unreleased
// albums are reported as missing to non staff callers.
func (h *Handler) GetTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.TrackStore.GetTrack(ctx, pathID(r), h.visibility(callerFrom(ctx)))
	if err != nil {
		h.writeError(w, r, "[GetTrack]", err)
		return
	}
	writeOne(w, r, toTrackRes(res, h.mediaBase(r)), http.StatusOK)
}

// UpdateTrack handles both PUT and PATCH. A provided collaborators list
// replaces the whole set.
func (h *Handler) UpdateTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := callerFrom(ctx)
	if err := authorizeWrite(caller); err != nil {
		h.writeError(w, r, "[UpdateTrack]", err)
		return
	}

	id := pathID(r)
	vis := h.visibility(caller)
	if _, err := h.TrackStore.GetTrack(ctx, id, vis); err != nil {
		h.writeError(w, r, "[UpdateTrack]", err)
		return
	}

	var p cl.TrackPayload
	if err := decodeBody(r, &p); err != nil {
		h.writeError(w, r, "[UpdateTrack]", err)
		return
	}
	v := &cl.ValidationError{}
	p.Validate(v, isPartial(r))

	req := cl.UpdateTrackRequest{
		ID:         id,
		Visibility: vis,
		Index:      p.Index,
		Name:       p.Name,
	}
	if p.Collaborators != nil {
		ids := p.CollaboratorIDs()
		req.Collaborators = &ids
	}
	var uploads []media.Upload
	if p.Audio.Valid && p.Audio.String != "" {
		if u, ok := decodeMedia(v, media.Audio, "audio", p.Audio.String); ok {
			req.Audio.SetValid(u.Name)
			uploads = append(uploads, u)
		}
	}
	if err := v.Err(); err != nil {
		h.writeError(w, r, "[UpdateTrack]", err)
		return
	}

	if err := media.SaveAll(ctx, h.Media, uploads); err != nil {
		h.writeError(w, r, "[UpdateTrack]", err)
		return
	}
	res, err := h.TrackStore.UpdateTrack(ctx, req)
	if err != nil {
		h.discardMedia(ctx, "[UpdateTrack]", []string{req.Audio.String})
		h.writeError(w, r, "[UpdateTrack]", err)
		return
	}
	writeOne(w, r, toTrackRes(res, h.mediaBase(r)), http.StatusOK)
}
