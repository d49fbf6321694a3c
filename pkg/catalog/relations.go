package catalog

import "sort"

// RelatedArtists returns the artists an artist has worked with: the owners of
// tracks it collaborates on, plus the collaborators on tracks it owns. The
// result is deduplicated by ID and sorted by ID.
func RelatedArtists(owners, collaborators []ArtistRef) []ArtistRef {
	seen := make(map[int64]bool, len(owners)+len(collaborators))
	res := make([]ArtistRef, 0, len(owners)+len(collaborators))
	for _, group := range [][]ArtistRef{owners, collaborators} {
		for _, a := range group {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			res = append(res, a)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// AlbumCollaborators returns the union of the collaborator sets of tracks,
// sorted by ID.
func AlbumCollaborators(tracks []Track) []int64 {
	ids := make([]int64, 0)
	for _, t := range tracks {
		ids = append(ids, t.Collaborators...)
	}
	return uniqueIDs(ids)
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	res := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		res = append(res, id)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
