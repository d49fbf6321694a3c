package postgres

import (
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"

	cl "spotifake/pkg/catalog"
)

func tableColumn(table, column string) string {
	return fmt.Sprintf("%s.%s", table, column)
}

func tableColumns(table string, columns []string) []string {
	cs := make([]string, 0, len(columns))
	for _, c := range columns {
		cs = append(cs, tableColumn(table, c))
	}
	return cs
}

// returning renders a RETURNING suffix for the given columns.
func returning(columns []string) string {
	s := "RETURNING "
	for i, c := range columns {
		if i > 0 {
			s += ", "
		}
		s += c
	}
	return s
}

// releasedBy matches the albums released on or before the visibility's day.
// It must only be applied when v.Restricted is set.
func releasedBy(v cl.Visibility) sq.Sqlizer {
	return sq.LtOrEq{tableColumn(tableAlbums, albumsColumnReleaseDate): v.Today}
}

// missingIDs returns the ids of want that are not in have, sorted.
func missingIDs(want, have []int64) []int64 {
	found := make(map[int64]bool, len(have))
	for _, id := range have {
		found[id] = true
	}
	var res []int64
	for _, id := range want {
		if !found[id] {
			res = append(res, id)
			found[id] = true
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
