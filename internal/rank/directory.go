package rank

import "strings"

const (
	// UnknownName is the sentinel canonical rank for strings the
	// directory cannot resolve. Unknown staff stay selectable as
	// relievers, they just sort behind every resolvable rank.
	UnknownName = "UNKNOWN"

	// UnknownLevel sits outside the normal level range.
	UnknownLevel = -1

	// UnknownDistance is large but finite so unknown-rank candidates
	// order after any real rank distance without being excluded.
	UnknownDistance = 1 << 20
)

// Directory is an immutable snapshot of a company's rank hierarchy plus
// alias table. Build one per evaluation; never mutate shared state.
type Directory struct {
	levels  map[string]int    // normalized canonical name -> level
	display map[string]string // normalized canonical name -> display name
	aliases map[string]string // normalized alias -> normalized canonical name
}

// Normalize is the matching form for rank strings: trimmed, case-folded,
// inner whitespace collapsed.
func Normalize(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

func NewDirectory(ranks []Rank, aliases []Alias) *Directory {
	d := &Directory{
		levels:  make(map[string]int, len(ranks)),
		display: make(map[string]string, len(ranks)),
		aliases: make(map[string]string, len(aliases)),
	}
	for _, r := range ranks {
		key := Normalize(r.Name)
		d.levels[key] = r.Level
		d.display[key] = r.Name
	}
	for _, a := range aliases {
		target := Normalize(a.RankName)
		if _, ok := d.levels[target]; !ok {
			// alias pointing at a rank that no longer exists
			continue
		}
		d.aliases[Normalize(a.Value)] = target
	}
	return d
}

// Canonicalize resolves a raw rank string to its canonical name and
// level. Unresolved input is not an error: it returns the UNKNOWN
// sentinel with resolved=false and the caller proceeds.
func (d *Directory) Canonicalize(raw string) (canonical string, level int, resolved bool) {
	key := Normalize(raw)
	if key == "" {
		return UnknownName, UnknownLevel, false
	}
	if lvl, ok := d.levels[key]; ok {
		return d.display[key], lvl, true
	}
	if target, ok := d.aliases[key]; ok {
		return d.display[target], d.levels[target], true
	}
	return UnknownName, UnknownLevel, false
}

// Len reports the number of canonical ranks in the snapshot.
func (d *Directory) Len() int {
	return len(d.levels)
}

// Distance is the rank proximity metric: absolute level difference, or
// UnknownDistance when either side is unresolved.
func Distance(a, b int) int {
	if a == UnknownLevel || b == UnknownLevel {
		return UnknownDistance
	}
	if a > b {
		return a - b
	}
	return b - a
}
