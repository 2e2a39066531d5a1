// Package namer derives human-readable titles for composed videos from the
// keywords their segments were attributed to.
package namer

import (
	"sort"
	"strings"
)

// Namer builds "A vs B" titles plus category hashtags. The keyword→category
// table is injected so alternate vocabularies can be swapped in.
type Namer struct {
	associations map[string]string
}

func New(associations map[string]string) *Namer {
	return &Namer{associations: associations}
}

const markerTag = "#animebattle"

// CreateTitle joins the distinct keywords in first-seen order with " vs "
// and appends the tag set in lexicographic order. Keywords without a
// category contribute no extra tags. When forFilename is set, underscores
// are swapped for '#' so the name survives the unit-filename field
// separator.
func (n *Namer) CreateTitle(keywords []string, forFilename bool) string {
	var seen []string
	tags := map[string]bool{markerTag: true}

	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if contains(seen, kw) {
			continue
		}
		seen = append(seen, kw)
		if assoc := n.associations[kw]; assoc != "" {
			tags["#"+assoc+" #"+kw] = true
		}
	}

	sorted := make([]string, 0, len(tags))
	for t := range tags {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)

	full := strings.Join(seen, " vs ") + " " + strings.Join(sorted, " ")
	if forFilename {
		return strings.ReplaceAll(full, "_", "#")
	}
	return full
}

// SafeFileName replaces every rune outside the filename allow-list with an
// underscore.
func SafeFileName(title string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_' || r == '#':
			return r
		default:
			return '_'
		}
	}, title)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
