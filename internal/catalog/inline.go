package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Older backends embed option labels in the item name as a trailing
// parenthetical instead of structured fields. These helpers recover them for
// display as chips on the order cards.

var mlPattern = regexp.MustCompile(`(?i)(\d{2,3})\s*мл`)

// SplitInlineOptions splits "Латте (Большой; Кокосовое)" into the base name
// and the labels inside the last parenthetical. Names without a parenthetical
// come back unchanged with no labels.
func SplitInlineOptions(raw string) (base string, labels []string) {
	s := strings.TrimSpace(raw)
	open := strings.LastIndex(s, "(")
	close := strings.LastIndex(s, ")")
	if open == -1 || close == -1 || close < open {
		return s, nil
	}
	base = strings.TrimRight(strings.TrimSpace(s[:open]), "·-–—,:; ")
	if base == "" {
		base = s
	}
	inside := s[open+1 : close]
	for _, part := range strings.FieldsFunc(inside, func(r rune) bool { return r == ';' || r == ',' }) {
		if p := strings.TrimSpace(part); p != "" {
			labels = append(labels, p)
		}
	}
	return base, labels
}

// SortOptionLabels deduplicates labels and orders serving-size labels first,
// smallest volume leading; everything else sorts alphabetically after.
func SortOptionLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	var sizes, rest []string
	for _, raw := range labels {
		label := strings.Join(strings.Fields(raw), " ")
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		if mlPattern.MatchString(label) {
			sizes = append(sizes, label)
		} else {
			rest = append(rest, label)
		}
	}
	sort.Slice(sizes, func(i, j int) bool {
		return labelVolume(sizes[i]) < labelVolume(sizes[j])
	})
	sort.Strings(rest)
	return append(sizes, rest...)
}

func labelVolume(label string) int {
	m := mlPattern.FindStringSubmatch(label)
	if m == nil {
		return 999
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 999
	}
	return n
}
