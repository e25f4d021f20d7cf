package ids

import "strings"

// NormalizeUniqueIDs lowercases IDs and drops empty and duplicate entries.
func NormalizeUniqueIDs(ids []string) []string {
	uniqueIDs := make([]string, 0, len(ids))
	seen := make(map[string]bool)
	for _, id := range ids {
		idLower := strings.ToLower(id)
		if idLower == "" || seen[idLower] {
			continue
		}
		seen[idLower] = true
		uniqueIDs = append(uniqueIDs, idLower)
	}
	return uniqueIDs
}

// UniquePrefixLengths returns the shortest unique prefix length for each ID.
func UniquePrefixLengths(ids []string) map[string]int {
	return UniquePrefixLengthsNormalized(NormalizeUniqueIDs(ids))
}

// UniquePrefixLengthsNormalized is UniquePrefixLengths for IDs that are
// already lowercased and deduplicated.
func UniquePrefixLengthsNormalized(ids []string) map[string]int {
	lengths := make(map[string]int, len(ids))
	for _, id := range ids {
		lengths[id] = uniquePrefixLength(id, ids)
	}
	return lengths
}

// MatchPrefix finds the ID starting with prefix, ignoring case, and returns it
// with its original casing. An exact match wins, then a case-insensitive one,
// then a unique prefix.
func MatchPrefix(ids []string, prefix string) (match string, found bool, ambiguous bool) {
	for _, id := range ids {
		if id == prefix {
			return id, true, false
		}
	}
	prefixLower := strings.ToLower(prefix)
	for _, exact := range []bool{true, false} {
		for _, id := range ids {
			idLower := strings.ToLower(id)
			if (exact && idLower != prefixLower) || !strings.HasPrefix(idLower, prefixLower) {
				continue
			}
			if found && id != match {
				return "", true, true
			}
			match = id
			found = true
		}
		if found {
			return match, true, false
		}
	}
	return "", false, false
}

// uniquePrefixLength is one more than the longest prefix id shares with any
// other ID, capped at len(id).
func uniquePrefixLength(id string, ids []string) int {
	shared := 0
	for _, other := range ids {
		if other == id {
			continue
		}
		shared = max(shared, commonPrefixLength(id, other))
	}
	return min(shared+1, len(id))
}

func commonPrefixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
