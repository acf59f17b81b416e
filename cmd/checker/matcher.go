package checker

// MatchFields pairs the two catalogs by exact field name. Each name on
// either side appears in exactly one match. Output order follows the
// TTree catalog, then any RNTuple-only fields in their catalog order.
func MatchFields(tree, ntuple []FieldDescriptor) []FieldMatch {
	byName := make(map[string]int, len(ntuple))
	for i := range ntuple {
		// First occurrence wins when a name repeats
		if _, seen := byName[ntuple[i].Name]; !seen {
			byName[ntuple[i].Name] = i
		}
	}

	consumed := make([]bool, len(ntuple))
	matches := make([]FieldMatch, 0, len(tree)+len(ntuple))

	for i := range tree {
		m := FieldMatch{Tree: &tree[i]}
		if j, ok := byName[tree[i].Name]; ok && !consumed[j] {
			m.NTuple = &ntuple[j]
			consumed[j] = true
		}
		matches = append(matches, m)
	}

	for j := range ntuple {
		if !consumed[j] {
			matches = append(matches, FieldMatch{NTuple: &ntuple[j]})
		}
	}

	return matches
}
