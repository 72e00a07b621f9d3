package postgres

// reconcileNames resolves a requested name list to row ids for one owner.
// Existing rows are reused via lookup (exact, case-sensitive match); missing
// ones are created via create. Duplicate names collapse to a single id, and
// the returned order follows first appearance so creation order tracks input
// order. The result is the recipe's full target association set.
func reconcileNames(names []string, lookup func(name string) (string, bool), create func(name string) (string, error)) ([]string, error) {
	seen := make(map[string]string, len(names))
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		id, ok := lookup(name)
		if !ok {
			var err error
			id, err = create(name)
			if err != nil {
				return nil, err
			}
		}
		seen[name] = id
		ids = append(ids, id)
	}
	return ids, nil
}

// diffAssociations computes the delta that turns current into target.
// Ids present in both sets are left alone so unchanged junction rows keep
// their insertion time.
func diffAssociations(current, target []string) (add, remove []string) {
	cur := make(map[string]bool, len(current))
	for _, id := range current {
		cur[id] = true
	}
	tgt := make(map[string]bool, len(target))
	for _, id := range target {
		tgt[id] = true
	}
	for _, id := range target {
		if !cur[id] {
			add = append(add, id)
		}
	}
	for _, id := range current {
		if !tgt[id] {
			remove = append(remove, id)
		}
	}
	return add, remove
}
