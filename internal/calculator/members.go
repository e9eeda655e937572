package calculator

// SameMembers reports whether two id lists describe the same set. Order does
// not matter and duplicates collapse, so a candidate list passes only when it
// covers every member and names no one else.
func SameMembers(memberIDs, candidateIDs []int64) bool {
	members := make(map[int64]bool, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = true
	}

	candidates := make(map[int64]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		if !members[id] {
			return false
		}
		candidates[id] = true
	}
	return len(candidates) == len(members)
}

// Contains reports whether id appears in ids.
func Contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
