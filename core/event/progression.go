package event

import "sort"

// TopQualifiedUsers returns the next-round seed entries computed from a
// scored round: entries sorted descending by round points and truncated to
// topX. The sort is stable so ties are broken by qualification order: the
// earlier qualified entrant wins. Seed entries start the next round at zero.
func TopQualifiedUsers(entries []QualifiedUser, topX int) []QualifiedUser {
	ranked := make([]QualifiedUser, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].RoundPoints > ranked[j].RoundPoints })
	if topX < len(ranked) {
		ranked = ranked[:topX]
	}

	seeds := make([]QualifiedUser, 0, len(ranked))
	for _, qu := range ranked {
		qu.RoundPoints = 0
		seeds = append(seeds, qu)
	}
	return seeds
}

// TopQualifiedTeams is the team-event counterpart of TopQualifiedUsers.
func TopQualifiedTeams(entries []QualifiedTeam, topX int) []QualifiedTeam {
	ranked := make([]QualifiedTeam, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].RoundPoints > ranked[j].RoundPoints })
	if topX < len(ranked) {
		ranked = ranked[:topX]
	}

	seeds := make([]QualifiedTeam, 0, len(ranked))
	for _, qt := range ranked {
		qt.RoundPoints = 0
		seeds = append(seeds, qt)
	}
	return seeds
}
