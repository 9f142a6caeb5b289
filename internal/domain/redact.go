package domain

// Redact returns the view of state that viewerID may see: other players' hands are emptied,
// and the team of any other player who has not been revealed is reported as Unknown.
// Applying it twice yields the same view.
func Redact(state GameState, viewerID string) GameState {
	view := state.Clone()
	visible := make(map[string]bool, len(view.Players))
	for i := range view.Players {
		p := &view.Players[i]
		if p.ID == viewerID {
			visible[p.ID] = true
			continue
		}
		p.Hand = []Card{}
		if p.Revealed || state.Phase == PhaseScoring {
			visible[p.ID] = true
			continue
		}
		p.Team = TeamUnknown
	}
	view.ReIDs = filterIDs(view.ReIDs, visible)
	view.KontraIDs = filterIDs(view.KontraIDs, visible)
	return view
}

func filterIDs(ids []string, keep map[string]bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if keep[id] {
			out = append(out, id)
		}
	}
	return out
}
