package domain

// marriageTricks is the number of opening tricks in which a Marriage partner can be found.
const marriageTricks = 3

// DetermineTeams assigns the initial Normal-game teams: whoever holds a Queen of Clubs
// is Re, everyone else Kontra. Reveal flags are left as they are.
func DetermineTeams(state GameState) GameState {
	next := state.Clone()
	next.ReIDs = next.ReIDs[:0]
	next.KontraIDs = next.KontraIDs[:0]
	for i := range next.Players {
		p := &next.Players[i]
		if countQueensOfClubs(p.Hand) > 0 {
			p.Team = TeamRe
			next.ReIDs = append(next.ReIDs, p.ID)
		} else {
			p.Team = TeamKontra
			next.KontraIDs = append(next.KontraIDs, p.ID)
		}
	}
	return next
}

// AssignSoloTeams puts the soloist alone on Re against the other three. Solo teams are
// public from the start.
func AssignSoloTeams(state GameState, soloistID string) GameState {
	next := state.Clone()
	next.ReIDs = next.ReIDs[:0]
	next.KontraIDs = next.KontraIDs[:0]
	for i := range next.Players {
		p := &next.Players[i]
		p.Revealed = true
		if p.ID == soloistID {
			p.Team = TeamRe
			next.ReIDs = append(next.ReIDs, p.ID)
		} else {
			p.Team = TeamKontra
			next.KontraIDs = append(next.KontraIDs, p.ID)
		}
	}
	return next
}

// marriageOpen reports whether the Marriage holder is still looking for a partner.
// It must be evaluated before the current trick is counted in TricksCompleted.
func marriageOpen(state GameState) bool {
	return state.Variant == VariantMarriage &&
		len(state.ReIDs) == 1 &&
		state.TricksCompleted < marriageTricks
}

// ApplyMarriagePartner joins the winner of a trick to the Marriage holder when the
// winner is not the holder and a partner can still be found.
func ApplyMarriagePartner(state GameState, winnerSeat int) GameState {
	if !marriageOpen(state) || winnerSeat < 0 || winnerSeat >= len(state.Players) {
		return state
	}
	if state.Players[winnerSeat].Team == TeamRe {
		return state
	}
	next := state.Clone()
	partner := &next.Players[winnerSeat]
	partner.Team = TeamRe
	partner.Revealed = true
	next.ReIDs = append(next.ReIDs, partner.ID)
	next.KontraIDs = removeID(next.KontraIDs, partner.ID)
	return next
}

// RevealPlayer makes one seat's team public.
func RevealPlayer(state GameState, seat int) GameState {
	if seat < 0 || seat >= len(state.Players) || state.Players[seat].Revealed {
		return state
	}
	next := state.Clone()
	next.Players[seat].Revealed = true
	return next
}

// RevealFinalTeams makes every team public once the hand is over.
func RevealFinalTeams(state GameState) GameState {
	next := state.Clone()
	for i := range next.Players {
		next.Players[i].Revealed = true
	}
	return next
}

// TeamOf returns the team of the given player, or TeamUnknown.
func TeamOf(state GameState, playerID string) Team {
	if seat, ok := state.SeatOf(playerID); ok {
		return state.Players[seat].Team
	}
	return TeamUnknown
}

func removeID(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
