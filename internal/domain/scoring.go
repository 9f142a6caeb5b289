package domain

const (
	winThreshold = 120
	soloFactor   = 3
)

// augenBonuses are the cumulative thresholds the winning side must exceed for an extra point.
var augenBonuses = []struct {
	over  int
	label string
}{
	{150, "Über 150 Augen"},
	{180, "Über 180 Augen"},
	{210, "Über 210 Augen"},
}

const (
	detailWon           = "Gewonnenes Spiel"
	detailAgainstElders = "Gegen die Alten"
	detailSchwarz       = "Schwarz"
)

type teamTally struct {
	points  int
	details []string
}

func (t *teamTally) award(label string) {
	t.points++
	t.details = append(t.details, label)
}

// CalculateGameResult settles a finished hand: it sums Augen, picks the winner, awards
// game points, distributes tournament points and stores the result. Phase becomes Scoring.
func CalculateGameResult(state GameState) GameState {
	next := state.Clone()

	reAugen, kontraAugen := 0, 0
	for _, p := range next.Players {
		switch p.Team {
		case TeamRe:
			reAugen += p.Points
		case TeamKontra:
			kontraAugen += p.Points
		}
	}

	winner := TeamKontra
	if reAugen > winThreshold {
		winner = TeamRe
	}

	tallies := map[Team]*teamTally{
		TeamRe:     {details: []string{}},
		TeamKontra: {details: []string{}},
	}
	augen := map[Team]int{TeamRe: reAugen, TeamKontra: kontraAugen}

	w := tallies[winner]
	w.award(detailWon)
	if winner == TeamKontra {
		w.award(detailAgainstElders)
	}
	for _, b := range augenBonuses {
		if augen[winner] > b.over {
			w.award(b.label)
		}
	}
	if augen[winner.Opponent()] == 0 {
		w.award(detailSchwarz)
	}

	for _, team := range []Team{TeamRe, TeamKontra} {
		for _, sp := range next.SpecialPoints.For(team) {
			tallies[team].award(string(sp))
		}
	}

	for _, call := range []Team{TeamRe, TeamKontra} {
		if !hasCall(next.Players, next.Calls, call) {
			continue
		}
		if winner == call {
			tallies[call].award(string(call) + " angesagt")
		} else {
			tallies[call.Opponent()].award(string(call) + " verloren")
		}
	}

	net := tallies[winner].points - tallies[winner.Opponent()].points

	solo := next.Variant.IsSolo()
	for i := range next.Players {
		p := &next.Players[i]
		delta := net
		if solo && p.Team == TeamRe {
			delta *= soloFactor
		}
		if p.Team != winner {
			delta = -delta
		}
		p.TournamentPoints += delta
	}

	winnerIDs := make([]string, 0, NumSeats)
	for _, p := range next.Players {
		if p.Team == winner {
			winnerIDs = append(winnerIDs, p.ID)
		}
	}

	next.LastResult = &ScoringResult{
		Winner:              winner,
		NetScore:            net,
		WinnerIDs:           winnerIDs,
		ReAugen:             reAugen,
		KontraAugen:         kontraAugen,
		ReSpecialPoints:     append([]SpecialPoint{}, next.SpecialPoints.Re...),
		KontraSpecialPoints: append([]SpecialPoint{}, next.SpecialPoints.Kontra...),
		ReDetails:           tallies[TeamRe].details,
		KontraDetails:       tallies[TeamKontra].details,
	}
	next.Phase = PhaseScoring
	return next
}

// hasCall reports whether a player who ended the hand on team made that call.
func hasCall(players []Player, calls map[string]Team, team Team) bool {
	for _, p := range players {
		if p.Team == team && calls[p.ID] == team {
			return true
		}
	}
	return false
}
