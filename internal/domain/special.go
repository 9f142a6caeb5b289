package domain

// SpecialPoint is the reason tag of one bonus event.
type SpecialPoint string

const (
	SpecialDoppelkopf SpecialPoint = "Doppelkopf"
	SpecialFoxCaught  SpecialPoint = "Fuchs gefangen"
	SpecialKarlchen   SpecialPoint = "Karlchen"
)

// doppelkopfThreshold is the minimum trick value that scores a Doppelkopf.
const doppelkopfThreshold = 40

// CheckTrickSpecialPoints detects the bonus events of one completed trick. winnerSeat is the
// seat that took the trick and starterSeat the seat that led it; card i of the trick belongs
// to seat (starterSeat+i) mod 4.
func CheckTrickSpecialPoints(trick []Card, winnerSeat, starterSeat int, players []Player, opts RuleOptions, isLastTrick bool) SpecialPoints {
	var out SpecialPoints
	if winnerSeat < 0 || winnerSeat >= len(players) {
		return out
	}
	winnerTeam := players[winnerSeat].Team

	if opts.DoppelkopfPoints && CalculateTrickPoints(trick) >= doppelkopfThreshold {
		out.add(winnerTeam, SpecialDoppelkopf)
	}

	if opts.FoxCaught {
		for i, c := range trick {
			if !c.IsFox() {
				continue
			}
			owner := players[TrickOwner(starterSeat, i)].Team
			if owner != TeamUnknown && winnerTeam != TeamUnknown && owner != winnerTeam {
				out.add(winnerTeam, SpecialFoxCaught)
			}
		}
	}

	if opts.Karlchen && isLastTrick {
		pos := (winnerSeat - starterSeat + NumSeats) % NumSeats
		if pos < len(trick) && trick[pos].IsCharlie() {
			out.add(winnerTeam, SpecialKarlchen)
		}
	}
	return out
}
