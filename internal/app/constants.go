package app

import "doppelkopf/internal/domain"

// SeatsToStartHand is the number of occupied seats (humans or bots) required before a hand
// can be dealt. Doppelkopf is never played short-handed.
const SeatsToStartHand = domain.NumSeats
