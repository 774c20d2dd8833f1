package game

import "errors"

// Refusals. A command that returns one of these left the state untouched.
var (
	ErrGameOver          = errors.New("game is over")
	ErrWrongPhase        = errors.New("command not valid in this phase")
	ErrNotYourTurn       = errors.New("not this player's decision")
	ErrInvalidCard       = errors.New("no such card")
	ErrCardRevealed      = errors.New("card is already revealed")
	ErrInvalidClaim      = errors.New("invalid claim type")
	ErrInvalidTarget     = errors.New("invalid offer target")
	ErrNoPendingOffer    = errors.New("no offer is pending")
	ErrSelectionRequired = errors.New("a card to give back must be selected")
	ErrInvalidOption     = errors.New("no such option")
	ErrMustOffer         = errors.New("an unrevealed card must be offered")
	ErrInvalidPlayer     = errors.New("no such player")
)
