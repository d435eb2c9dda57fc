package brackets

import "errors"

var (
	ErrInvalidEntrantList  = errors.New("invalid entrant list")
	ErrInvalidMatchAddress = errors.New("invalid match address")
	ErrInvalidWinner       = errors.New("winner is not one of the match slots")
	ErrImmutableByeMatch   = errors.New("bye match winner cannot be changed")
	ErrInconsistentBracket = errors.New("bracket is inconsistent")
)
