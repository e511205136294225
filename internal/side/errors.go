package side

import "errors"

// ErrUnknownSide is returned when decoding a side value that is
// neither "Ask" nor "Bid".
var ErrUnknownSide = errors.New("side: unknown value, expected \"Ask\" or \"Bid\"")
