package session

import "errors"

var ErrSignedOut = errors.New("no signed-in user")
