package firestore

import "github.com/m-mizutani/goerr/v2"

// ErrWrongType is returned when a key holds a different kind of value than
// the operation expects
var ErrWrongType = goerr.New("operation against a key holding the wrong kind of value")
