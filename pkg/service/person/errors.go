package person

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrAlreadyExists is returned when a name is already taken in the friend index
	ErrAlreadyExists = goerr.New("person already exists")

	// ErrAmbiguousPerson is returned when a name prefix matches more than one friend
	ErrAmbiguousPerson = goerr.New("ambiguous person, multiple people match name")

	// ErrReservedFactKey is returned when a fact key would shadow an identity field
	ErrReservedFactKey = goerr.New("reserved fact key")
)
