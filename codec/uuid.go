package codec

import "github.com/google/uuid"

// UUID parses the canonical textual forms accepted by uuid.Parse.
func UUID(s string) (any, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// NewUUID returns a random (version 4) UUID.
func NewUUID() any { return uuid.New() }
