package session

import "github.com/oklog/ulid/v2"

// ULIDGenerator generates ULID idempotency keys.
type ULIDGenerator struct{}

func (ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
