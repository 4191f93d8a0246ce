package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DelegationChain is the ordered history of every user who has held a task,
// stored as a JSON array in a text column. The first element is always the
// task's creator. The chain only ever grows; Append is the sole mutation.
type DelegationChain []uint64

// Value implements driver.Valuer.
func (c DelegationChain) Value() (driver.Value, error) {
	if c == nil {
		c = DelegationChain{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode delegation chain: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (c *DelegationChain) Scan(value interface{}) error {
	if value == nil {
		*c = DelegationChain{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported delegation chain column type %T", value)
	}

	if len(data) == 0 {
		*c = DelegationChain{}
		return nil
	}

	return json.Unmarshal(data, c)
}

// Contains reports whether the user already appears in the chain.
func (c DelegationChain) Contains(userID uint64) bool {
	for _, id := range c {
		if id == userID {
			return true
		}
	}
	return false
}

// Append returns a new chain with the user added at the end. The receiver is
// copied so stored chains are never mutated in place.
func (c DelegationChain) Append(userID uint64) DelegationChain {
	next := make(DelegationChain, 0, len(c)+1)
	next = append(next, c...)
	return append(next, userID)
}
