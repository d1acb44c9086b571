package uid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered numeric identifiers.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake constructs a Snowflake generator with a random node number.
func NewSnowflake() (*Snowflake, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("uid: node seed failed: %w", err)
	}

	node, err := snowflake.NewNode(int64(binary.BigEndian.Uint64(b[:]) % 1024))
	if err != nil {
		return nil, fmt.Errorf("uid: snowflake node init failed: %w", err)
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new numeric identifier.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
