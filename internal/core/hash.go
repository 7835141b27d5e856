package core

import (
	"encoding/hex"

	sha256 "github.com/minio/sha256-simd"
)

// GenesisPrevHash is the previous hash recorded by the first block.
const GenesisPrevHash = "000"

// Digest hashes timestamp, payload and previous hash concatenated in that
// order with no separator. The result is lower-case hex SHA-256.
func Digest(timestamp, payload, previousHash string) string {
	sum := sha256.Sum256([]byte(timestamp + payload + previousHash))
	return hex.EncodeToString(sum[:])
}
