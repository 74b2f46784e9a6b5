package crypto

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// DigestSize is the size in bytes of every content hash produced here.
const DigestSize = 32

// Hasher folds an ordered sequence of fields into a single BLAKE3 digest.
// Ledger structures hash themselves by writing their defining fields, in
// declaration order, into a Hasher.
type Hasher struct {
	inner *blake3.Hasher
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{inner: blake3.New()}
}

// WriteBytes folds a byte field into the digest, prefixed with its length so
// adjacent variable-length fields cannot alias: ("ab","c") and ("a","bc")
// produce different digests. A nil slice hashes the same as an empty one.
func (h *Hasher) WriteBytes(b []byte) {
	h.writeLen(len(b))
	h.inner.Write(b)
}

// WriteString folds a string field into the digest, length-prefixed like
// WriteBytes.
func (h *Hasher) WriteString(s string) {
	h.writeLen(len(s))
	h.inner.WriteString(s)
}

func (h *Hasher) writeLen(n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	h.inner.Write(buf[:])
}

// WriteUint64 folds an unsigned integer field, little-endian.
func (h *Hasher) WriteUint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.inner.Write(buf[:])
}

// WriteInt64 folds a signed integer field, little-endian.
func (h *Hasher) WriteInt64(v int64) {
	h.WriteUint64(uint64(v))
}

// WriteTag folds a single-byte discriminator, separating variant payloads
// that would otherwise collide.
func (h *Hasher) WriteTag(t byte) {
	h.inner.Write([]byte{t})
}

// Sum returns the digest over everything written so far.
func (h *Hasher) Sum() []byte {
	return h.inner.Sum(nil)
}

// ToHex renders a digest for display and logging.
func ToHex(digest []byte) string {
	return hex.EncodeToString(digest)
}
