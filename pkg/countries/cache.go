package countries

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"sync"
)

// Cache memoizes the Index for the most recent definition set.
// The index is rebuilt only when the content of the definitions changes.
type Cache struct {
	mu          sync.Mutex
	fingerprint string
	index       *Index
	builds      int
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Index returns the index for definitions, building it on first use or when
// the definitions differ from the previous call.
func (c *Cache) Index(definitions []Definition) *Index {
	fp := Fingerprint(definitions)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index != nil && c.fingerprint == fp {
		return c.index
	}
	c.index = BuildIndex(definitions)
	c.fingerprint = fp
	c.builds++
	return c.index
}

// Builds returns how many times the cache has built an index.
func (c *Cache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}

// Reset drops the memoized index.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = nil
	c.fingerprint = ""
}

// Fingerprint returns a content hash of definitions. Order matters, since
// first-wins resolution depends on it.
func Fingerprint(definitions []Definition) string {
	h := sha256.New()
	writeUint(h, uint64(len(definitions)))
	for _, d := range definitions {
		writeString(h, d.CanonicalName)
		writeString(h, d.ISOCode)
		writeUint(h, uint64(len(d.Aliases)))
		for _, a := range d.Aliases {
			writeString(h, a)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeString(h hash.Hash, s string) {
	writeUint(h, uint64(len(s)))
	h.Write([]byte(s))
}

func writeUint(h hash.Hash, n uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	h.Write(buf[:])
}
