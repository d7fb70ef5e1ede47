// Package id generates report identifiers and replayable simulation seeds.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// monotonic so reports created within one millisecond still sort in order
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string. Report IDs sort by creation time.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		panic(err)
	}
	return id.String()
}

// MaxSeed keeps seeds exactly representable as JSON numbers in browsers
const MaxSeed = 1<<53 - 1

// NewSeed returns a random seed in [1, MaxSeed] for runs that did not ask for
// one. Zero is reserved to mean "pick a seed".
func NewSeed() uint64 {
	var seed uint64
	if err := binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed); err != nil {
		seed = uint64(time.Now().UnixNano())
	}
	seed &= MaxSeed
	if seed == 0 {
		seed = 1
	}
	return seed
}
