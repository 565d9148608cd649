// Package rand generates random names and payloads for tests.
package rand

import (
	"math/rand"
	"sync"
	"time"
)

const (
	letters     = "abcdefghijklmnopqrstuvwxyz0123456789"
	letterBits  = 6
	letterMask  = 1<<letterBits - 1
	lettersPerW = 63 / letterBits
)

var (
	mu   sync.Mutex
	rgen = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec
)

// Bytes returns n random bytes.
func Bytes(n int) []byte {
	buf := make([]byte, n)
	mu.Lock()
	_, _ = rgen.Read(buf)
	mu.Unlock()
	return buf
}

// LetterBytes returns n random lower-case letters and digits, safe to use in
// bucket prefixes and file names.
func LetterBytes(n int) []byte {
	buf := make([]byte, n)
	mu.Lock()
	defer mu.Unlock()
	for i, cache, remain := n-1, rgen.Int63(), lettersPerW; i >= 0; {
		if remain == 0 {
			cache, remain = rgen.Int63(), lettersPerW
		}
		if idx := int(cache & letterMask); idx < len(letters) {
			buf[i] = letters[idx]
			i--
		}
		cache >>= letterBits
		remain--
	}
	return buf
}

// LetterString is LetterBytes as a string.
func LetterString(n int) string {
	return string(LetterBytes(n))
}
