package test

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const usernameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomUsername returns a pseudo-random username accepted by registration.
// Lengths below three are raised to three.
func RandomUsername(minLen, maxLen int) string {
	if minLen < 3 {
		minLen = 3
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen
	if maxLen > minLen {
		length += randomIntn(maxLen - minLen + 1)
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = usernameAlphabet[randomIntn(len(usernameAlphabet))]
	}
	return string(buf)
}

// RandomPIN returns a four digit PIN.
func RandomPIN() string {
	return fmt.Sprintf("%04d", randomIntn(10000))
}

func randomIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}
