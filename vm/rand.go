package vm

import (
	"math/rand"
	"time"
)

func newDefaultRand() randSource {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
