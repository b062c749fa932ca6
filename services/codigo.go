package services

import (
	"math/rand/v2"
	"strconv"
)

// CodigoGenerator produces the human-readable sale code.
type CodigoGenerator func() string

// GerarCodigoVenda draws a 5-digit code in [10000, 99999]. Codes are for
// display and search only; collisions are not checked.
func GerarCodigoVenda() string {
	return strconv.Itoa(10000 + rand.IntN(90000))
}
