// Package otp issues one-time numeric verification codes.
package otp

import (
	"crypto/rand"
	"math/big"
)

const (
	codeMin  = 100000
	codeSpan = 900000
)

// Issuer generates 6-digit one-time codes. It keeps no state of its own;
// callers store the code on the user record, and re-issuing overwrites any
// outstanding code there.
type Issuer struct{}

// NewIssuer returns a new Issuer.
func NewIssuer() *Issuer {
	return &Issuer{}
}

// Issue returns a uniformly distributed code in [100000, 999999].
func (i *Issuer) Issue() int {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic("otp: entropy source unavailable: " + err.Error())
	}
	return codeMin + int(n.Int64())
}
