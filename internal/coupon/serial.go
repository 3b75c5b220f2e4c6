package coupon

import (
	"crypto/rand"
	"math/big"
)

const (
	serialPrefix   = "SN-"
	serialLength   = 9
	serialAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewSerial returns a fresh voucher identifier such as SN-7K2QX9D0A.
func NewSerial() string {
	b := make([]byte, serialLength)
	max := big.NewInt(int64(len(serialAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = serialAlphabet[n.Int64()]
	}
	return serialPrefix + string(b)
}
