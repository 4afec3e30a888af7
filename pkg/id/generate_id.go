package id

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewApplicationID returns "UDYAM" + base36(unix ms) + 5 random base36 chars, uppercased.
func NewApplicationID(at time.Time) string {
	var sb strings.Builder
	sb.WriteString("UDYAM")
	sb.WriteString(strconv.FormatInt(at.UnixMilli(), 36))
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < 5; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			n = big.NewInt(int64(time.Now().UnixNano() % 36))
		}
		sb.WriteByte(base36[n.Int64()])
	}
	return strings.ToUpper(sb.String())
}
