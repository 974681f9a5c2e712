package domain

import (
	"crypto/rand"
	"fmt"
	"time"
)

const mrnAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewMedicalRecordNumber generates a medical record number in the
// MRN-YYYYMMDD-XXXX format, where XXXX is a uniformly random suffix.
// Uniqueness is enforced by the database; callers retry on ErrDuplicateMRN.
func NewMedicalRecordNumber(now time.Time) string {
	// Rejection sampling keeps the suffix uniform: 252 is the largest
	// multiple of len(mrnAlphabet) below 256.
	const limit = 256 - 256%len(mrnAlphabet)
	suffix := make([]byte, 4)
	random := make([]byte, 1)
	for i := 0; i < len(suffix); {
		if _, err := rand.Read(random); err != nil {
			// crypto/rand never fails on supported platforms
			panic(err)
		}
		if int(random[0]) >= limit {
			continue
		}
		suffix[i] = mrnAlphabet[int(random[0])%len(mrnAlphabet)]
		i++
	}

	return fmt.Sprintf("MRN-%s-%s", now.Format("20060102"), suffix)
}
