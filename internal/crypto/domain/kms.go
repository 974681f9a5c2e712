package domain

import "context"

// KMSKeeper abstracts the KMS operations needed to unwrap the PHI encryption
// key at startup. *secrets.Keeper from gocloud.dev implements this interface.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
