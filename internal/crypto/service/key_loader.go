package service

import (
	"context"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/medbilling/internal/crypto/domain"
)

// LoadEncryptionKey resolves the process-wide PHI encryption key from its
// configured representation.
//
// Two modes are supported:
//   - Plain: encodedKey is the base64 encoding of the raw 32-byte key
//     (development and test environments).
//   - KMS-wrapped: kmsKeyURI is non-empty and encodedKey is the base64
//     encoding of a KMS ciphertext; the key is unwrapped through the keeper
//     at startup so the raw key never appears in configuration.
//
// The caller owns the returned key bytes and should zero them once the
// FieldCodec (which keeps its own copy) has been constructed.
func LoadEncryptionKey(ctx context.Context, kms KMSService, encodedKey, kmsKeyURI string) ([]byte, error) {
	if encodedKey == "" {
		return nil, fmt.Errorf("encryption key is not configured")
	}

	decoded, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key: %w", err)
	}

	if kmsKeyURI == "" {
		if len(decoded) != cryptoDomain.KeySize {
			cryptoDomain.Zero(decoded)
			return nil, cryptoDomain.ErrInvalidKeySize
		}
		return decoded, nil
	}

	keeper, err := kms.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		cryptoDomain.Zero(decoded)
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	key, err := keeper.Decrypt(ctx, decoded)
	cryptoDomain.Zero(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap encryption key: %w", err)
	}
	if len(key) != cryptoDomain.KeySize {
		cryptoDomain.Zero(key)
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	return key, nil
}
