package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	cryptoService "github.com/allisson/medbilling/internal/crypto/service"
)

// RunCreateEncryptionKey generates a cryptographically secure 32-byte key for
// field-level PHI encryption. Key material is zeroed from memory after encoding.
//
// When kmsKeyURI is empty the key is printed as plain base64, suitable for local
// development only. When kmsKeyURI is set the key is encrypted with KMS before
// output and the server unwraps it at startup.
//
// Output format:
//   - ENCRYPTION_KEY="<base64-encoded-key-or-kms-ciphertext>"
//   - KMS_KEY_URI="<uri>" (KMS mode only)
//
// Security: Never use a plain base64 key in production. Use cloud KMS key URIs
// (gcpkms://..., awskms://..., azurekeyvault://...).
func RunCreateEncryptionKey(ctx context.Context, writer io.Writer, kmsKeyURI string) error {
	// Generate a cryptographically secure 32-byte key
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}
	defer func() {
		// Zero out the key from memory for security
		for i := range key {
			key[i] = 0
		}
	}()

	if kmsKeyURI == "" {
		encodedKey := base64.StdEncoding.EncodeToString(key)

		_, _ = fmt.Fprintln(writer, "# Encryption Key Configuration (plain mode, local development only)")
		_, _ = fmt.Fprintln(writer, "# For production, re-run with --kms-key-uri to wrap the key with KMS")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEY=\"%s\"\n", encodedKey)
		return nil
	}

	// Create KMS service and open keeper
	kmsService := cryptoService.NewKMSService()
	keeperInterface, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeperInterface.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(writer, "Warning: failed to close KMS keeper: %v\n", closeErr)
		}
	}()

	// Type assert to get Encrypt method (the server only needs Decrypt)
	keeper, ok := keeperInterface.(interface {
		Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	})
	if !ok {
		return fmt.Errorf("KMS keeper does not support encryption")
	}

	// Encrypt the key with KMS
	ciphertext, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt key with KMS: %w", err)
	}

	encodedKey := base64.StdEncoding.EncodeToString(ciphertext)

	_, _ = fmt.Fprintln(writer, "# Encryption Key Configuration (KMS Mode)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEY=\"%s\"\n", encodedKey)

	return nil
}
