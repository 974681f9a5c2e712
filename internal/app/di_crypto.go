package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/medbilling/internal/crypto/domain"
	cryptoService "github.com/allisson/medbilling/internal/crypto/service"
)

// KMSService returns the KMS service used to unwrap externally managed keys.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// EncryptionKey returns the process-wide PHI encryption key, unwrapping it
// through the configured KMS keeper when a key URI is set. The key stays in
// memory for the process lifetime and is never logged.
func (c *Container) EncryptionKey() ([]byte, error) {
	var err error
	c.encryptionKeyInit.Do(func() {
		c.encryptionKey, err = c.initEncryptionKey()
		if err != nil {
			c.initErrors["encryptionKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptionKey"]; exists {
		return nil, storedErr
	}
	return c.encryptionKey, nil
}

// FieldCodec returns the codec that encrypts and decrypts PHI field values.
func (c *Container) FieldCodec() (*cryptoService.FieldCodec, error) {
	var err error
	c.fieldCodecInit.Do(func() {
		c.fieldCodec, err = c.initFieldCodec()
		if err != nil {
			c.initErrors["fieldCodec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldCodec"]; exists {
		return nil, storedErr
	}
	return c.fieldCodec, nil
}

// initEncryptionKey loads the encryption key from configuration.
func (c *Container) initEncryptionKey() ([]byte, error) {
	key, err := cryptoService.LoadEncryptionKey(
		context.Background(),
		c.KMSService(),
		c.config.EncryptionKey,
		c.config.KMSKeyURI,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load encryption key: %w", err)
	}
	return key, nil
}

// initFieldCodec creates the field codec with the configured algorithm.
func (c *Container) initFieldCodec() (*cryptoService.FieldCodec, error) {
	algorithm := cryptoDomain.Algorithm(c.config.EncryptionAlgorithm)
	if !algorithm.Valid() {
		return nil, fmt.Errorf("unsupported encryption algorithm: %s", c.config.EncryptionAlgorithm)
	}

	key, err := c.EncryptionKey()
	if err != nil {
		return nil, err
	}

	codec, err := cryptoService.NewFieldCodec(key, algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to create field codec: %w", err)
	}
	return codec, nil
}
