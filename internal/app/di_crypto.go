package app

import (
	"fmt"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
	cryptoService "github.com/ugcforge/credvault/internal/crypto/service"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyDeriver returns the PBKDF2 key deriver.
func (c *Container) KeyDeriver() cryptoService.KeyDeriver {
	c.keyDeriverInit.Do(func() {
		c.keyDeriver = cryptoService.NewPBKDF2KeyDeriver()
	})
	return c.keyDeriver
}

// Sealer returns the envelope sealer writing with VAULT_ALGORITHM.
func (c *Container) Sealer() (cryptoService.Sealer, error) {
	var err error
	c.sealerInit.Do(func() {
		c.sealer, err = c.initSealer()
		if err != nil {
			c.setInitError("sealer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("sealer"); storedErr != nil {
		return nil, storedErr
	}
	return c.sealer, nil
}

// KMSService returns the KMS service used to wrap backups.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

func (c *Container) initSealer() (cryptoService.Sealer, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.VaultAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid VAULT_ALGORITHM %q: %w", c.config.VaultAlgorithm, err)
	}
	return cryptoService.NewEnvelopeSealer(c.AEADManager(), alg), nil
}
