package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/pkg/cryptox"
	"github.com/aussiebroadwan/teamauth/pkg/jwtx"
)

// InitAuthKeys builds the KeyManager that signs session tokens.
//
// With AUTH_KEY_FILE set the key is read from that file, or generated and
// written there on first start, so tokens survive restarts. Without it the
// key is ephemeral.
func InitAuthKeys(cfg Config, clock service.Clock, logger *slog.Logger) (*jwtx.KeyManager, error) {
	var pemKey []byte
	if cfg.KeyFile != "" {
		var err error
		if pemKey, err = cryptox.LoadOrCreateKeyFile(cfg.KeyFile, cfg.Algorithm); err != nil {
			return nil, fmt.Errorf("failed to load signing key: %w", err)
		}
	}

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		Algorithm: cfg.Algorithm,
		Issuer:    cfg.Issuer,
		Audience:  cfg.Audience,
		Leeway:    cfg.TokenLeeway,
		Now:       clock.Now,
		PEM:       pemKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key manager: %w", err)
	}

	if pemKey == nil {
		logger.Warn("generated ephemeral signing key, existing tokens are now invalid",
			"algorithm", cfg.Algorithm,
			"issuer", cfg.Issuer,
		)
	} else {
		logger.Info("signing key loaded",
			"algorithm", cfg.Algorithm,
			"issuer", cfg.Issuer,
			"path", cfg.KeyFile,
		)
	}
	return km, nil
}
