package jwtx

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/teamauth/pkg/cryptox"
)

// KeyManager owns the active signer and the key set its tokens verify
// against.
type KeyManager struct {
	Signer   Signer
	KeySet   *KeySet
	Verifier *Verifier
}

type KeyManagerOptions struct {
	Algorithm string
	Issuer    string
	Audience  []string
	Leeway    time.Duration
	Now       func() time.Time

	// PEM is the PKCS8 signing key. Nil generates an ephemeral key that
	// dies with the process.
	PEM []byte
}

func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}
	if opts.Algorithm == "" {
		opts.Algorithm = AlgorithmEdDSA
	}

	pemKey := opts.PEM
	if pemKey == nil {
		var err error
		if pemKey, err = cryptox.GenerateSigningKey(opts.Algorithm); err != nil {
			return nil, err
		}
	}

	signer, err := ParseSigner(opts.Algorithm, "", pemKey)
	if err != nil {
		return nil, err
	}

	keys := NewKeySet()
	if err := keys.Add(signer.PublicJWK()); err != nil {
		return nil, fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}

	return &KeyManager{
		Signer: signer,
		KeySet: keys,
		Verifier: NewVerifier(keys, VerifyOptions{
			Issuer:   opts.Issuer,
			Audience: opts.Audience,
			Leeway:   opts.Leeway,
			Now:      opts.Now,
		}),
	}, nil
}

// TrustKey accepts tokens signed by a retired key during rollover.
func (km *KeyManager) TrustKey(j JWK) error {
	return km.KeySet.Add(j)
}

func (km *KeyManager) Sign(c Claims) (string, error) { return km.Signer.Sign(c) }
func (km *KeyManager) Verify(token string) (Claims, error) {
	return km.Verifier.Verify(token)
}
func (km *KeyManager) JWKS() JWKS    { return km.KeySet.PublicJWKS() }
func (km *KeyManager) IsReady() bool { return km.KeySet.IsReady() }
