package jwtx

import (
	"errors"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds the public keys tokens may be verified against, keyed by kid.
type KeySet struct {
	mu   sync.RWMutex
	jwks JWKS
	pub  map[string]publicKey
}

type publicKey struct {
	alg string
	key any
}

func NewKeySet() *KeySet {
	return &KeySet{pub: make(map[string]publicKey)}
}

func (k *KeySet) Add(j JWK) error {
	key, err := j.PublicKey()
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if _, dup := k.pub[j.Kid]; dup {
		return nil
	}
	k.pub[j.Kid] = publicKey{alg: j.Alg, key: key}
	k.jwks.Keys = append(k.jwks.Keys, j)
	return nil
}

func (k *KeySet) get(kid string) (publicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	pk, ok := k.pub[kid]
	if !ok {
		return publicKey{}, ErrNoKey
	}
	return pk, nil
}

func (k *KeySet) PublicJWKS() JWKS {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := JWKS{Keys: make([]JWK, len(k.jwks.Keys))}
	copy(out.Keys, k.jwks.Keys)
	return out
}

func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pub) > 0
}
