package auth

import (
	"crypto/rand"
	"crypto/rsa"

	"github.com/golang-jwt/jwt/v5"
)

// KeyPair holds the RSA keys tokens are signed and verified with.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

func LoadKeyPair(privatePEM, publicPEM []byte) (*KeyPair, error) {
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, err
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Private: priv, Public: pub}, nil
}

// NewDevKeyPair generates an in-memory key pair for development and tests.
func NewDevKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Private: priv, Public: &priv.PublicKey}, nil
}
