// Package signature provides Ed25519-semantic detached signatures over byte
// messages: keygen, sign, verify. Verify never panics or returns an error --
// a malformed key, wrong-length signature, or forgery all simply report
// false, matching the teacher's policy of total, non-throwing verification.
package signature

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
)

// SigningKey is a 32-byte Ed25519 private key seed.
type SigningKey []byte

// VerificationKey is a 32-byte Ed25519 public key.
type VerificationKey []byte

// Keygen samples a fresh Ed25519 keypair.
func Keygen() (SigningKey, VerificationKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return SigningKey(priv.Seed()), VerificationKey(pub), nil
}

// Sign produces a 64-byte detached signature over msg.
func Sign(sk SigningKey, msg []byte) []byte {
	return ed25519.Sign(ed25519.NewKeyFromSeed(sk), msg)
}

// Verify reports whether sig is a valid signature over msg under vk. It
// never panics: a wrong-length key or signature, or an all-zero key, is
// treated as a failed verification rather than an error.
func Verify(vk VerificationKey, msg, sig []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if len(vk) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	if bytes.Equal(vk, make([]byte, ed25519.PublicKeySize)) {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(vk), msg, sig)
}
