package radius

import (
	"crypto/md5"
	"crypto/rand"
	"fmt"
)

// NewRequestAuthenticator returns 16 cryptographically random bytes.
// Each outgoing request gets a fresh authenticator; it is never reused,
// since the User-Password hiding keys off it.
func NewRequestAuthenticator() ([16]byte, error) {
	var auth [16]byte
	if _, err := rand.Read(auth[:]); err != nil {
		return auth, fmt.Errorf("radius: generating request authenticator: %w", err)
	}
	return auth, nil
}

// HidePassword applies the RFC 2865 User-Password hiding transform.
// The plaintext is split into 16-byte blocks (the last one zero-padded);
// block i is XORed with MD5(secret || authenticator) for the first block
// and MD5(secret || cipher_{i-1}) for every following block.
func HidePassword(password string, secret []byte, authenticator [16]byte) []byte {
	plain := []byte(password)
	if rem := len(plain) % 16; rem != 0 {
		plain = append(plain, make([]byte, 16-rem)...)
	}
	if len(plain) == 0 {
		plain = make([]byte, 16)
	}

	hidden := make([]byte, 0, len(plain))
	chain := authenticator[:]
	for i := 0; i < len(plain); i += 16 {
		h := md5.New()
		h.Write(secret)
		h.Write(chain)
		digest := h.Sum(nil)

		block := make([]byte, 16)
		for j := 0; j < 16; j++ {
			block[j] = plain[i+j] ^ digest[j]
		}
		hidden = append(hidden, block...)
		chain = block
	}

	return hidden
}

// messageAuthenticator computes the Message-Authenticator digest as a
// plain MD5 over secret || request authenticator. This is NOT the
// RFC 2869 HMAC-MD5 over the whole packet; peers that enforce a
// conformant Message-Authenticator will reject these packets. The NAS
// fleet this talks to validates exactly this digest, so it stays.
func messageAuthenticator(secret []byte, authenticator [16]byte) []byte {
	h := md5.New()
	h.Write(secret)
	h.Write(authenticator[:])
	return h.Sum(nil)
}
