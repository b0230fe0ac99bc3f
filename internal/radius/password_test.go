package radius

import (
	"crypto/md5"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	layehradius "layeh.com/radius"
)

func testAuthenticator() [16]byte {
	var auth [16]byte
	copy(auth[:], []byte{
		0x0f, 0x40, 0x3f, 0x94, 0x73, 0x97, 0x80, 0x57,
		0xbd, 0x83, 0xd5, 0xcb, 0x98, 0xf4, 0x22, 0x7a,
	})
	return auth
}

// layeh.com/radius implements the RFC 2865 User-Password transform
// independently; it serves as the reference encoder here.
func TestHidePasswordMatchesReferenceSingleBlock(t *testing.T) {
	auth := testAuthenticator()
	secret := []byte("xyzzy5461")

	for _, password := range []string{"arctangent", "a", "sixteen-chars-xx"} {
		got := HidePassword(password, secret, auth)

		want, err := layehradius.NewUserPassword([]byte(password), secret, auth[:])
		require.NoError(t, err)
		assert.Equal(t, []byte(want), got, "password %q", password)
	}
}

func TestHidePasswordMatchesReferenceMultiBlock(t *testing.T) {
	auth := testAuthenticator()
	secret := []byte("sharedsecret")

	for _, password := range []string{
		"this password is longer than sixteen characters",
		"exactly-thirty-two-characters-xx",
	} {
		got := HidePassword(password, secret, auth)

		want, err := layehradius.NewUserPassword([]byte(password), secret, auth[:])
		require.NoError(t, err)
		assert.Equal(t, []byte(want), got, "password %q", password)
	}
}

func TestHidePasswordBlockAlignment(t *testing.T) {
	auth := testAuthenticator()
	secret := []byte("s3cr3t")

	assert.Len(t, HidePassword("", secret, auth), 16)
	assert.Len(t, HidePassword("short", secret, auth), 16)
	assert.Len(t, HidePassword("0123456789abcdef", secret, auth), 16)
	assert.Len(t, HidePassword("0123456789abcdefg", secret, auth), 32)
}

// Reverse the XOR chain with hashes derived from the ciphertext, not the
// plaintext; recovering the original password proves the chaining keys
// off the previous cipher block as RFC 2865 requires.
func TestHidePasswordReversible(t *testing.T) {
	auth := testAuthenticator()
	secret := []byte("reversible-secret")
	password := "multi block password over 16 chars"

	hidden := HidePassword(password, secret, auth)
	require.Equal(t, 0, len(hidden)%16)

	var plain []byte
	chain := auth[:]
	for i := 0; i < len(hidden); i += 16 {
		h := md5.New()
		h.Write(secret)
		h.Write(chain)
		digest := h.Sum(nil)
		for j := 0; j < 16; j++ {
			plain = append(plain, hidden[i+j]^digest[j])
		}
		chain = hidden[i : i+16]
	}

	recovered := plain
	for len(recovered) > 0 && recovered[len(recovered)-1] == 0 {
		recovered = recovered[:len(recovered)-1]
	}
	assert.Equal(t, password, string(recovered))
}

func TestNewRequestAuthenticatorIsFresh(t *testing.T) {
	seen := make(map[[16]byte]bool)
	for i := 0; i < 100; i++ {
		auth, err := NewRequestAuthenticator()
		require.NoError(t, err)
		assert.False(t, seen[auth], "authenticator reused")
		seen[auth] = true
	}
}
