package oslogin

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func keysPayload(entries string) string {
	return fmt.Sprintf(`{"loginProfiles":[{"name":"alice@example.com","sshPublicKeys":{%s}}]}`, entries)
}

func TestDecodeSSHKeys_Expiration(t *testing.T) {
	future := testNow.Add(time.Hour).UnixMicro()
	past := testNow.Add(-time.Hour).UnixMicro()

	t.Run("NoExpirationIncluded", func(t *testing.T) {
		keys := decodeSSHKeysAt(keysPayload(`"fp1":{"key":"ssh-ed25519 AAAA alice"}`), testNow)
		assert.Equal(t, []string{"ssh-ed25519 AAAA alice"}, keys)
	})

	t.Run("FutureExpirationIncluded", func(t *testing.T) {
		entries := fmt.Sprintf(`"fp1":{"key":"k1","expirationTimeUsec":%d}`, future)
		assert.Equal(t, []string{"k1"}, decodeSSHKeysAt(keysPayload(entries), testNow))
	})

	t.Run("PastExpirationExcluded", func(t *testing.T) {
		entries := fmt.Sprintf(`"fp1":{"key":"k1","expirationTimeUsec":%d}`, past)
		assert.Empty(t, decodeSSHKeysAt(keysPayload(entries), testNow))
	})

	t.Run("ExactlyNowExcluded", func(t *testing.T) {
		entries := fmt.Sprintf(`"fp1":{"key":"k1","expirationTimeUsec":%d}`, testNow.UnixMicro())
		assert.Empty(t, decodeSSHKeysAt(keysPayload(entries), testNow))
	})

	t.Run("StringExpirationHonored", func(t *testing.T) {
		entries := fmt.Sprintf(`"fp1":{"key":"k1","expirationTimeUsec":"%d"}`, past)
		assert.Empty(t, decodeSSHKeysAt(keysPayload(entries), testNow))
	})

	t.Run("NegativeExpirationExcluded", func(t *testing.T) {
		entries := `"fp1":{"key":"k1","expirationTimeUsec":-1}`
		assert.Empty(t, decodeSSHKeysAt(keysPayload(entries), testNow))
	})

	t.Run("UnparsableExpirationIgnored", func(t *testing.T) {
		entries := `"fp1":{"key":"k1","expirationTimeUsec":"soon"}`
		assert.Equal(t, []string{"k1"}, decodeSSHKeysAt(keysPayload(entries), testNow))
	})
}

func TestDecodeSSHKeys_SkipsBadEntries(t *testing.T) {
	t.Run("EmptyKeySkipped", func(t *testing.T) {
		assert.Empty(t, decodeSSHKeysAt(keysPayload(`"fp1":{"key":""}`), testNow))
	})

	t.Run("MissingKeySkipped", func(t *testing.T) {
		assert.Empty(t, decodeSSHKeysAt(keysPayload(`"fp1":{"expirationTimeUsec":1}`), testNow))
	})

	t.Run("NonStringKeySkipped", func(t *testing.T) {
		assert.Empty(t, decodeSSHKeysAt(keysPayload(`"fp1":{"key":42}`), testNow))
	})

	t.Run("NonObjectEntrySkipped", func(t *testing.T) {
		entries := `"fp1":"not an object","fp2":{"key":"k2"}`
		assert.Equal(t, []string{"k2"}, decodeSSHKeysAt(keysPayload(entries), testNow))
	})

	t.Run("BadEntryDoesNotAbortOthers", func(t *testing.T) {
		entries := `"fp1":{"key":7},"fp2":{"key":"k2"},"fp3":{"key":""}`
		assert.Equal(t, []string{"k2"}, decodeSSHKeysAt(keysPayload(entries), testNow))
	})
}

func TestDecodeSSHKeys_Shapes(t *testing.T) {
	t.Run("BareProfile", func(t *testing.T) {
		payload := `{"sshPublicKeys":{"fp1":{"key":"k1"}}}`
		assert.Equal(t, []string{"k1"}, decodeSSHKeysAt(payload, testNow))
	})

	t.Run("MultipleKeysUnordered", func(t *testing.T) {
		entries := `"fp1":{"key":"k1"},"fp2":{"key":"k2"},"fp3":{"key":"k3"}`
		keys := decodeSSHKeysAt(keysPayload(entries), testNow)
		assert.ElementsMatch(t, []string{"k1", "k2", "k3"}, keys)
	})

	t.Run("MalformedPayload", func(t *testing.T) {
		assert.Empty(t, decodeSSHKeysAt(`{"loginProfiles":`, testNow))
	})

	t.Run("NoKeysMap", func(t *testing.T) {
		assert.Empty(t, decodeSSHKeysAt(`{"loginProfiles":[{"name":"alice@example.com"}]}`, testNow))
	})

	t.Run("KeysMapWrongType", func(t *testing.T) {
		assert.Empty(t, decodeSSHKeysAt(keysPayload(``), testNow))
		assert.Empty(t, decodeSSHKeysAt(`{"loginProfiles":[{"sshPublicKeys":[1,2]}]}`, testNow))
	})
}
