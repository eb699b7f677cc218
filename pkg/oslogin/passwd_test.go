package oslogin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderfly/compute-image-packages/pkg/buffer"
)

func TestFillPasswd_Defaults(t *testing.T) {
	w := buffer.NewWriter(make([]byte, 256))
	var pw Passwd

	err := DecodePasswd(`{"posixAccounts":[{"uid":"2000","username":"alice"}]}`, &pw, w)
	require.NoError(t, err)

	assert.Equal(t, uint32(2000), pw.UID)
	assert.Equal(t, uint32(2000), pw.GID, "gid defaults to uid")
	assert.Equal(t, "alice", string(pw.Name))
	assert.Equal(t, "/home/alice", string(pw.HomeDir))
	assert.Equal(t, DefaultShell, string(pw.Shell))
	assert.Empty(t, string(pw.Gecos))
	assert.Empty(t, string(pw.Password))
}

func TestFillPasswd_ExplicitFieldsKept(t *testing.T) {
	w := buffer.NewWriter(make([]byte, 256))
	var pw Passwd

	payload := `{"posixAccounts":[{"uid":2000,"gid":2500,"username":"alice","homeDirectory":"/srv/alice","shell":"/bin/zsh"}]}`
	require.NoError(t, DecodePasswd(payload, &pw, w))

	assert.Equal(t, uint32(2500), pw.GID)
	assert.Equal(t, "/srv/alice", string(pw.HomeDir))
	assert.Equal(t, "/bin/zsh", string(pw.Shell))
}

func TestFillPasswd_Invariants(t *testing.T) {
	t.Run("UIDBelowMinimum", func(t *testing.T) {
		w := buffer.NewWriter(make([]byte, 256))
		var pw Passwd

		err := DecodePasswd(`{"posixAccounts":[{"uid":"500","username":"bob"}]}`, &pw, w)
		assert.ErrorIs(t, err, ErrInvalidData)
	})

	t.Run("UIDBoundary", func(t *testing.T) {
		w := buffer.NewWriter(make([]byte, 256))
		var pw Passwd

		err := FillPasswd(Account{UID: 999, GID: 999, Username: "sys"}, &pw, w)
		assert.ErrorIs(t, err, ErrInvalidData)

		err = FillPasswd(Account{UID: 1000, GID: 1000, Username: "min"}, &pw, w)
		assert.NoError(t, err)
	})

	t.Run("ZeroGID", func(t *testing.T) {
		w := buffer.NewWriter(make([]byte, 256))
		var pw Passwd

		err := FillPasswd(Account{UID: 2000, Username: "alice"}, &pw, w)
		assert.ErrorIs(t, err, ErrInvalidData)
	})

	t.Run("EmptyUsername", func(t *testing.T) {
		w := buffer.NewWriter(make([]byte, 256))
		var pw Passwd

		err := FillPasswd(Account{UID: 2000, GID: 2000}, &pw, w)
		assert.ErrorIs(t, err, ErrInvalidData)
	})
}

func TestFillPasswd_Capacity(t *testing.T) {
	acct := Account{UID: 2000, GID: 2000, Username: "alice"}

	// alice\0 + /home/alice\0 + /bin/bash\0 + \0 + \0 = 30 bytes.
	t.Run("ExactFit", func(t *testing.T) {
		w := buffer.NewWriter(make([]byte, 30))
		var pw Passwd

		require.NoError(t, FillPasswd(acct, &pw, w))
		assert.Equal(t, 0, w.Free())
	})

	t.Run("OneByteShort", func(t *testing.T) {
		w := buffer.NewWriter(make([]byte, 29))
		var pw Passwd

		err := FillPasswd(acct, &pw, w)
		assert.ErrorIs(t, err, buffer.ErrCapacity)
	})

	t.Run("ValidationRunsBeforeAnyWrite", func(t *testing.T) {
		w := buffer.NewWriter(make([]byte, 4))
		var pw Passwd

		err := FillPasswd(Account{UID: 1, GID: 1, Username: "x"}, &pw, w)
		assert.ErrorIs(t, err, ErrInvalidData)
		assert.Equal(t, 4, w.Free(), "invalid records must not consume buffer space")
	})
}

func TestFillPasswd_RegionLayout(t *testing.T) {
	region := make([]byte, 64)
	w := buffer.NewWriter(region)
	var pw Passwd

	require.NoError(t, FillPasswd(Account{UID: 2000, GID: 2000, Username: "alice"}, &pw, w))

	assert.Equal(t, byte(0), region[len("alice")], "name must be null-terminated in the region")
	assert.Equal(t, "alice\x00/home/alice\x00/bin/bash\x00\x00\x00", string(region[:w.Used()]))
}

func TestDecodePasswd_RoundTripStability(t *testing.T) {
	payload := `{"posixAccounts":[{"uid":"2000","username":"alice","shell":"/bin/sh"}]}`

	var first, second Passwd
	require.NoError(t, DecodePasswd(payload, &first, buffer.NewWriter(make([]byte, 128))))
	require.NoError(t, DecodePasswd(payload, &second, buffer.NewWriter(make([]byte, 128))))

	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, string(first.Name), string(second.Name))
	assert.Equal(t, string(first.HomeDir), string(second.HomeDir))
	assert.Equal(t, string(first.Shell), string(second.Shell))
}

func TestPasswdString(t *testing.T) {
	w := buffer.NewWriter(make([]byte, 64))
	var pw Passwd

	require.NoError(t, FillPasswd(Account{UID: 2000, GID: 2000, Username: "alice"}, &pw, w))
	assert.Equal(t, "alice::2000:2000::/home/alice:/bin/bash", pw.String())
}
