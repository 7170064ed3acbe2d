package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoginAndVerify(t *testing.T) {
	m := NewManager("hunter2", "session-secret", time.Hour)

	token, err := m.Login("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, m.Verify(token))
}

func TestLogin_WrongPassword(t *testing.T) {
	m := NewManager("hunter2", "session-secret", time.Hour)

	_, err := m.Login("letmein")
	require.ErrorIs(t, err, ErrBadPassword)

	_, err = m.Login("")
	require.ErrorIs(t, err, ErrBadPassword)
}

func TestVerify_Garbage(t *testing.T) {
	m := NewManager("hunter2", "session-secret", time.Hour)

	require.ErrorIs(t, m.Verify("not.a.token"), ErrInvalidToken)
	require.ErrorIs(t, m.Verify(""), ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	a := NewManager("hunter2", "secret-a", time.Hour)
	b := NewManager("hunter2", "secret-b", time.Hour)

	token, err := a.Login("hunter2")
	require.NoError(t, err)
	require.ErrorIs(t, b.Verify(token), ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	m := NewManager("hunter2", "session-secret", time.Hour)

	base := time.Now()
	m.now = func() time.Time { return base }

	token, err := m.Login("hunter2")
	require.NoError(t, err)
	require.NoError(t, m.Verify(token))

	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	require.ErrorIs(t, m.Verify(token), ErrInvalidToken)
}
