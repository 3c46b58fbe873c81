package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secretKey = []byte("secret")

func testSession() Session {
	return Session{ID: "t1", Name: "Jane", Email: "jane@test.cm", Role: RoleTeacher}
}

func TestSignAndParseToken(t *testing.T) {
	sess := testSession()
	claims := NewClaims(sess, "Darasa", time.Hour)

	token, err := SignToken(claims, secretKey)
	require.NoError(t, err)

	parsed, err := ParseToken(token, secretKey)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, parsed.Subject)
	assert.Equal(t, sess.Name, parsed.Name)
	assert.Equal(t, sess.Email, parsed.Email)
	assert.Equal(t, sess.Role, parsed.Role)
}

func TestParseToken_expired(t *testing.T) {
	token, err := SignToken(NewClaims(testSession(), "Darasa", -time.Minute), secretKey)
	require.NoError(t, err)

	_, err = ParseToken(token, secretKey)
	assert.Equal(t, ErrExpired, err)
}

func TestParseToken_wrongKey(t *testing.T) {
	token, err := SignToken(NewClaims(testSession(), "Darasa", time.Hour), secretKey)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("other"))
	assert.Error(t, err)
}

func TestSession_Verify(t *testing.T) {
	sess := testSession()

	t.Run("zero session", func(t *testing.T) {
		assert.Equal(t, ErrNoSession, Session{}.Verify(secretKey))
	})

	t.Run("empty token allowed", func(t *testing.T) {
		assert.NoError(t, sess.Verify(secretKey))
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := SignToken(NewClaims(sess, "Darasa", time.Hour), secretKey)
		require.NoError(t, err)
		sess.Token = token
		assert.NoError(t, sess.Verify(secretKey))
	})

	t.Run("token for another identity", func(t *testing.T) {
		other := Session{ID: "t2", Role: RoleTeacher}
		token, err := SignToken(NewClaims(other, "Darasa", time.Hour), secretKey)
		require.NoError(t, err)
		sess.Token = token
		assert.Error(t, sess.Verify(secretKey))
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := SignToken(NewClaims(sess, "Darasa", -time.Minute), secretKey)
		require.NoError(t, err)
		sess.Token = token
		assert.Equal(t, ErrExpired, sess.Verify(secretKey))
	})
}

func TestSession_roles(t *testing.T) {
	assert.True(t, Session{ID: "t1", Role: RoleTeacher}.IsTeacher())
	assert.True(t, Session{ID: "s1", Role: RoleStudent}.IsStudent())
	assert.False(t, Session{ID: "s1", Role: RoleStudent}.IsTeacher())
}
