package access

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Jasmitha1474/women-safety-app/internal/models"
	"github.com/Jasmitha1474/women-safety-app/internal/profile"
	"github.com/Jasmitha1474/women-safety-app/internal/remote"
	"github.com/Jasmitha1474/women-safety-app/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticPin string

func (p staticPin) StoredPin() string { return string(p) }

func TestGate_InitialState(t *testing.T) {
	assert.Equal(t, Unlocked, NewGate(staticPin(""), zap.NewNop()).State())
	assert.Equal(t, Locked, NewGate(staticPin("1234"), zap.NewNop()).State())
}

func TestGate_SubmitPin(t *testing.T) {
	g := NewGate(staticPin("1234"), zap.NewNop())

	assert.ErrorIs(t, g.SubmitPin("0000"), ErrIncorrectPin)
	assert.Equal(t, Locked, g.State())

	assert.ErrorIs(t, g.SubmitPin(""), ErrIncorrectPin)
	assert.ErrorIs(t, g.SubmitPin("12345"), ErrIncorrectPin)

	// no lockout after repeated failures
	for i := 0; i < 10; i++ {
		assert.ErrorIs(t, g.SubmitPin("9999"), ErrIncorrectPin)
	}

	require.NoError(t, g.SubmitPin("1234"))
	assert.Equal(t, Unlocked, g.State())

	// already unlocked
	assert.NoError(t, g.SubmitPin("0000"))
	assert.True(t, g.Unlocked())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "locked", Locked.String())
	assert.Equal(t, "unlocked", Unlocked.String())
}

type notFoundRemote struct{}

func (notFoundRemote) FetchProfile(context.Context, string) (*remote.Profile, error) {
	return nil, &remote.StatusError{StatusCode: 404}
}

func (notFoundRemote) Signup(context.Context, remote.SignupRequest) error { return nil }

func setupEditor(t *testing.T, seed *models.UserProfile) (*miniredis.Miniredis, *Gate, *Editor) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	if seed != nil {
		data, err := json.Marshal(seed)
		require.NoError(t, err)
		require.NoError(t, mr.Set("user", string(data)))
	}

	s := profile.NewStore(store.NewRedisKV(client), notFoundRemote{}, "user", zap.NewNop())
	_, err := s.LoadLocal(context.Background())
	require.NoError(t, err)

	g := NewGate(s, zap.NewNop())
	return mr, g, NewEditor(g, s)
}

func TestEditor_LockedRejectsReadsAndWrites(t *testing.T) {
	mr, g, e := setupEditor(t, &models.UserProfile{Phone: "9876543210", Pin: "1234"})
	ctx := context.Background()

	_, err := e.Profile()
	assert.ErrorIs(t, err, ErrLocked)
	_, err = e.Save(ctx, profile.Candidate{Phone: "9876543210", Contacts: []string{"9000000001", "9000000002"}})
	assert.ErrorIs(t, err, ErrLocked)
	assert.ErrorIs(t, e.Clear(ctx), ErrLocked)
	assert.True(t, mr.Exists("user"))

	require.NoError(t, g.SubmitPin("1234"))

	p, err := e.Profile()
	require.NoError(t, err)
	assert.Equal(t, "9876543210", p.Phone)
	require.NoError(t, e.Clear(ctx))
	assert.False(t, mr.Exists("user"))
}

func TestEditor_FirstRunIsUnlocked(t *testing.T) {
	_, g, e := setupEditor(t, nil)
	assert.True(t, g.Unlocked())

	p, err := e.Save(context.Background(), profile.Candidate{
		Name:     "Asha",
		Phone:    "9876543210",
		Contacts: []string{"9000000001", "9000000002"},
		NewPin:   "1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "1234", p.Pin)
}
