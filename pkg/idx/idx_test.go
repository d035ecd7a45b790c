package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/teamauth/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.True(t, idx.Valid(id.String()))
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, s)
	}
}

func TestNewAtIsOrdered(t *testing.T) {
	at := time.Unix(1700000000, 0)
	a := idx.NewAt(at)
	b := idx.NewAt(at)
	c := idx.NewAt(at.Add(time.Second))

	// same millisecond still sorts by creation
	require.Less(t, a.String(), b.String())
	require.Less(t, b.String(), c.String())
	require.WithinDuration(t, at, a.Time(), time.Millisecond)
}
