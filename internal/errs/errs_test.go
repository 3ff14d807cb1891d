package errs

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestMarkHelpersClassify(t *testing.T) {
	t.Parallel()

	base := errors.New("socket closed")

	require.True(t, IsFetch(Fetch(base)))
	require.True(t, IsDataShape(DataShape(base)))
	require.False(t, IsFetch(DataShape(base)))
	require.False(t, IsDataShape(base))

	require.Nil(t, Fetch(nil))
	require.Nil(t, DataShape(nil))
}

func TestMarkSurvivesWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("fetching schedule: %w", Fetch(errors.New("502")))
	require.True(t, IsFetch(err))

	marked := errors.Mark(errors.New("team list: sports missing"), ErrDataUnavailable)
	require.True(t, IsDataUnavailable(fmt.Errorf("loading directory: %w", marked)))
}

func TestSentinelsAreDistinct(t *testing.T) {
	t.Parallel()

	marked := errors.Mark(errors.New("no key"), ErrConfig)
	require.True(t, IsConfig(marked))
	require.False(t, IsUnknownTeam(marked))
	require.False(t, IsDataUnavailable(marked))
}
