package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAt(t *testing.T) {
	require.NoError(t, At(3, nil))

	err := At(7, fmt.Errorf("%w: expected u8", ErrTagMismatch))
	require.ErrorIs(t, err, ErrTagMismatch)
	require.EqualError(t, err, "at offset 7: tag mismatch: expected u8")

	off, ok := Offset(err)
	require.True(t, ok)
	require.Equal(t, 7, off)
}

func TestAt_InnermostWins(t *testing.T) {
	inner := At(12, ErrUnexpectedEOF)
	outer := At(2, fmt.Errorf("decode field: %w", inner))

	off, ok := Offset(outer)
	require.True(t, ok)
	require.Equal(t, 12, off)
	require.ErrorIs(t, outer, ErrUnexpectedEOF)
}

func TestOffset_Missing(t *testing.T) {
	_, ok := Offset(errors.New("plain"))
	require.False(t, ok)
}
