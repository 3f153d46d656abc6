package pool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzx17/stealpool/pkg/types"
)

func TestTask_RunDeliversValue(t *testing.T) {
	h := newHandle[int]()
	tk := newTask(func(ctx context.Context) (int, error) {
		return 42, nil
	}, h)

	failed := tk.run(context.Background())

	assert.False(t, failed)
	v, err, ok := h.TryGet()
	require.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestTask_RunDeliversErrorVerbatim(t *testing.T) {
	want := errors.New("x")
	h := newHandle[int]()
	tk := newTask(func(ctx context.Context) (int, error) {
		return 0, want
	}, h)

	failed := tk.run(context.Background())

	assert.True(t, failed)
	_, err, ok := h.TryGet()
	require.True(t, ok)
	assert.Equal(t, want, err, "the callable's own error, not a generic failure")
}

func TestTask_RunRecoversPanic(t *testing.T) {
	h := newHandle[int]()
	tk := newTask(func(ctx context.Context) (int, error) {
		panic("kaboom")
	}, h)

	failed := tk.run(context.Background())

	assert.True(t, failed)
	_, err, ok := h.TryGet()
	require.True(t, ok)

	var panicErr *types.TaskPanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "kaboom", panicErr.Value)
	assert.NotEmpty(t, panicErr.Stack)
}

func TestTask_CancelResolvesHandle(t *testing.T) {
	h := newHandle[int]()
	tk := newTask(func(ctx context.Context) (int, error) {
		return 1, nil
	}, h)

	tk.cancel()

	_, err, ok := h.TryGet()
	require.True(t, ok)
	assert.ErrorIs(t, err, types.ErrTaskCancelled)
}

func TestDetachedTask_ErrorsGoToCallback(t *testing.T) {
	var got error
	tk := newDetachedTask(func(ctx context.Context) error {
		return errors.New("detached failure")
	}, func(err error) { got = err })

	failed := tk.run(context.Background())

	assert.True(t, failed)
	assert.EqualError(t, got, "detached failure")
}

func TestDetachedTask_PanicGoesToCallback(t *testing.T) {
	var got error
	tk := newDetachedTask(func(ctx context.Context) error {
		panic("detached kaboom")
	}, func(err error) { got = err })

	failed := tk.run(context.Background())

	assert.True(t, failed)
	var panicErr *types.TaskPanicError
	require.ErrorAs(t, got, &panicErr)
	assert.Equal(t, "detached kaboom", panicErr.Value)
}

func TestTask_IDsAreUnique(t *testing.T) {
	a := newDetachedTask(func(ctx context.Context) error { return nil }, func(error) {})
	b := newDetachedTask(func(ctx context.Context) error { return nil }, func(error) {})

	assert.NotEqual(t, a.id, b.id)
}
