package fetcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umeng-push/internal/task"
)

type fakeTaken struct {
	id     uint64
	data   interface{}
	ackErr error
	acked  bool
	buried bool
}

func (f *fakeTaken) Id() uint64        { return f.id }
func (f *fakeTaken) Data() interface{} { return f.data }

func (f *fakeTaken) Ack() error {
	f.acked = true
	return f.ackErr
}

func (f *fakeTaken) Bury() error {
	f.buried = true
	return nil
}

func TestDecodeAcksTask(t *testing.T) {
	qt := &fakeTaken{
		id: 12,
		data: []interface{}{"shop", "android", "unicast", "token",
			map[interface{}]interface{}{"title": "hi"}},
	}

	got, err := decode(qt)

	require.NoError(t, err)
	assert.True(t, qt.acked)
	assert.False(t, qt.buried)
	assert.Equal(t, &task.Task{
		ID:      12,
		Project: "shop",
		Type:    task.Android,
		Cast:    "unicast",
		To:      "token",
		Payload: map[string]any{"title": "hi"},
	}, got)
}

func TestDecodeBuriesBadTuple(t *testing.T) {
	tests := []struct {
		name string
		data interface{}
	}{
		{"not a tuple", "garbage"},
		{"missing cast", []interface{}{"shop", "android"}},
		{"payload not a map", []interface{}{"shop", "ios", "broadcast", "", 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt := &fakeTaken{id: 3, data: tt.data}

			got, err := decode(qt)

			assert.ErrorIs(t, err, ErrContinue)
			assert.Nil(t, got)
			assert.True(t, qt.buried)
			assert.False(t, qt.acked)
		})
	}
}

func TestDecodeAckFailure(t *testing.T) {
	qt := &fakeTaken{
		id:     5,
		data:   []interface{}{"shop", "ios", "broadcast"},
		ackErr: errors.New("connection lost"),
	}

	got, err := decode(qt)

	assert.ErrorIs(t, err, ErrContinue)
	assert.Nil(t, got)
	assert.True(t, qt.acked)
	assert.False(t, qt.buried)
}
