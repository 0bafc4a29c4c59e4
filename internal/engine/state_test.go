package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStateIsTerminal(t *testing.T) {
	assert.False(t, RunStateSeeded.IsTerminal())
	assert.False(t, RunStateLooping.IsTerminal())
	assert.True(t, RunStateDone.IsTerminal())
	assert.True(t, RunStateFailed.IsTerminal())
}

func TestRunStateCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    RunState
		to      RunState
		allowed bool
	}{
		{RunStateSeeded, RunStateLooping, true},
		{RunStateSeeded, RunStateDone, false},
		{RunStateSeeded, RunStateFailed, false},
		{RunStateLooping, RunStateDone, true},
		{RunStateLooping, RunStateFailed, true},
		{RunStateLooping, RunStateSeeded, false},
		{RunStateDone, RunStateLooping, false},
		{RunStateDone, RunStateFailed, false},
		{RunStateFailed, RunStateLooping, false},
		{RunStateFailed, RunStateDone, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestRunStateString(t *testing.T) {
	assert.Equal(t, "seeded", RunStateSeeded.String())
	assert.Equal(t, "looping", RunStateLooping.String())
	assert.Equal(t, "done", RunStateDone.String())
	assert.Equal(t, "failed", RunStateFailed.String())
}
