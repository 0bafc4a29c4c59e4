package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunID(t *testing.T) {
	id := NewRunID()

	require.NoError(t, id.Validate())
	assert.False(t, id.IsZero())

	// Two generated IDs must differ.
	assert.NotEqual(t, id, NewRunID())
}

func TestParseRunID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid uuid", input: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "not a uuid", input: "not-a-uuid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseRunID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
		})
	}
}

func TestRunID_JSONRoundTrip(t *testing.T) {
	id := NewRunID()

	data, err := json.Marshal(id)
	require.NoError(t, err)

	var decoded RunID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)
}

func TestRunID_UnmarshalInvalid(t *testing.T) {
	var id RunID
	err := json.Unmarshal([]byte(`"banana"`), &id)
	require.Error(t, err)
}
