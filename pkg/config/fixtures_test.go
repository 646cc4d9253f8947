package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixtures = `
developments:
  - id: DEV-1
    stages:
      - id: 1
        name: Definición
        code: "10"
      - id: 2
        name: Desarrollo
        code: "20"
        required_fields: [Ticket]
        optional_fields: [Observaciones]
`

func writeFixtures(t *testing.T, content string) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0600))

	return filePath
}

func TestLoadFixtures(t *testing.T) {
	fixtures, err := LoadFixtures(writeFixtures(t, sampleFixtures))

	require.NoError(t, err)
	require.Len(t, fixtures.Developments, 1)

	development := fixtures.Developments[0]
	assert.Equal(t, "DEV-1", development.ID)
	require.Len(t, development.Stages, 2)

	assert.Equal(t, "20", development.Stages[1].Stage().StageCode)

	plain := development.Stages[0].FieldConfig()
	assert.False(t, plain.HasDynamicFields)
	assert.Equal(t, []string{}, plain.RequiredFields)

	dynamic := development.Stages[1].FieldConfig()
	assert.Equal(t, 2, dynamic.StageID)
	assert.True(t, dynamic.HasDynamicFields)
	assert.Equal(t, []string{"Ticket"}, dynamic.RequiredFields)
	assert.Equal(t, []string{"Observaciones"}, dynamic.OptionalFields)
}

func TestLoadFixtures_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "empty", content: "developments: []", wantErr: "at least one development"},
		{name: "invalid yaml", content: "developments: [", wantErr: "failed to parse YAML"},
		{name: "missing id", content: "developments:\n  - stages: []", wantErr: "developments[0]: id is required"},
		{
			name:    "duplicate development",
			content: "developments:\n  - id: A\n  - id: A",
			wantErr: "developments[1]: duplicate id 'A'",
		},
		{
			name:    "stage without name",
			content: "developments:\n  - id: A\n    stages:\n      - id: 1",
			wantErr: "developments[0].stages[0]: name is required",
		},
		{
			name:    "duplicate stage",
			content: "developments:\n  - id: A\n    stages:\n      - {id: 1, name: x}\n      - {id: 1, name: y}",
			wantErr: "developments[0].stages[1]: duplicate id 1",
		},
		{
			name:    "non positive stage",
			content: "developments:\n  - id: A\n    stages:\n      - {id: 0, name: x}",
			wantErr: "id must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadFixtures(writeFixtures(t, tt.content))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFixtures_MissingFile(t *testing.T) {
	_, err := LoadFixtures(filepath.Join(t.TempDir(), "missing.yaml"))

	require.ErrorIs(t, err, os.ErrNotExist)
}
