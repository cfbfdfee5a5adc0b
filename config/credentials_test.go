package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const key = `{"type":"service_account","project_id":"mnav","client_email":"bot@mnav.iam.gserviceaccount.com"}`

func readOnly(files map[string]string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		if v, ok := files[name]; ok {
			return []byte(v), nil
		}
		return nil, os.ErrNotExist
	}
}

func TestResolveCredentials_EnvWins(t *testing.T) {
	files := readOnly(map[string]string{"serviceAccountKey.json": `{"client_email":"file@x"}`})

	creds, err := resolveCredentials(env(map[string]string{CredentialsEnv: key}), files, "serviceAccountKey.json")

	require.NoError(t, err)
	assert.Equal(t, CredentialsEnv, creds.Source)
	assert.JSONEq(t, key, string(creds.JSON))
}

func TestResolveCredentials_FileFallback(t *testing.T) {
	files := readOnly(map[string]string{"serviceAccountKey.json": key})

	creds, err := resolveCredentials(env(nil), files, "serviceAccountKey.json")

	require.NoError(t, err)
	assert.Equal(t, "serviceAccountKey.json", creds.Source)
}

func TestResolveCredentials_Failures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{"env not json", map[string]string{CredentialsEnv: "not-json"}, "serviceAccountKey.json"},
		{"env missing client email", map[string]string{CredentialsEnv: `{"type":"service_account"}`}, ""},
		{"file missing", nil, "absent.json"},
		{"nothing configured", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveCredentials(env(tt.env), readOnly(nil), tt.file)

			var initErr *InitError
			require.ErrorAs(t, err, &initErr)
			assert.Contains(t, err.Error(), "initialization failed")
		})
	}
}
