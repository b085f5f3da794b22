package auth_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adpulse/gateway/internal/infra/auth"
)

func writeClientsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clients.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileClientStoreFindsClient(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	path := writeClientsFile(t, fmt.Sprintf(`
clients:
  svc-reporting:
    hashed_api_key: %q
    roles: ["admin"]
    description: nightly report job
`, string(hash)))

	store, err := auth.NewFileClientStore(path)
	require.NoError(t, err)
	assert.Equal(t, 1, store.GetClientCount())

	client, err := store.FindClientByID(context.Background(), "svc-reporting")
	require.NoError(t, err)
	assert.Equal(t, "svc-reporting", client.ID)
	assert.Equal(t, []string{"admin"}, client.Roles)
}

func TestFileClientStoreUnknownClient(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	path := writeClientsFile(t, fmt.Sprintf(`
clients:
  svc-reporting:
    hashed_api_key: %q
    roles: ["admin"]
`, string(hash)))

	store, err := auth.NewFileClientStore(path)
	require.NoError(t, err)

	_, err = store.FindClientByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, auth.ErrClientNotFound))
}

func TestFileClientStoreRejectsEmptyConfig(t *testing.T) {
	path := writeClientsFile(t, "clients: {}\n")

	_, err := auth.NewFileClientStore(path)
	assert.True(t, errors.Is(err, auth.ErrInvalidConfig))
}

func TestFileClientStoreRejectsNonBcryptHash(t *testing.T) {
	path := writeClientsFile(t, `
clients:
  svc-reporting:
    hashed_api_key: "plaintext-key"
    roles: ["admin"]
`)

	_, err := auth.NewFileClientStore(path)
	assert.Error(t, err)
}
