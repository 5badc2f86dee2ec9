// Package secrets abstracts credential lookup for the service.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound reports that no secret exists under the requested name.
var ErrNotFound = errors.New("secrets: not found")

// Store resolves a named secret to its value.
type Store interface {
	Get(ctx context.Context, name string) (string, error)
}

// EnvStore reads secrets from environment variables. The secret name is the
// variable name.
type EnvStore struct{}

func NewEnvStore() EnvStore { return EnvStore{} }

func (EnvStore) Get(_ context.Context, name string) (string, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return value, nil
}

// StaticStore serves secrets from a fixed map; used in tests.
type StaticStore map[string]string

func (s StaticStore) Get(_ context.Context, name string) (string, error) {
	value, ok := s[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return value, nil
}
