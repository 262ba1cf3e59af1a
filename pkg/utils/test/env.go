package test

import (
	"os"
	"testing"
)

// EnvVars holds environment values an integration test depends on.
// Construction skips the test when any key is absent, so such tests
// opt in through the environment.
type EnvVars map[string]string

func NewEnvVars(t *testing.T, keys ...string) EnvVars {
	vars := make(EnvVars, len(keys))
	for _, key := range keys {
		v, ok := os.LookupEnv(key)
		if !ok {
			t.Skipf("%s is not set", key)
		}
		vars[key] = v
	}
	return vars
}

func (x EnvVars) Get(key string) string {
	v, ok := x[key]
	if !ok {
		panic("env var was not requested at setup: " + key)
	}
	return v
}
