package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvTrustedProxies(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	t.Setenv("TRUSTED_PROXIES", "")
	LoadEnv()
	assert.Empty(t, TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, 127.0.0.1 ,")
	LoadEnv()
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, TrustedProxies)
}
