package mcpserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBlockedIP(t *testing.T) {
	tests := []struct {
		ip      string
		blocked bool
	}{
		{"127.0.0.1", true},
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"169.254.1.1", true},
		{"::1", true},
		{"0.0.0.0", true},
		{"fe80::1", true},
		{"fd00::1", true},
		{"8.8.8.8", false},
		{"1.1.1.1", false},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			require.NotNil(t, ip)
			assert.Equal(t, tt.blocked, isBlockedIP(ip))
		})
	}
}

func TestCheckHostLiteral(t *testing.T) {
	_, err := checkHost(context.Background(), "127.0.0.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
}

func TestNewSafeHTTPClient(t *testing.T) {
	assert.Equal(t, 30*time.Second, newSafeHTTPClient(0).Timeout)
	assert.Equal(t, 5*time.Second, newSafeHTTPClient(5*time.Second).Timeout)
	assert.NotNil(t, newSafeHTTPClient(0).CheckRedirect)
}
