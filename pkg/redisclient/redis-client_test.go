package redisclient

import (
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	s := miniredis.RunT(t)

	host, portStr, _ := strings.Cut(s.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	rc, err := NewRedisClient(&Config{Host: host, Port: port})
	require.NoError(t, err)
	defer rc.Close()
}

func TestNewRedisClientUnreachable(t *testing.T) {
	s := miniredis.RunT(t)
	host, portStr, _ := strings.Cut(s.Addr(), ":")
	port, _ := strconv.Atoi(portStr)
	s.Close()

	_, err := NewRedisClient(&Config{Host: host, Port: port})
	assert.Error(t, err)
}
