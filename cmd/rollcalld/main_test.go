package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollcall.pid")
	assert.False(t, isAlreadyRun(path))

	require.NoError(t, writeLockFile(path))
	pid, err := readPid(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
	assert.True(t, isAlreadyRun(path))
}

func TestIsAlreadyRun_IgnoresBadPidFile(t *testing.T) {
	for _, body := range []string{"", "garbage", "-3", strconv.Itoa(1 << 30)} {
		path := filepath.Join(t.TempDir(), "rollcall.pid")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		assert.False(t, isAlreadyRun(path), body)
	}
}
