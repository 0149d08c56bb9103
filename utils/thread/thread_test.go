package thread

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestPinAllowedCore(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var allowed unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &allowed))
	core := -1
	for i := 0; i < 1024; i++ {
		if allowed.IsSet(i) {
			core = i
			break
		}
	}
	require.GreaterOrEqual(t, core, 0)

	restore, err := Pin(core)
	require.NoError(t, err)

	var pinned unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &pinned))
	require.Equal(t, 1, pinned.Count())
	require.True(t, pinned.IsSet(core))

	restore()

	var after unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &after))
	require.Equal(t, allowed.Count(), after.Count())
}
