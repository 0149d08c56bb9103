// Package thread pins the calling goroutine to one CPU core.
package thread

/*
   #define _GNU_SOURCE
   #include <sched.h>
   #include <pthread.h>

   int pin_cpu(int core_id, cpu_set_t *old) {
       if (pthread_getaffinity_np(pthread_self(), sizeof(cpu_set_t), old) != 0) {
           return -1;
       }
       cpu_set_t cpuset;
       CPU_ZERO(&cpuset);
       CPU_SET(core_id, &cpuset);
       return pthread_setaffinity_np(pthread_self(), sizeof(cpu_set_t), &cpuset);
   }

   int restore_cpu(cpu_set_t *old) {
       return pthread_setaffinity_np(pthread_self(), sizeof(cpu_set_t), old);
   }
*/
import "C"

import (
	"runtime"

	"github.com/pkg/errors"
)

// Pin locks the calling goroutine to its OS thread and restricts that thread
// to coreID. The returned func restores the previous affinity and unlocks
// the thread; it must be called from the same goroutine.
func Pin(coreID int) (func(), error) {
	runtime.LockOSThread()

	var old C.cpu_set_t
	if rc := C.pin_cpu(C.int(coreID), &old); rc != 0 {
		runtime.UnlockOSThread()
		return nil, errors.Errorf("Can not pin thread to core %d (code %d)", coreID, int(rc))
	}

	return func() {
		if C.restore_cpu(&old) == 0 {
			runtime.UnlockOSThread()
		}
		// on failure the thread stays locked and dies with the goroutine
	}, nil
}
