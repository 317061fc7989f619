//go:build linux

package affinity

import (
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// ProcessMask queries the process's current CPU affinity via
// sched_getaffinity, falling back to runtime.NumCPU() if the syscall fails.
func ProcessMask() (Mask, error) {
	var cpuSet unix.CPUSet
	if err := unix.SchedGetaffinity(os.Getpid(), &cpuSet); err != nil {
		return All(), nil
	}
	// maxProbedCPU comfortably covers real-world core counts; IsSet simply
	// reports false past the set's actual size.
	const maxProbedCPU = 4096
	cpus := make([]int, 0, runtime.NumCPU())
	for cpu := 0; cpu < maxProbedCPU && len(cpus) < cpuSet.Count(); cpu++ {
		if cpuSet.IsSet(cpu) {
			cpus = append(cpus, cpu)
		}
	}
	if len(cpus) == 0 {
		return All(), nil
	}
	return FromCPUs(cpus...), nil
}

// PinThread pins the calling OS thread to the given mask via
// sched_setaffinity. Callers must have already called
// runtime.LockOSThread(): pinning a goroutine that is free to migrate would
// be meaningless. Pinning failure is reported to the caller, which per
// spec.md treats it as a non-fatal, logged soft failure.
func PinThread(m Mask) error {
	var cpuSet unix.CPUSet
	for _, cpu := range m.CPUs() {
		cpuSet.Set(cpu)
	}
	return unix.SchedSetaffinity(0, &cpuSet)
}
