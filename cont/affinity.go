package cont

import "runtime"

// goroutineID returns the calling goroutine's runtime-assigned id by
// scraping it out of a single-frame stack trace — the same trick the
// teacher's event loop uses to tell its owning goroutine apart from
// callers on other goroutines. Here it has no scheduling role (a Runtime
// dispatches Blocking/NonBlocking work across a worker pool, not a
// single dedicated loop goroutine); it exists purely so suspend/resume
// log entries can be correlated with the goroutine that produced them,
// which matters once a fiber's Start and its eventual Resume happen on
// different goroutines.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
