package worker

import (
	"runtime"

	"github.com/getsentry/sentry-go"
)

var workerQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	for {
		f, ok := <-workerQueue
		if !ok {
			return
		}
		run(f)
	}
}

func run(f func()) {
	defer sentry.Recover()
	f()
}

// Submit runs f on one of the shared workers. It blocks while every worker is busy. A
// panic in f is reported to sentry and does not crash the process.
func Submit(f func()) {
	workerQueue <- f
}
