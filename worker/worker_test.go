package worker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestSubmitSurvivesPanics(t *testing.T) {
	var (
		wg  sync.WaitGroup
		ran atomic.Int32
	)
	for i := range 8 {
		wg.Add(1)
		Submit(func() {
			defer wg.Done()
			if i%2 == 0 {
				panic("boom")
			}
			ran.Inc()
		})
	}
	wg.Wait()
	require.EqualValues(t, 4, ran.Load())
}
