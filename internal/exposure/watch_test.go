package exposure_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/clawshield/internal/exposure"
	"github.com/temirov/clawshield/internal/ui"
)

type countingChecker struct {
	calls   int
	onCheck func(calls int)
}

func (checker *countingChecker) Check(_ context.Context, port int) exposure.Report {
	checker.calls++
	if checker.onCheck != nil {
		checker.onCheck(checker.calls)
	}
	return exposure.Report{OK: true, Tool: exposure.ToolLsof, Port: port, Listeners: []exposure.Listener{}}
}

func TestClampWatchInterval(testInstance *testing.T) {
	testCases := []struct {
		name             string
		interval         time.Duration
		expectedInterval time.Duration
	}{
		{name: "unset", interval: 0, expectedInterval: exposure.DefaultWatchInterval},
		{name: "below_minimum", interval: 2 * time.Second, expectedInterval: exposure.MinimumWatchInterval},
		{name: "minimum", interval: 5 * time.Second, expectedInterval: 5 * time.Second},
		{name: "custom", interval: 45 * time.Second, expectedInterval: 45 * time.Second},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedInterval, exposure.ClampWatchInterval(testCase.interval))
		})
	}
}

func TestWatcherRunChecksOnEveryTick(testInstance *testing.T) {
	executionContext, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := make(chan time.Time)
	var requestedInterval time.Duration
	stopped := false
	tickerFactory := func(interval time.Duration) (<-chan time.Time, func()) {
		requestedInterval = interval
		return ticks, func() { stopped = true }
	}

	checker := &countingChecker{}
	checker.onCheck = func(calls int) {
		if calls == 3 {
			cancel()
		}
	}

	go func() {
		for tickIndex := 0; tickIndex < 2; tickIndex++ {
			select {
			case ticks <- time.Now():
			case <-executionContext.Done():
				return
			}
		}
	}()

	outputBuffer := &bytes.Buffer{}
	watcher := exposure.NewWatcher(checker, tickerFactory)
	runError := watcher.Run(executionContext, outputBuffer, ui.NewStatusStyler(outputBuffer), 18789, time.Second)
	require.NoError(testInstance, runError)

	require.Equal(testInstance, exposure.MinimumWatchInterval, requestedInterval)
	require.True(testInstance, stopped)
	require.Equal(testInstance, 3, checker.calls)

	output := outputBuffer.String()
	require.True(testInstance, strings.HasPrefix(output, "Watching gateway exposure every 5s. Press Ctrl+C to stop.\n"))
	require.Equal(testInstance, 3, strings.Count(output, "No listeners detected on port 18789.\n"))
}

func TestWatcherRunReturnsWhenContextAlreadyCancelled(testInstance *testing.T) {
	executionContext, cancel := context.WithCancel(context.Background())
	cancel()

	tickerFactory := func(time.Duration) (<-chan time.Time, func()) {
		return make(chan time.Time), func() {}
	}
	checker := &countingChecker{}

	outputBuffer := &bytes.Buffer{}
	runError := exposure.NewWatcher(checker, tickerFactory).Run(executionContext, outputBuffer, ui.NewStatusStyler(outputBuffer), 18789, 0)
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 1, checker.calls)
	require.Contains(testInstance, outputBuffer.String(), "every 30s")
}
