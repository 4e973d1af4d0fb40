package startup

import (
	"context"
	"fmt"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func recorded(name string, log *[]string) Task {
	return Task{
		Name: name,
		Start: func(_ context.Context) error {
			*log = append(*log, "start:"+name)
			return nil
		},
		Stop: func(_ context.Context) error {
			*log = append(*log, "stop:"+name)
			return nil
		},
	}
}

func TestStartHonorsDeclarationOrder(t *testing.T) {
	var log []string
	s := New(testLogger(), 1)
	s.Add(recorded("database", &log))
	s.Add(recorded("migrations", &log))
	s.Add(recorded("service", &log))

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"start:database", "start:migrations", "start:service"}, log)
}

func TestStartRunsRequirementsFirst(t *testing.T) {
	var log []string
	s := New(testLogger(), 1)

	dependent := recorded("service", &log)
	dependent.Requires = []string{"database"}
	s.Add(dependent)
	s.Add(recorded("database", &log))

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"start:database", "start:service"}, log)
}

func TestStartRetriesWithoutRestartingStartedTasks(t *testing.T) {
	var log []string
	s := New(testLogger(), 3)
	s.Add(recorded("database", &log))

	failures := 1
	s.Add(Task{
		Name:     "kafka",
		Requires: []string{"database"},
		Start: func(_ context.Context) error {
			if failures > 0 {
				failures--
				return fmt.Errorf("broker unavailable")
			}
			log = append(log, "start:kafka")
			return nil
		},
	})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"start:database", "start:kafka"}, log, "the started task must not rerun on retry")
}

func TestStartFailsAfterMaxAttempts(t *testing.T) {
	s := New(testLogger(), 2)
	s.Add(Task{
		Name:  "database",
		Start: func(_ context.Context) error { return fmt.Errorf("connection refused") },
	})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStartUnknownRequirement(t *testing.T) {
	s := New(testLogger(), 1)
	s.Add(Task{Name: "service", Requires: []string{"database"}})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'database' is not registered")
}

func TestStopReversesOrder(t *testing.T) {
	var log []string
	s := New(testLogger(), 1)
	s.Add(recorded("database", &log))
	s.Add(recorded("kafka", &log))
	s.Add(recorded("tracing", &log))

	require.NoError(t, s.Start(context.Background()))
	log = nil

	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []string{"stop:tracing", "stop:kafka", "stop:database"}, log)
}

func TestStopSkipsTasksThatNeverStarted(t *testing.T) {
	var log []string
	s := New(testLogger(), 1)
	s.Add(recorded("database", &log))
	s.Add(Task{
		Name:  "kafka",
		Start: func(_ context.Context) error { return fmt.Errorf("broker unavailable") },
		Stop: func(_ context.Context) error {
			log = append(log, "stop:kafka")
			return nil
		},
	})

	require.Error(t, s.Start(context.Background()))
	log = nil

	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []string{"stop:database"}, log)
}

func TestNilStartAndStopAreAllowed(t *testing.T) {
	s := New(testLogger(), 1)
	s.Add(Task{Name: "placeholder"})

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}
