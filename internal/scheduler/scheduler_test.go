package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dan9191/aurora/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) RunBillingSweep(context.Context) (*service.BillingReport, error) {
	c.calls.Add(1)
	return &service.BillingReport{Advanced: 1}, c.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New("every tuesday", &countingSweeper{}, quietLogger())
	assert.ErrorContains(t, err, "invalid billing schedule")
}

func TestRunOnce(t *testing.T) {
	sw := &countingSweeper{}
	s, err := New("0 8 * * *", sw, quietLogger())
	require.NoError(t, err)

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Advanced)
	assert.Equal(t, int32(1), sw.calls.Load())
}

func TestStart_RunsOnSchedule(t *testing.T) {
	sw := &countingSweeper{}
	s, err := New("@every 1s", sw, quietLogger())
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return sw.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestRun_LogsFailure(t *testing.T) {
	log, hook := test.NewNullLogger()
	s, err := New("@daily", &countingSweeper{err: errors.New("db down")}, log)
	require.NoError(t, err)

	s.run()
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "db down")
}
