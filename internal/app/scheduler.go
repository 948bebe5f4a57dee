package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/metrics"
)

const (
	sessionMaxIdle = 2 * time.Hour
	limiterMaxIdle = 10 * time.Minute
)

type cronLogger struct {
	log logrus.FieldLogger
}

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.log.WithFields(kvFields(kv)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.WithError(err).WithFields(kvFields(kv)).Error(msg)
}

func kvFields(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			f[k] = kv[i+1]
		}
	}
	return f
}

// newScheduler registers the housekeeping sweeps over in-process state.
// Nothing here touches the database.
func newScheduler(c *Container) *cron.Cron {
	log := c.Logger.WithField("component", "cron")
	sched := cron.New(cron.WithLogger(cronLogger{log: log}), cron.WithChain(cron.Recover(cronLogger{log: log})))

	add := func(spec, name string, fn func()) {
		if _, err := sched.AddFunc(spec, fn); err != nil {
			log.WithError(err).WithField("job", name).Error("cron job not registered")
		}
	}

	add("@every 5m", "workflow_sessions", func() {
		n := c.Sessions.Sweep(sessionMaxIdle)
		metrics.SetWorkflowSessions(c.Sessions.Len())
		if n > 0 {
			log.WithField("dropped", n).Debug("idle workflow sessions swept")
		}
	})
	add("@every 1m", "rate_limiter", func() {
		if c.Limiter.Local != nil {
			c.Limiter.Local.Sweep(limiterMaxIdle)
		}
	})
	add("@every 10m", "revocations", func() {
		c.Revocations.Sweep()
	})
	add("@every 10m", "chat_conversations", func() {
		c.ChatUC.Sweep()
	})

	return sched
}
