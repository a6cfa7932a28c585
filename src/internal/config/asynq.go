package config

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
)

func asynqRedisOpt(v *viper.Viper) asynq.RedisClientOpt {
	host := v.GetString("redis.host")
	if host == "" {
		host = "127.0.0.1"
	}

	port := v.GetInt("redis.port")
	if port == 0 {
		port = 6379
	}

	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

func NewAsynqClient(v *viper.Viper) *asynq.Client {
	return asynq.NewClient(asynqRedisOpt(v))
}

func NewAsynqServer(v *viper.Viper) *asynq.Server {
	return asynq.NewServer(asynqRedisOpt(v), asynq.Config{
		Concurrency: v.GetInt("asynq.concurrency"),
	})
}

// NewAsynqScheduler registers the recurring installment sweep. The cron spec
// defaults to hourly when not configured.
func NewAsynqScheduler(v *viper.Viper, task *asynq.Task) *asynq.Scheduler {
	scheduler := asynq.NewScheduler(asynqRedisOpt(v), nil)

	spec := v.GetString("asynq.installments_cron")
	if spec == "" {
		spec = "0 * * * *"
	}
	if _, err := scheduler.Register(spec, task); err != nil {
		panic(err)
	}

	return scheduler
}
