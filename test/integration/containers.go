// Package integration spins up throwaway Postgres, Kafka, and Redis
// containers for end-to-end tests.
package integration

import (
	"context"
	_ "embed"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

//go:embed schema.sql
var schema string

type Env struct {
	PG        *postgres.PostgresContainer
	Kafka     *kafka.KafkaContainer
	Redis     *tcredis.RedisContainer
	PGURL     string
	KAddr     []string
	RedisAddr string
	Cancel    context.CancelFunc
}

func Setup(ctx context.Context) (*Env, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	pgC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("pos"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		cancel()
		return nil, err
	}

	kafkaC, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		kafka.WithClusterID("test-cluster"),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	kafkaAddress, err := kafkaC.Brokers(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	redisC, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		cancel()
		return nil, err
	}
	redisURL, err := redisC.ConnectionString(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	return &Env{
		PG:        pgC,
		Kafka:     kafkaC,
		Redis:     redisC,
		PGURL:     pgURL,
		KAddr:     kafkaAddress,
		RedisAddr: redisURL,
		Cancel:    cancel,
	}, nil
}

// Migrate applies the schema to the test database.
func (e *Env) Migrate(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, e.PGURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	_, err = pool.Exec(ctx, schema)
	return err
}

func (e *Env) Teardown(ctx context.Context) {
	e.Cancel()
	_ = e.Redis.Terminate(ctx)
	_ = e.Kafka.Terminate(ctx)
	_ = e.PG.Terminate(ctx)
}
