// Package dbtest поднимает PostgreSQL в контейнере для интеграционных тестов.
package dbtest

import (
	"context"
	"fmt"
	"taskHub/internal/config"
	"taskHub/internal/database"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type Postgres struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	URL       string
}

// Start запускает контейнер, применяет миграции и открывает пул.
func Start(ctx context.Context) (*Postgres, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("запуск контейнера: %w", err)
	}

	pg := &Postgres{Container: container}

	host, err := container.Host(ctx)
	if err != nil {
		pg.Close(ctx)
		return nil, fmt.Errorf("адрес контейнера: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		pg.Close(ctx)
		return nil, fmt.Errorf("порт контейнера: %w", err)
	}
	pg.URL = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	if err := database.Migrate(pg.URL); err != nil {
		pg.Close(ctx)
		return nil, err
	}

	pg.Pool, err = database.NewPool(ctx, config.DatabaseConfig{
		URL:            pg.URL,
		MaxConnections: 5,
		MinConnections: 1,
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		pg.Close(ctx)
		return nil, err
	}
	return pg, nil
}

// Truncate очищает таблицы между тестами.
func (p *Postgres) Truncate(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx, "TRUNCATE TABLE task, account")
	return err
}

func (p *Postgres) Close(ctx context.Context) {
	if p.Pool != nil {
		p.Pool.Close()
	}
	if p.Container != nil {
		_ = p.Container.Terminate(ctx)
	}
}
