package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	DB        *pgxpool.Pool
	Namespace string
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := p.DB.QueryRow(ctx,
		`SELECT value FROM storefront_state WHERE namespace=$1 AND key=$2`,
		p.Namespace, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	_, err := p.DB.Exec(ctx, `
		INSERT INTO storefront_state(namespace, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, p.Namespace, key, value)
	return err
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	_, err := p.DB.Exec(ctx,
		`DELETE FROM storefront_state WHERE namespace=$1 AND key=$2`, p.Namespace, key)
	return err
}

func (p *Postgres) Close() error {
	p.DB.Close()
	return nil
}
