package session

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sealer encrypts values at rest. The platform crypto service satisfies it.
type Sealer interface {
	Encrypt(plain []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// KeyStore persists session key groups in the session_keys table.
type KeyStore struct {
	DB     *pgxpool.Pool
	Sealer Sealer
}

func NewKeyStore(db *pgxpool.Pool, sealer Sealer) *KeyStore {
	return &KeyStore{DB: db, Sealer: sealer}
}

func (s *KeyStore) Save(ctx context.Context, tabID string, values map[string]string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM session_keys WHERE tab_id = $1", tabID); err != nil {
		return err
	}
	for key, value := range values {
		sealed, err := s.seal(value)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
    INSERT INTO session_keys (tab_id, key, value, updated_at)
    VALUES ($1,$2,$3,now())
  `, tabID, key, sealed); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *KeyStore) Load(ctx context.Context, tabID string) (map[string]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT key, value FROM session_keys WHERE tab_id = $1", tabID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var key string
		var sealed []byte
		if err := rows.Scan(&key, &sealed); err != nil {
			return nil, err
		}
		value, err := s.open(sealed)
		if err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, rows.Err()
}

func (s *KeyStore) Remove(ctx context.Context, tabID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM session_keys WHERE tab_id = $1", tabID)
	return err
}

func (s *KeyStore) seal(value string) ([]byte, error) {
	if s.Sealer == nil || value == "" {
		return []byte(value), nil
	}
	return s.Sealer.Encrypt([]byte(value))
}

func (s *KeyStore) open(sealed []byte) (string, error) {
	if s.Sealer == nil || len(sealed) == 0 {
		return string(sealed), nil
	}
	plain, err := s.Sealer.Decrypt(sealed)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
