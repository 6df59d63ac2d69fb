package sessionguard

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// CredentialRecord is the single-row model behind BunTokenStore. It plays the
// role browser local storage plays for a web shell: one keyed slot holding
// the bearer credential across restarts.
type CredentialRecord struct {
	bun.BaseModel `bun:"table:credentials,alias:crd"`
	Key           string     `bun:"key,pk" json:"key"`
	Value         string     `bun:"value" json:"value,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

const credentialKeyToken = "token"

// BunTokenStore persists the bearer token in a local database so the session
// survives client restarts.
type BunTokenStore struct {
	db *bun.DB
}

// NewBunTokenStore wires a token store over an existing bun database handle.
func NewBunTokenStore(db *bun.DB) *BunTokenStore {
	return &BunTokenStore{db: db}
}

// OpenLocalTokenStore opens (and migrates) a sqlite-backed token store at the
// given DSN. Use ":memory:" for an ephemeral store.
func OpenLocalTokenStore(ctx context.Context, dsn string) (*BunTokenStore, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*CredentialRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BunTokenStore{db: db}, nil
}

func (s *BunTokenStore) Get(ctx context.Context) (string, error) {
	record := &CredentialRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("key = ?", credentialKeyToken).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return record.Value, nil
}

func (s *BunTokenStore) Set(ctx context.Context, token string) error {
	now := time.Now()
	record := &CredentialRecord{
		Key:       credentialKeyToken,
		Value:     token,
		UpdatedAt: &now,
	}

	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *BunTokenStore) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*CredentialRecord)(nil)).
		Where("key = ?", credentialKeyToken).
		Exec(ctx)
	return err
}

// Close releases the underlying database handle.
func (s *BunTokenStore) Close() error {
	return s.db.Close()
}
