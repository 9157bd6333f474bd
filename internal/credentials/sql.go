package credentials

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/oauth2"

	"github.com/oszuidwest/zwfm-directviewer/internal/apperrors"
)

// credentialRow mirrors the credentials table.
type credentialRow struct {
	UserID       string `db:"user_id"`
	AccessToken  string `db:"access_token"`
	RefreshToken string `db:"refresh_token"`
	TokenType    string `db:"token_type"`
	Expiry       int64  `db:"expiry"`
	UpdatedAt    int64  `db:"updated_at"`
}

// SQLStore persists sealed tokens in the credentials table.
// The schema is owned by the database package migrations.
type SQLStore struct {
	db     *sqlx.DB
	sealer *Sealer
	now    func() time.Time
}

// NewSQLStore creates a store on top of an already migrated database.
func NewSQLStore(db *sqlx.DB, sealer *Sealer) *SQLStore {
	return &SQLStore{db: db, sealer: sealer, now: time.Now}
}

func (s *SQLStore) Get(ctx context.Context, userID string) (*oauth2.Token, error) {
	var row credentialRow
	query := s.db.Rebind(`SELECT user_id, access_token, refresh_token, token_type, expiry, updated_at
		FROM credentials WHERE user_id = ?`)
	if err := s.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, apperrors.Storage("failed to load credential").Wrap(err)
	}

	access, err := s.sealer.Open(row.AccessToken)
	if err != nil {
		return nil, apperrors.Storage("failed to unseal credential").WithInternal("user %s", userID).Wrap(err)
	}
	refresh, err := s.sealer.Open(row.RefreshToken)
	if err != nil {
		return nil, apperrors.Storage("failed to unseal credential").WithInternal("user %s", userID).Wrap(err)
	}

	tok := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    row.TokenType,
	}
	if row.Expiry > 0 {
		tok.Expiry = time.Unix(row.Expiry, 0)
	}
	return tok, nil
}

// Put replaces the stored token inside a transaction.
// Delete-then-insert keeps the statement portable between MySQL and SQLite.
func (s *SQLStore) Put(ctx context.Context, userID string, token *oauth2.Token) error {
	access, err := s.sealer.Seal(token.AccessToken)
	if err != nil {
		return apperrors.Storage("failed to seal credential").Wrap(err)
	}
	refresh, err := s.sealer.Seal(token.RefreshToken)
	if err != nil {
		return apperrors.Storage("failed to seal credential").Wrap(err)
	}

	row := credentialRow{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    token.TokenType,
		UpdatedAt:    s.now().Unix(),
	}
	if !token.Expiry.IsZero() {
		row.Expiry = token.Expiry.Unix()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Storage("failed to save credential").Wrap(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM credentials WHERE user_id = ?`), userID); err != nil {
		return apperrors.Storage("failed to save credential").Wrap(err)
	}
	if _, err := tx.NamedExecContext(ctx, `INSERT INTO credentials
		(user_id, access_token, refresh_token, token_type, expiry, updated_at)
		VALUES (:user_id, :access_token, :refresh_token, :token_type, :expiry, :updated_at)`, row); err != nil {
		return apperrors.Storage("failed to save credential").Wrap(err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage("failed to save credential").Wrap(err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM credentials WHERE user_id = ?`), userID); err != nil {
		return apperrors.Storage("failed to delete credential").WithInternal("user %s", userID).Wrap(err)
	}
	return nil
}

func (s *SQLStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM credentials WHERE updated_at < ?`), before.Unix())
	if err != nil {
		return 0, apperrors.Storage("failed to prune credentials").Wrap(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Storage("failed to prune credentials").Wrap(err)
	}
	return affected, nil
}
