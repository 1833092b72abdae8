package sqlite

import (
	"context"
	"database/sql"

	"github.com/signetlabs/signet/internal/auth/domain"
)

type identitiesRepo struct {
	db *sql.DB
}

const identityColumns = `
	id, email, credential_digest,
	provider_name, provider_subject_id,
	provider_access_token, provider_refresh_token,
	created_at, updated_at`

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE id = ?`, id)
	return scanIdentity(row)
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE email = ?`, email)
	return scanIdentity(row)
}

func (r *identitiesRepo) GetIdentityByProvider(
	ctx context.Context,
	providerName, subjectID string,
) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE provider_name = ? AND provider_subject_id = ?`, providerName, subjectID)
	return scanIdentity(row)
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, ident domain.Identity) error {
	ts := now()
	if !ident.CreatedAt.IsZero() {
		ts = ident.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (
			id, email, credential_digest,
			provider_name, provider_subject_id,
			provider_access_token, provider_refresh_token,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ident.ID,
		ident.Email,
		mapStringNull(ident.CredentialDigest),
		mapStringNull(ident.ProviderName),
		mapStringNull(ident.ProviderSubjectID),
		mapStringNull(ident.ProviderAccessToken),
		mapStringNull(ident.ProviderRefreshToken),
		ts,
		ts,
	)
	return mapConstraint(err)
}

func (r *identitiesRepo) LinkProviderIdentity(
	ctx context.Context,
	id, providerName, subjectID, accessToken, refreshToken string,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE identities
		SET provider_name = ?,
		    provider_subject_id = ?,
		    provider_access_token = ?,
		    provider_refresh_token = ?,
		    updated_at = ?
		WHERE id = ?`,
		providerName,
		subjectID,
		mapStringNull(accessToken),
		mapStringNull(refreshToken),
		now(),
		id,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRow(res)
}

func (r *identitiesRepo) UpdateProviderTokens(
	ctx context.Context,
	id, accessToken, refreshToken string,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE identities
		SET provider_access_token = ?,
		    provider_refresh_token = ?,
		    updated_at = ?
		WHERE id = ?`,
		mapStringNull(accessToken),
		mapStringNull(refreshToken),
		now(),
		id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (domain.Identity, error) {
	var (
		ident                                  domain.Identity
		digest, pname, psub, paccess, prefresh sql.NullString
	)

	err := row.Scan(
		&ident.ID,
		&ident.Email,
		&digest,
		&pname,
		&psub,
		&paccess,
		&prefresh,
		&ident.CreatedAt,
		&ident.UpdatedAt,
	)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}

	ident.CredentialDigest = mapNullString(digest)
	ident.ProviderName = mapNullString(pname)
	ident.ProviderSubjectID = mapNullString(psub)
	ident.ProviderAccessToken = mapNullString(paccess)
	ident.ProviderRefreshToken = mapNullString(prefresh)

	return ident, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
