package repository

import (
	"context"

	"github.com/smartcalendar/backend/internal/database"
	"github.com/smartcalendar/backend/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `user_id, username, email, password_hash, device_token`

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, device_token)
		 VALUES ($1, $2, $3, $4)
		 RETURNING user_id`,
		user.Username, user.Email, user.PasswordHash, user.DeviceToken,
	).Scan(&user.ID)
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	return r.scanUser(r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.scanUser(r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

// GetByLoginOrEmail resolves the "loginOrEmail" identifier used by the
// invite endpoints: an exact username match or a case-insensitive email.
func (r *UserRepository) GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*models.User, error) {
	return r.scanUser(r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE username = $1 OR LOWER(email) = LOWER($1)`, loginOrEmail))
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Email,
			&user.PasswordHash, &user.DeviceToken); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateEmail(ctx context.Context, userID int64, email string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET email = $1 WHERE user_id = $2`, email, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateDeviceToken(ctx context.Context, userID int64, deviceToken *string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET device_token = $1 WHERE user_id = $2`, deviceToken, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateCredentials(ctx context.Context, userID int64, username, passwordHash string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET username = $1, password_hash = $2 WHERE user_id = $3`,
		username, passwordHash, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.DeviceToken)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return user, nil
}
