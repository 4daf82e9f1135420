package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/dberrors"
)

const userColumns = `id, name, email, login, password, cpf, rg, role, is_active, created_at, updated_at, deleted_at`

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Login, &u.Password, &u.CPF, &u.RG,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. Email, login and CPF uniqueness among live
// users is enforced by partial indexes; violations map to ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, login, password, cpf, rg, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.Name, user.Email, user.Login, user.Password, user.CPF, user.RG,
		user.Role, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "") {
			return apperrors.NewConflictError("user with this email, login or CPF already exists")
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a live user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByLogin retrieves a live user by login name.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1 AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRow(ctx, query, login))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving user by login: %w", err)
	}
	return user, nil
}

// GetAllByRole retrieves all live users with the given role.
func (r *UserRepository) GetAllByRole(ctx context.Context, role models.RoleType) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND deleted_at IS NULL ORDER BY name`

	rows, err := r.db.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update updates a user's mutable fields.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, rg = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5 AND deleted_at IS NULL
	`

	cmdTag, err := r.db.Exec(ctx, query, user.Name, user.Email, user.RG, user.IsActive, user.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "") {
			return apperrors.NewConflictError("email already in use")
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDelete marks a user deleted. The delete is rejected when the user
// still holds any live enrollment; checks and write share one transaction.
func (r *UserRepository) SoftDelete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Locking the user row first orders this delete against enrollment
	// inserts, which take FOR SHARE on the student row before writing.
	cmdTag, err := tx.Exec(ctx, `
		UPDATE users SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	var hasEnrollments bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND deleted_at IS NULL)`,
		id).Scan(&hasEnrollments)
	if err != nil {
		return fmt.Errorf("error checking enrollments: %w", err)
	}
	if hasEnrollments {
		return apperrors.NewRestrictedDeleteError("user has enrollments and cannot be deleted")
	}

	return tx.Commit(ctx)
}
