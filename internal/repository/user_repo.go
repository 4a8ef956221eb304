package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/senyabanana/rfq-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository - справочник пользователей и их ролей.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	ListUserIdsByRole(ctx context.Context, role models.Role) ([]string, error)
}

// PostgresUserRepository - реализация UserRepository для базы данных.
type PostgresUserRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresUserRepository создает новый экземпляр PostgresUserRepository.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// CreateUser добавляет пользователя в справочник. Повторная регистрация ничего не меняет.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = nowUTC()
	_, err := r.DB.Exec(
		ctx,
		`INSERT INTO users (id, email, name, role, created_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		user.ID,
		user.Email,
		user.Name,
		user.Role,
		user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &user, nil
}

// GetUserById получает пользователя по ID.
func (r *PostgresUserRepository) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, name, role, created_at FROM users WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, userId).Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &user, nil
}

// ListUserIdsByRole возвращает ID всех пользователей с указанной ролью.
func (r *PostgresUserRepository) ListUserIdsByRole(ctx context.Context, role models.Role) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT id FROM users WHERE role = $1 ORDER BY id`, role)
	if err != nil {
		return nil, fmt.Errorf("select users by role: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
