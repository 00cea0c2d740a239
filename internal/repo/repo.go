// Package repo is the Postgres persistence layer: user accounts and saved
// project snapshots of the load register.
package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"Girder/internal/register"
)

var ErrNotFound = errors.New("not found")

// Project is a named, persisted snapshot of a session's load register.
type Project struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Loads     []register.Load `json:"loads,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)

	SaveProject(ctx context.Context, userID int, name string, loads []register.Load) (int, error)
	ListProjects(ctx context.Context, userID int) ([]Project, error)
	GetProject(ctx context.Context, userID, projectID int) (Project, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"
	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrNotFound
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveProject(ctx context.Context, userID int, name string, loads []register.Load) (int, error) {
	payload, err := json.Marshal(loads)
	if err != nil {
		return 0, err
	}
	var id int
	query := "INSERT INTO projects (user_id, name, payload) VALUES ($1, $2, $3) RETURNING id"
	err = r.db.QueryRowContext(ctx, query, userID, name, payload).Scan(&id)
	return id, err
}

func (r *PostgresRepository) ListProjects(ctx context.Context, userID int) ([]Project, error) {
	query := "SELECT id, name, created_at FROM projects WHERE user_id=$1 ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *PostgresRepository) GetProject(ctx context.Context, userID, projectID int) (Project, error) {
	var p Project
	var payload []byte
	query := "SELECT id, name, payload, created_at FROM projects WHERE id=$1 AND user_id=$2"
	err := r.db.QueryRowContext(ctx, query, projectID, userID).Scan(&p.ID, &p.Name, &payload, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	if err := json.Unmarshal(payload, &p.Loads); err != nil {
		return Project{}, err
	}
	return p, nil
}
