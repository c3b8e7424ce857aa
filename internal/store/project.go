package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/taskpulse/apiserver/types"
)

const projectColumns = `id, name, description, start_date, end_date`

// ProjectRepository handles persistence for projects.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) List(ctx context.Context) ([]types.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY id`
	return r.query(ctx, query)
}

func (r *ProjectRepository) Get(ctx context.Context, id int) (types.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRowContext(ctx, query, id))
}

func (r *ProjectRepository) Create(ctx context.Context, project types.Project) (types.Project, error) {
	const query = `
		INSERT INTO projects (name, description, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		project.Name,
		project.Description,
		project.StartDate,
		project.EndDate,
	).Scan(&project.ID); err != nil {
		return types.Project{}, err
	}
	return project, nil
}

// Search matches name or description case-insensitively.
func (r *ProjectRepository) Search(ctx context.Context, term string) ([]types.Project, error) {
	query := `SELECT ` + projectColumns + `
		FROM projects
		WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY id`
	return r.query(ctx, query, likePattern(term))
}

func (r *ProjectRepository) query(ctx context.Context, query string, args ...any) ([]types.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]types.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

func scanProject(row rowScanner) (types.Project, error) {
	var (
		project     types.Project
		description sql.NullString
		start, end  sql.NullTime
	)
	if err := row.Scan(&project.ID, &project.Name, &description, &start, &end); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Project{}, ErrNotFound
		}
		return types.Project{}, err
	}
	project.Description = nullString(description)
	project.StartDate = nullTime(start)
	project.EndDate = nullTime(end)
	return project, nil
}

// likePattern escapes LIKE metacharacters and wraps term for a substring match.
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}
