package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskpulse/apiserver/types"
)

const taskColumns = `id, title, description, status, priority, tags, start_date, due_date,
		points, project_id, author_user_id, assigned_user_id`

// TaskRepository handles persistence for tasks.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int) ([]types.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY id`
	return r.query(ctx, query, projectID)
}

// ListByUser returns tasks the user authored or is assigned to.
func (r *TaskRepository) ListByUser(ctx context.Context, userID int) ([]types.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE author_user_id = $1 OR assigned_user_id = $1
		ORDER BY id`
	return r.query(ctx, query, userID)
}

func (r *TaskRepository) Search(ctx context.Context, term string) ([]types.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE title ILIKE $1 OR description ILIKE $1
		ORDER BY id`
	return r.query(ctx, query, likePattern(term))
}

func (r *TaskRepository) Get(ctx context.Context, id int) (types.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRowContext(ctx, query, id))
}

func (r *TaskRepository) Create(ctx context.Context, task types.Task) (types.Task, error) {
	const query = `
		INSERT INTO tasks (title, description, status, priority, tags, start_date, due_date,
			points, project_id, author_user_id, assigned_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Tags,
		task.StartDate,
		task.DueDate,
		task.Points,
		task.ProjectID,
		task.AuthorUserID,
		task.AssignedUserID,
	).Scan(&task.ID); err != nil {
		if isForeignKeyViolation(err) {
			return types.Task{}, fmt.Errorf("task %q: %w", task.Title, ErrInvalidReference)
		}
		return types.Task{}, err
	}
	return task, nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id int, status types.TaskStatus) (types.Task, error) {
	query := `UPDATE tasks SET status = $1 WHERE id = $2 RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, query, string(status), id))
}

func (r *TaskRepository) query(ctx context.Context, query string, args ...any) ([]types.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]types.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func scanTask(row rowScanner) (types.Task, error) {
	var (
		task                     types.Task
		description, tags        sql.NullString
		status, priority         sql.NullString
		start, due               sql.NullTime
		points, author, assignee sql.NullInt64
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&priority,
		&tags,
		&start,
		&due,
		&points,
		&task.ProjectID,
		&author,
		&assignee,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Task{}, ErrNotFound
		}
		return types.Task{}, err
	}

	task.Description = nullString(description)
	task.Tags = nullString(tags)
	if status.Valid {
		s := types.TaskStatus(status.String)
		task.Status = &s
	}
	if priority.Valid {
		p := types.TaskPriority(priority.String)
		task.Priority = &p
	}
	task.StartDate = nullTime(start)
	task.DueDate = nullTime(due)
	task.Points = nullInt(points)
	task.AuthorUserID = nullInt(author)
	task.AssignedUserID = nullInt(assignee)
	return task, nil
}
