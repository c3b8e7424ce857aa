package store

import (
	"context"
	"database/sql"

	"github.com/taskpulse/apiserver/types"
)

// TeamRepository handles persistence for teams.
type TeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]types.Team, error) {
	const query = `
		SELECT team_id, team_name, product_owner_user_id, project_manager_user_id
		FROM teams
		ORDER BY team_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]types.Team, 0)
	for rows.Next() {
		var (
			team   types.Team
			po, pm sql.NullInt64
		)
		if err := rows.Scan(&team.ID, &team.Name, &po, &pm); err != nil {
			return nil, err
		}
		team.ProductOwnerUserID = nullInt(po)
		team.ProjectManagerUserID = nullInt(pm)
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}
