package postgres

import (
	"context"
	"errors"

	"github.com/edu-planet/edu-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GroupRepository struct {
	db *pgxpool.Pool
}

func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(ctx context.Context, g *domain.Group) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO groups (name, curator_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, g.Name, g.CuratorID).Scan(&g.ID, &g.CreatedAt)
	return err
}

func (r *GroupRepository) Get(ctx context.Context, id int64) (*domain.Group, error) {
	var g domain.Group
	err := r.db.QueryRow(ctx,
		`SELECT id, name, curator_id, created_at FROM groups WHERE id=$1`, id).
		Scan(&g.ID, &g.Name, &g.CuratorID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

// GetByName нужен чатовому транспорту: имя группы — ключ комнаты.
func (r *GroupRepository) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	var g domain.Group
	err := r.db.QueryRow(ctx,
		`SELECT id, name, curator_id, created_at FROM groups WHERE name=$1`, name).
		Scan(&g.ID, &g.Name, &g.CuratorID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) List(ctx context.Context, limit int, cursorStr string) ([]domain.Group, string, error) {
	cur, err := DecodeCursor(cursorStr)
	if err != nil {
		return nil, "", err
	}

	query := `
		SELECT id, name, curator_id, created_at
		FROM groups
		WHERE ($1::timestamptz IS NULL OR created_at < $1
		       OR (created_at = $1 AND id < $2))
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	var createdAt any
	var id any
	if cur != nil {
		createdAt = cur.CreatedAt
		id = cur.ID
	}

	rows, err := r.db.Query(ctx, query, createdAt, id, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CuratorID, &g.CreatedAt); err != nil {
			return nil, "", err
		}
		groups = append(groups, g)
	}

	var next string
	if len(groups) == limit {
		last := groups[len(groups)-1]
		next, _ = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return groups, next, rows.Err()
}

func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) AddMember(ctx context.Context, groupID int64, userID domain.UserID) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, groupID, userID)
	return err
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID int64, userID domain.UserID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM group_members WHERE group_id=$1 AND user_id=$2`, groupID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotInGroup
	}
	return nil
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID int64) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.user_type, u.avatar_url, u.created_at, u.updated_at
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY u.last_name, u.first_name
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.Type, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
