package domain

import "time"

// Group — учебная группа; имя уникально и служит ключом комнаты группового чата.
type Group struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CuratorID *UserID   `db:"curator_id"`
	CreatedAt time.Time `db:"created_at"`
}

type GroupMember struct {
	GroupID  int64     `db:"group_id"`
	UserID   UserID    `db:"user_id"`
	JoinedAt time.Time `db:"joined_at"`
}
