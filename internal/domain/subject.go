package domain

import "time"

// Subject — предмет; id предмета служит ключом комнаты предметного чата.
type Subject struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	TeacherID UserID    `db:"teacher_id"`
	CreatedAt time.Time `db:"created_at"`
}

// SubjectGroup связывает предмет с группами, которые его изучают.
type SubjectGroup struct {
	SubjectID int64 `db:"subject_id"`
	GroupID   int64 `db:"group_id"`
}

type Lesson struct {
	ID          int64     `db:"id"`
	SubjectID   int64     `db:"subject_id"`
	Topic       string    `db:"topic"`
	Body        string    `db:"body"`
	ScheduledAt time.Time `db:"scheduled_at"`
	CreatedAt   time.Time `db:"created_at"`
}
