package domain

import "time"

type QuestionKind string

const (
	QuestionSingle   QuestionKind = "single"   // один правильный вариант
	QuestionMultiple QuestionKind = "multiple" // несколько правильных вариантов
	QuestionMatching QuestionKind = "matching" // сопоставление пар
)

type Test struct {
	ID        int64     `db:"id"`
	LessonID  int64     `db:"lesson_id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
}

type Question struct {
	ID     int64        `db:"id"`
	TestID int64        `db:"test_id"`
	Kind   QuestionKind `db:"kind"`
	Text   string       `db:"text"`
	Weight int64        `db:"weight"`

	Options []Option    // для single/multiple
	Pairs   []MatchPair // для matching
}

type Option struct {
	ID         int64  `db:"id"`
	QuestionID int64  `db:"question_id"`
	Text       string `db:"text"`
	Correct    bool   `db:"correct"`
}

// MatchPair: Right — правильный ответ для левой части Left.
type MatchPair struct {
	ID         int64  `db:"id"`
	QuestionID int64  `db:"question_id"`
	Left       string `db:"left_text"`
	Right      string `db:"right_text"`
}

// SubmittedAnswer — сохранённый выбор студента по одному вопросу.
// Для single/multiple заполняется OptionID, для matching — PairID и Chosen.
type SubmittedAnswer struct {
	ID         int64   `db:"id"`
	QuestionID int64   `db:"question_id"`
	StudentID  UserID  `db:"student_id"`
	OptionID   *int64  `db:"option_id"`
	PairID     *int64  `db:"pair_id"`
	Chosen     *string `db:"chosen"`
	Score      float64 `db:"score"`
}

type TestResult struct {
	ID        int64     `db:"id"`
	TestID    int64     `db:"test_id"`
	StudentID UserID    `db:"student_id"`
	Score     int64     `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}
