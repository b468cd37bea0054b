package http

import (
	"time"

	"github.com/edu-planet/edu-service/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// --- auth ---

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserType  string `json:"userType"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string   `json:"accessToken"`
	User        UserItem `json:"user"`
}

// --- users ---

type UserItem struct {
	ID        domain.UserID `json:"id"`
	Email     string        `json:"email"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Type      string        `json:"type"`
	AvatarURL *string       `json:"avatarUrl,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

type UsersListResponse struct {
	Items      []UserItem `json:"items"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	AvatarURL *string `json:"avatarUrl"`
	Password  *string `json:"password"`
}

// --- groups ---

type CreateGroupRequest struct {
	Name      string `json:"name"`
	CuratorID *int64 `json:"curatorId"`
}

type GroupItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CuratorID *int64    `json:"curatorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type GroupsListResponse struct {
	Items      []GroupItem `json:"items"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

type AddStudentRequest struct {
	UserID int64 `json:"userId"`
}

// --- subjects / lessons ---

type CreateSubjectRequest struct {
	Title     string `json:"title"`
	TeacherID int64  `json:"teacherId"`
}

type SubjectItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	TeacherID int64     `json:"teacherId"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubjectsListResponse struct {
	Items      []SubjectItem `json:"items"`
	NextCursor string        `json:"nextCursor,omitempty"`
}

type LinkGroupRequest struct {
	GroupID int64 `json:"groupId"`
}

type LessonRequest struct {
	Topic       string    `json:"topic"`
	Body        string    `json:"body"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

type LessonItem struct {
	ID          int64     `json:"id"`
	SubjectID   int64     `json:"subjectId"`
	Topic       string    `json:"topic"`
	Body        string    `json:"body"`
	ScheduledAt time.Time `json:"scheduledAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// --- tests ---

type CreateTestRequest struct {
	LessonID int64  `json:"lessonId"`
	Title    string `json:"title"`
}

type TestItem struct {
	ID        int64     `json:"id"`
	LessonID  int64     `json:"lessonId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type AddQuestionRequest struct {
	Kind    string          `json:"kind"`
	Text    string          `json:"text"`
	Weight  int64           `json:"weight"`
	Options []OptionRequest `json:"options,omitempty"`
	Pairs   []PairRequest   `json:"pairs,omitempty"`
}

type OptionRequest struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type PairRequest struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type QuestionItem struct {
	ID      int64        `json:"id"`
	Kind    string       `json:"kind"`
	Text    string       `json:"text"`
	Weight  int64        `json:"weight"`
	Options []OptionItem `json:"options,omitempty"`
	Pairs   []PairItem   `json:"pairs,omitempty"`
}

type OptionItem struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type PairItem struct {
	ID   int64  `json:"id"`
	Left string `json:"left"`
}

type TestDetailResponse struct {
	Test      TestItem       `json:"test"`
	Questions []QuestionItem `json:"questions"`
}

type SubmitTestRequest struct {
	Answers []SubmitQuestion `json:"answers"`
}

type SubmitQuestion struct {
	QuestionID int64            `json:"questionId"`
	OptionIDs  []int64          `json:"optionIds,omitempty"`
	Pairs      []SubmitPairItem `json:"pairs,omitempty"`
}

type SubmitPairItem struct {
	PairID int64  `json:"pairId"`
	Chosen string `json:"chosen"`
}

type TestResultResponse struct {
	TestID    int64 `json:"testId"`
	StudentID int64 `json:"studentId"`
	Score     int64 `json:"score"`
}

// --- chat (HTTP-часть) ---

type ChatHistoryResponse struct {
	Items []ChatMessageItem `json:"items"`
}

type ChatMessageItem struct {
	ID         int64           `json:"id"`
	SenderID   domain.UserID   `json:"senderId"`
	SenderType string          `json:"senderType"`
	Text       string          `json:"text"`
	Audience   string          `json:"messageType"`
	Recipients []domain.UserID `json:"recipients,omitempty"`
	Fixed      bool            `json:"fixed"`
	ReadBy     []domain.UserID `json:"readBy"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type ReadResponse struct {
	ReadBy []domain.UserID `json:"readBy"`
}

type FixRequest struct {
	Fixed bool `json:"fixed"`
}

// --- files ---

type UploadResponse struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}
