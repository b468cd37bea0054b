package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrSubjectNotFound = errors.New("subject not found")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrTestNotFound    = errors.New("test not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrAnswerNotFound  = errors.New("answer not found")

	ErrInvalidEmail      = errors.New("invalid email")
	ErrEmptyPasswordHash = errors.New("empty password hash")

	ErrAlreadyExists = errors.New("already exists")
	ErrNotInGroup    = errors.New("user not in the group")

	ErrBadAudience  = errors.New("unknown audience type")
	ErrNoRecipients = errors.New("audience 'several' requires recipients")
	ErrOneRecipient = errors.New("audience 'alone' requires exactly one recipient")
)
