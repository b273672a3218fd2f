package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrClassroomNotFound  = errors.New("classroom not found")
	ErrInvalidJoinCode    = errors.New("invalid join code")
	ErrAlreadyJoined      = errors.New("already joined this classroom")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrAnswerNotFound     = errors.New("answer not found")
	ErrNotEnrolled        = errors.New("student not enrolled in this classroom")
	ErrAlreadySubmitted   = errors.New("quiz already submitted")
	ErrNotEssayQuestion   = errors.New("answer is not for an essay question")
	ErrScoreOutOfRange    = errors.New("score out of range for this question")
	ErrInvalidPoints      = errors.New("question points must be greater than zero")
	ErrChoicesRequired    = errors.New("MCQ question requires choices")
)
