package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrAttemptNotFound  = errors.New("attempt not found")

	// AI 上游返回空内容/格式不合法，属于 UpstreamFailure，不落库
	ErrMalformedQuiz = errors.New("AI returned a malformed quiz")
	ErrImageFetch    = errors.New("quiz image generation failed")
)
