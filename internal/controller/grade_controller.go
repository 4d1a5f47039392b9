package controller

import (
	"errors"
	"quizforge_backend/internal/service"
	"quizforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	Service *service.GradingService
}

func NewGradeController(svc *service.GradingService) *GradeController {
	return &GradeController{Service: svc}
}

// GradeRequest 答案映射：题号(从1开始) -> 所选选项下标
type GradeRequest struct {
	QuizID  uint              `json:"quizId" binding:"required"`
	Answers map[string]string `json:"answers" binding:"required"`
}

// SubmitAttempt godoc
// @Summary 提交答案并评分
// @Description 按题号比对答案，记录一次不可变的答题记录并更新用户连续答题天数
// @Tags 评分
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body GradeRequest true "测验ID与答案映射"
// @Success 200 {object} util.Response{data=service.GradeResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/grade [post]
func (c *GradeController) SubmitAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, attempt, err := c.Service.SubmitAttempt(ctx.Request.Context(), user.UserID, req.QuizID, req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"attemptId": attempt.ID,
		"correct":   result.Correct,
		"total":     result.Total,
		"feedback":  result.Feedback,
	})
}

// History godoc
// @Summary 答题历史
// @Description 当前用户的全部答题记录，最新在前
// @Tags 评分
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/attempts/history [get]
func (c *GradeController) History(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.Service.History(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}
