package controller

import (
	"errors"
	"quizforge_backend/internal/service"
	"quizforge_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
	Stats   *service.StatsService
}

func NewQuizController(svc *service.QuizService, stats *service.StatsService) *QuizController {
	return &QuizController{Service: svc, Stats: stats}
}

// CreateQuiz godoc
// @Summary 生成测验
// @Description 用 AI 根据主题生成整卷选择题和配图并保存
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateQuizRequest true "主题/难度/题目数量"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 500 {object} util.Response "AI 生成失败"
// @Router /api/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.CreateQuiz(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"quizId": quiz.ID})
}

// GetQuiz godoc
// @Summary 获取测验详情
// @Description 答题视图，不含答案。登录用户附带收藏标记
// @Tags 测验
// @Produce json
// @Param quizId path int true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizDetail}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{quizId} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quizID, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	userID := uint(0)
	if user := util.GetUserFromContext(ctx); user != nil {
		userID = user.UserID
	}

	detail, err := c.Service.GetQuiz(uint(quizID), userID)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}

// ListQuizzes godoc
// @Summary 测验列表
// @Description 最新在前，附带聚合统计；登录用户附带收藏标记和个人统计
// @Tags 测验
// @Produce json
// @Param page query int false "页码，默认1"
// @Param limit query int false "每页数量，默认20"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	userID := uint(0)
	if user := util.GetUserFromContext(ctx); user != nil {
		userID = user.UserID
	}

	quizzes, total, err := c.Service.ListQuizzes(ctx.Request.Context(), page, limit, userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  quizzes,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetQuizStats godoc
// @Summary 测验统计
// @Description 总答题次数/平均分/最高分/独立用户数，登录用户附带个人统计
// @Tags 测验
// @Produce json
// @Param quizId path int true "测验ID"
// @Success 200 {object} util.Response{data=model.QuizStats}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{quizId}/stats [get]
func (c *QuizController) GetQuizStats(ctx *gin.Context) {
	quizID, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	userID := uint(0)
	if user := util.GetUserFromContext(ctx); user != nil {
		userID = user.UserID
	}

	// 确认测验存在，避免对任意 ID 返回空统计
	if err := c.Service.EnsureQuizExists(uint(quizID)); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	stats, err := c.Stats.GetQuizStats(ctx.Request.Context(), uint(quizID), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// Bookmark godoc
// @Summary 收藏测验
// @Description 幂等操作，重复收藏同样返回成功
// @Tags 收藏
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{quizId}/bookmark [post]
func (c *QuizController) Bookmark(ctx *gin.Context) {
	c.toggleBookmark(ctx, true)
}

// Unbookmark godoc
// @Summary 取消收藏
// @Description 幂等操作，未收藏时同样返回成功
// @Tags 收藏
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{quizId}/bookmark [delete]
func (c *QuizController) Unbookmark(ctx *gin.Context) {
	c.toggleBookmark(ctx, false)
}

func (c *QuizController) toggleBookmark(ctx *gin.Context, add bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	if add {
		err = c.Service.Bookmark(user.UserID, uint(quizID))
	} else {
		err = c.Service.Unbookmark(user.UserID, uint(quizID))
	}

	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"success": true})
}

// ListBookmarked godoc
// @Summary 收藏列表
// @Tags 收藏
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/quizzes/bookmarked [get]
func (c *QuizController) ListBookmarked(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizzes, err := c.Service.ListBookmarked(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}

// DeleteQuiz godoc
// @Summary 删除测验（管理员）
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/quizzes/{quizId} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	quizID, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	if err := c.Service.DeleteQuiz(ctx.Request.Context(), uint(quizID)); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"success": true})
}
