package controller

import (
	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	SubmissionService *service.SubmissionService
}

func NewGradeController(submissionService *service.SubmissionService) *GradeController {
	return &GradeController{SubmissionService: submissionService}
}

// ListPendingEssays godoc
// @Summary 列出待批改的作文题作答（按试卷）
// @Tags 评分
// @Produce json
// @Security BearerAuth
// @Param   id path int true "试卷ID"
// @Success 200 {object} util.Response{data=[]model.Answer} "成功"
// @Router /api/teacher/quizzes/{id}/pending-essays [get]
func (c *GradeController) ListPendingEssays(ctx *gin.Context) {
	answers, err := c.SubmissionService.ListPendingEssays(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, answers)
}

type GradeEssayRequest struct {
	Score *float64 `json:"score" binding:"required"`
}

// GradeEssay godoc
// @Summary 教师批改作文题
// @Description 评分范围为 0 到题目分值，写入后同一事务内重算该次提交的总分
// @Tags 评分
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   id path string true "作答ID"
// @Param   body body GradeEssayRequest true "评分"
// @Success 200 {object} util.Response{data=model.Answer} "成功"
// @Failure 400 {object} util.Response "非作文题或评分越界"
// @Failure 404 {object} util.Response "作答不存在"
// @Router /api/teacher/answers/{id}/grade [post]
func (c *GradeController) GradeEssay(ctx *gin.Context) {
	var req GradeEssayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.SubmissionService.GradeEssay(ctx.Param("id"), *req.Score)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAnswerNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotEssayQuestion), errors.Is(err, util.ErrScoreOutOfRange):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, answer)
}
