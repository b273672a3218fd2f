package controller

import (
	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService   *service.QuizService
	ReportService *service.ReportService
}

func NewQuizController(quizService *service.QuizService, reportService *service.ReportService) *QuizController {
	return &QuizController{QuizService: quizService, ReportService: reportService}
}

type CreateQuizRequest struct {
	ClassroomID uint   `json:"classroomId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateQuiz godoc
// @Summary 创建试卷
// @Description 在班级下创建一份空试卷，总分初始为 0
// @Tags 试卷
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   body body CreateQuizRequest true "试卷信息"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/teacher/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(req.ClassroomID, user.UserID, req.Title, req.Description)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// GetQuiz godoc
// @Summary 试卷详情（教师视角，含标准答案）
// @Tags 试卷
// @Produce json
// @Security BearerAuth
// @Param   id path int true "试卷ID"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/teacher/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuiz(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quiz)
}

// ListQuizzes godoc
// @Summary 班级下的试卷列表
// @Tags 试卷
// @Produce json
// @Security BearerAuth
// @Param   id path int true "班级ID"
// @Success 200 {object} util.Response{data=[]model.Quiz} "成功"
// @Router /api/teacher/classrooms/{id}/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.QuizService.ListByClassroom(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// UpdateQuiz godoc
// @Summary 更新试卷
// @Tags 试卷
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   id path int true "试卷ID"
// @Param   body body service.QuizReq true "待更新字段"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/teacher/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除试卷
// @Description 级联删除题目、选项、提交记录和作答
// @Tags 试卷
// @Produce json
// @Security BearerAuth
// @Param   id path int true "试卷ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/teacher/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	if err := c.QuizService.DeleteQuiz(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// AddQuestion godoc
// @Summary 向试卷追加题目
// @Description 选择题需提供 choices 和 correctChoice，其余题型提供 correctAnswer；
// @Description 总分在同一事务内重算
// @Tags 试卷
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   id path int true "试卷ID"
// @Param   body body service.QuestionReq true "题目信息"
// @Success 201 {object} util.Response{data=model.Question} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/teacher/quizzes/{id}/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuizService.AddQuestion(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrChoicesRequired):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Description 分值变化时总分在同一事务内重算
// @Tags 试卷
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Param   body body service.QuestionUpdateReq true "待更新字段"
// @Success 200 {object} util.Response{data=model.Question} "成功"
// @Failure 400 {object} util.Response "分值非法"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/teacher/questions/{id} [put]
func (c *QuizController) UpdateQuestion(ctx *gin.Context) {
	var req service.QuestionUpdateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuizService.UpdateQuestion(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidPoints):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Description 连带删除选项和作答记录，总分在同一事务内重算
// @Tags 试卷
// @Produce json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/teacher/questions/{id} [delete]
func (c *QuizController) DeleteQuestion(ctx *gin.Context) {
	if err := c.QuizService.DeleteQuestion(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// GetResults godoc
// @Summary 试卷成绩汇总
// @Description 平均得分率、最高最低分、档次分布和全部提交
// @Tags 试卷
// @Produce json
// @Security BearerAuth
// @Param   id path int true "试卷ID"
// @Success 200 {object} util.Response{data=service.QuizResultsView} "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/teacher/quizzes/{id}/results [get]
func (c *QuizController) GetResults(ctx *gin.Context) {
	results, err := c.ReportService.QuizResults(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, results)
}
