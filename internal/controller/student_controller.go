package controller

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	ClassroomService  *service.ClassroomService
	QuizService       *service.QuizService
	SubmissionService *service.SubmissionService
	AuthService       *service.AuthService
}

func NewStudentController(
	classroomService *service.ClassroomService,
	quizService *service.QuizService,
	submissionService *service.SubmissionService,
	authService *service.AuthService,
) *StudentController {
	return &StudentController{
		ClassroomService:  classroomService,
		QuizService:       quizService,
		SubmissionService: submissionService,
		AuthService:       authService,
	}
}

type JoinClassroomRequest struct {
	Code string `json:"code" binding:"required"`
}

// JoinClassroom godoc
// @Summary 按加入码加入班级
// @Tags 学生
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   body body JoinClassroomRequest true "加入码"
// @Success 200 {object} util.Response{data=model.Classroom} "成功"
// @Failure 400 {object} util.Response "加入码无效或已加入"
// @Router /api/student/classrooms/join [post]
func (c *StudentController) JoinClassroom(ctx *gin.Context) {
	student := c.AuthService.GetCurrentUser(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	var req JoinClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	classroom, err := c.ClassroomService.JoinClassroom(student.ID, req.Code, student)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidJoinCode), errors.Is(err, util.ErrAlreadyJoined):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, classroom)
}

// ListMyClassrooms godoc
// @Summary 我加入的班级列表
// @Tags 学生
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Classroom} "成功"
// @Router /api/student/classrooms [get]
func (c *StudentController) ListMyClassrooms(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	classrooms, err := c.ClassroomService.ListByStudent(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, classrooms)
}

// ListQuizzes godoc
// @Summary 班级下的试卷列表（仅限已加入的班级，只含已发布试卷）
// @Tags 学生
// @Produce json
// @Security BearerAuth
// @Param   id path int true "班级ID"
// @Success 200 {object} util.Response{data=[]model.Quiz} "成功"
// @Failure 403 {object} util.Response "未加入该班级"
// @Router /api/student/classrooms/{id}/quizzes [get]
func (c *StudentController) ListQuizzes(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	classroomID := util.MustParseUint(ctx.Param("id"))

	enrolled, err := c.ClassroomService.IsEnrolled(user.UserID, classroomID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !enrolled {
		util.Forbidden(ctx)
		return
	}

	quizzes, err := c.QuizService.ListByClassroom(classroomID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	published := make([]model.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		if q.Published {
			published = append(published, q)
		}
	}
	util.Success(ctx, published)
}

// GetQuiz godoc
// @Summary 试卷详情（学生视角，不含标准答案）
// @Tags 学生
// @Produce json
// @Security BearerAuth
// @Param   id path int true "试卷ID"
// @Success 200 {object} util.Response{data=service.StudentQuizView} "成功"
// @Failure 403 {object} util.Response "未加入该班级"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/student/quizzes/{id} [get]
func (c *StudentController) GetQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.QuizService.GetQuizForStudent(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	enrolled, err := c.ClassroomService.IsEnrolled(user.UserID, view.ClassroomID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !enrolled {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, view)
}

type SubmitQuizRequest struct {
	// 键为 q_<题目ID>，值为作答内容（选择题为选项ID）
	Answers map[string]string `json:"answers" binding:"required"`
}

// SubmitQuiz godoc
// @Summary 提交试卷
// @Description 每人每卷只能提交一次，提交即自动判分；作文题待教师批改
// @Tags 学生
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   id path int true "班级ID"
// @Param   quizId path int true "试卷ID"
// @Param   body body SubmitQuizRequest true "作答内容"
// @Success 201 {object} util.Response{data=model.Attempt} "提交成功"
// @Failure 403 {object} util.Response "未加入该班级"
// @Failure 404 {object} util.Response "试卷不存在"
// @Failure 409 {object} util.Response "已提交过"
// @Router /api/student/classrooms/{id}/quizzes/{quizId}/submit [post]
func (c *StudentController) SubmitQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.SubmissionService.SubmitQuiz(
		util.MustParseUint(ctx.Param("id")),
		util.MustParseUint(ctx.Param("quizId")),
		user.UserID,
		req.Answers,
	)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotEnrolled):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrAlreadySubmitted):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, attempt)
}

// GetMyAttempt godoc
// @Summary 我的提交详情
// @Tags 学生
// @Produce json
// @Security BearerAuth
// @Param   id path int true "试卷ID"
// @Success 200 {object} util.Response{data=model.Attempt} "成功"
// @Failure 404 {object} util.Response "尚未提交"
// @Router /api/student/quizzes/{id}/attempt [get]
func (c *StudentController) GetMyAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.SubmissionService.GetStudentAttempt(util.MustParseUint(ctx.Param("id")), user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, attempt)
}
