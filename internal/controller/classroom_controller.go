package controller

import (
	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ClassroomController struct {
	ClassroomService *service.ClassroomService
}

func NewClassroomController(classroomService *service.ClassroomService) *ClassroomController {
	return &ClassroomController{ClassroomService: classroomService}
}

// CreateClassroom godoc
// @Summary 创建班级
// @Description 创建新班级并生成唯一加入码，可附横幅图片
// @Tags 班级
// @Accept  multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param   name formData string true "班级名称"
// @Param   banner formData file false "横幅图片"
// @Success 201 {object} util.Response{data=model.Classroom} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/teacher/classrooms [post]
func (c *ClassroomController) CreateClassroom(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	name := ctx.PostForm("name")
	if name == "" {
		util.BadRequest(ctx, "classroom name is required")
		return
	}

	// 横幅可选
	banner, err := ctx.FormFile("banner")
	if err != nil {
		banner = nil
	}

	classroom, err := c.ClassroomService.CreateClassroom(user.UserID, name, banner)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, classroom)
}

// ListMyClassrooms godoc
// @Summary 教师名下的班级列表
// @Tags 班级
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Classroom} "成功"
// @Router /api/teacher/classrooms [get]
func (c *ClassroomController) ListMyClassrooms(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	classrooms, err := c.ClassroomService.ListByTeacher(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, classrooms)
}

// GetClassroom godoc
// @Summary 班级详情（含学生名单）
// @Tags 班级
// @Produce json
// @Security BearerAuth
// @Param   id path int true "班级ID"
// @Success 200 {object} util.Response{data=model.Classroom} "成功"
// @Failure 404 {object} util.Response "班级不存在"
// @Router /api/teacher/classrooms/{id} [get]
func (c *ClassroomController) GetClassroom(ctx *gin.Context) {
	classroom, err := c.ClassroomService.GetClassroom(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrClassroomNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, classroom)
}
