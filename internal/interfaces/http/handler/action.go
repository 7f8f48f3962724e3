package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"aetherium-books-api/internal/application/action"
	"aetherium-books-api/internal/interfaces/http/dto"
	apperrors "aetherium-books-api/pkg/errors"
	"aetherium-books-api/pkg/logger"
)

// ActionHandler 动作处理器，把请求体原样交给 action.Service 校验
type ActionHandler struct {
	svc *action.Service
}

// NewActionHandler 创建动作处理器
func NewActionHandler(svc *action.Service) *ActionHandler {
	return &ActionHandler{svc: svc}
}

// Contact 提交联系表单
// @Summary 提交联系表单
// @Tags Actions
// @Accept json
// @Produce json
// @Success 200 {object} action.Result[action.Empty]
// @Failure 400 {object} action.Result[action.Empty]
// @Router /v1/actions/contact [post]
func (h *ActionHandler) Contact(c *gin.Context) {
	respond(c, h.svc.SubmitContactForm)
}

// SignUp 注册
// @Summary 注册（模拟身份）
// @Tags Actions
// @Accept json
// @Produce json
// @Success 200 {object} action.Result[action.Empty]
// @Failure 400 {object} action.Result[action.Empty]
// @Failure 409 {object} action.Result[action.Empty]
// @Router /v1/actions/sign-up [post]
func (h *ActionHandler) SignUp(c *gin.Context) {
	respond(c, h.svc.SignUp)
}

// SignIn 登录
// @Summary 登录（模拟身份）
// @Tags Actions
// @Accept json
// @Produce json
// @Success 200 {object} action.Result[action.Empty]
// @Failure 400 {object} action.Result[action.Empty]
// @Failure 401 {object} action.Result[action.Empty]
// @Router /v1/actions/sign-in [post]
func (h *ActionHandler) SignIn(c *gin.Context) {
	respond(c, h.svc.SignIn)
}

// GenerateChapter 生成个性化章节
// @Summary 生成个性化章节
// @Tags Actions
// @Accept json
// @Produce json
// @Success 200 {object} action.Result[model.ChapterGenerateOutput]
// @Failure 400 {object} action.Result[model.ChapterGenerateOutput]
// @Failure 500 {object} action.Result[model.ChapterGenerateOutput]
// @Router /v1/actions/chapters/generate [post]
func (h *ActionHandler) GenerateChapter(c *gin.Context) {
	respond(c, h.svc.GenerateChapter)
}

// TranslateUrdu 翻译为乌尔都语
// @Summary 英译乌尔都语
// @Tags Actions
// @Accept json
// @Produce json
// @Success 200 {object} action.Result[model.TranslationOutput]
// @Failure 400 {object} action.Result[model.TranslationOutput]
// @Failure 500 {object} action.Result[model.TranslationOutput]
// @Router /v1/actions/translate/urdu [post]
func (h *ActionHandler) TranslateUrdu(c *gin.Context) {
	respond(c, h.svc.TranslateToUrdu)
}

// Ask 书籍问答，始终返回 200
// @Summary 书籍问答
// @Tags Actions
// @Accept json
// @Produce json
// @Success 200 {object} action.AskResult
// @Router /v1/actions/ask [post]
func (h *ActionHandler) Ask(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := c.GetRawData()
	if err != nil {
		logger.Warn(ctx, "failed to read ask body", "error", err.Error())
	}
	req, err := dto.DecodeAskRequest(body)
	if err != nil || req.Query == nil {
		logger.Debug(ctx, "malformed ask body", "error", err)
		c.JSON(http.StatusOK, action.FallbackAnswer())
		return
	}

	c.JSON(http.StatusOK, h.svc.AskQuestion(ctx, req.ChatHistory, *req.Query))
}

type result interface {
	Code() apperrors.ErrorCode
}

// respond 读取原始请求体交给动作执行，HTTP 状态码由结果错误码决定
func respond[R result](c *gin.Context, run func(context.Context, any) R) {
	ctx := c.Request.Context()

	body, err := c.GetRawData()
	if err != nil {
		logger.Warn(ctx, "failed to read request body", "error", err.Error())
	}

	r := run(ctx, body)
	c.JSON(apperrors.StatusOf(r.Code()), r)
}
