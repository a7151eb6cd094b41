package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"quranstudy/apperror"
	"quranstudy/middleware"
	"quranstudy/response"
	"quranstudy/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var errUnauthenticated = apperror.Unauthorized("Please authenticate")

type QuizHandler struct {
	quizService *services.QuizService
	hub         *services.Hub
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

func NewQuizHandler(quizService *services.QuizService, hub *services.Hub, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		hub:         hub,
		upgrader: websocket.Upgrader{
			// the feed is authenticated by the token query parameter, not by cookies
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *QuizHandler) GenerateQuiz(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		response.Error(c, errUnauthenticated)
		return
	}

	var req services.GenerateQuizRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		// numQuestions is the only numeric query parameter
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			response.Error(c, apperror.BadRequest(`"numQuestions" must be a number`))
			return
		}
		response.BindError(c, err)
		return
	}

	quiz, err := h.quizService.Generate(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quiz generated successfully", quiz)
}

func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		response.Error(c, errUnauthenticated)
		return
	}

	var req services.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.quizService.Submit(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quiz submitted successfully", result)
}

func (h *QuizHandler) GetUserQuizzes(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		response.Error(c, errUnauthenticated)
		return
	}

	quizzes, err := h.quizService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quizzes retrieved successfully", quizzes)
}

func (h *QuizHandler) GetQuizByID(c *gin.Context) {
	quiz, err := h.quizService.GetByID(c.Request.Context(), c.Param("quizId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quiz details retrieved successfully", quiz)
}

// LiveFeed upgrades to a websocket that receives an event for every attempt on the quiz.
func (h *QuizHandler) LiveFeed(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		response.Error(c, errUnauthenticated)
		return
	}

	quizID := c.Param("quizId")
	if _, err := h.quizService.GetByID(c.Request.Context(), quizID); err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.Warn("websocket upgrade failed", zap.String("quiz_id", quizID), zap.Error(err))
		return
	}
	h.hub.RegisterClient(conn, quizID, userID)
}
