package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/octolearn/internal/api"
	"github.com/abhisek/octolearn/internal/quiz"
	"github.com/abhisek/octolearn/internal/session"
	"github.com/abhisek/octolearn/internal/tutor"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

type quizResponse struct {
	Questions []quiz.Item `json:"questions"`
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "OctoLearn backend is running!"})
}

func (s *Server) explain(c *gin.Context) {
	var req api.ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.invalid(c, err)
		return
	}
	topic := session.NormalizeTopic(req.Topic)
	if topic == "" {
		s.invalid(c, session.ErrEmptyTopic)
		return
	}
	level := session.LevelBeginner
	if req.Level != "" {
		level = session.Level(strings.ToLower(strings.TrimSpace(req.Level)))
	}

	ctx, cancel := s.generationContext(c)
	defer cancel()

	text, err := s.tutor.Explain(ctx, topic, string(level))
	if err != nil {
		s.failed(c, "explain", topic, err)
		return
	}
	c.JSON(http.StatusOK, explainResponse{Explanation: text})
}

func (s *Server) quiz(c *gin.Context) {
	var req api.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.invalid(c, err)
		return
	}
	topic := session.NormalizeTopic(req.Topic)
	if topic == "" {
		s.invalid(c, session.ErrEmptyTopic)
		return
	}
	n := req.NumQuestions
	if n == 0 {
		n = api.DefaultQuestions
	}
	if n < 0 || n > tutor.MaxQuestions {
		s.invalid(c, fmt.Errorf("num_questions must be between 1 and %d", tutor.MaxQuestions))
		return
	}

	ctx, cancel := s.generationContext(c)
	defer cancel()

	items, err := s.tutor.Quiz(ctx, topic, n)
	if err != nil {
		s.failed(c, "quiz", topic, err)
		return
	}
	c.JSON(http.StatusOK, quizResponse{Questions: items})
}

func (s *Server) generationContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout > 0 {
		return context.WithTimeout(c.Request.Context(), s.opts.Timeout)
	}
	return context.WithCancel(c.Request.Context())
}

func (s *Server) invalid(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
}

func (s *Server) failed(c *gin.Context, op, topic string, err error) {
	s.log.Warn("generation failed", "op", op, "topic", topic, "err", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Detail: detailFor(err)})
}

// detailFor is the text clients display for a failed generation. The
// tutor's own failures keep the wording clients already show.
func detailFor(err error) string {
	switch {
	case errors.Is(err, tutor.ErrEmptyExplanation):
		return "Empty explanation from model."
	case errors.Is(err, tutor.ErrInvalidQuiz):
		return "Quiz format invalid."
	}
	return err.Error()
}
