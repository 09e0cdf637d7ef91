package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yokitheyo/elm-notebook/internal/model"
	"github.com/yokitheyo/elm-notebook/internal/service"
)

const msgNoElmCode = "No elm code received"

type APIHandler struct {
	Compiler service.Compiler
	Logger   *zap.Logger
}

func RegisterHandlers(r *gin.Engine, compiler service.Compiler, logger *zap.Logger) {
	h := &APIHandler{Compiler: compiler, Logger: logger}

	r.Use(corsMiddleware(), requestLogger(logger))

	r.Any("/api/compile", h.compile)
	r.GET("/health", h.health)
}

func (h *APIHandler) compile(c *gin.Context) {
	var req model.CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ElmCode == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: msgNoElmCode})
		return
	}

	outcome, err := h.Compiler.Compile(c.Request.Context(), req.ElmCode)
	if err != nil {
		if errors.Is(err, service.ErrNoElmCode) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: msgNoElmCode})
			return
		}
		h.Logger.Error("compile request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Message: "compilation failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.CompileResponse{
		ElmCode:        req.ElmCode,
		CompilerResult: outcome,
	})
}

func (h *APIHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
