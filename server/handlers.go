// Copyright 2026 Jovian Atlas
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jovianatlas/moonatlas/core"
	"github.com/jovianatlas/moonatlas/telemetry"
)

// Client-visible error texts. Internal detail goes to the log only.
const (
	msgInvalidBody        = "invalid request body"
	msgEmptyQuestion      = "question cannot be empty"
	msgInvalidHistory     = "invalid message history"
	msgServiceUnavailable = "chat service is not available"
	msgInternalError      = "internal server error"
)

type chatRequest struct {
	Question       string         `json:"question"`
	Messages       []core.Message `json:"messages"`
	ConversationID string         `json:"conversation_id,omitempty"`
}

type chatResponse struct {
	Answer  string   `json:"answer"`
	Context []string `json:"context,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Moon Atlas API is running",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                "healthy",
		"telemetry_enabled":     s.observer != nil,
		"retriever_initialized": s.orchestrator != nil,
	})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgEmptyQuestion})
		return
	}
	for i := range req.Messages {
		if err := core.ValidateMessage(&req.Messages[i]); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidHistory})
			return
		}
	}

	// Respond 503 before any telemetry workflow is started
	if s.orchestrator == nil {
		s.logger.Warn("chat request rejected", "err", core.ErrUpstreamUnavailable)
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: msgServiceUnavailable})
		return
	}

	result, err := s.orchestrator.Answer(c.Request.Context(), req.Question, req.Messages)
	if err != nil {
		s.logger.Error("chat request failed", "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternalError})
		return
	}

	if s.observer != nil {
		s.observer.Observe(telemetry.Interaction{
			SessionID: sessionID(req.ConversationID),
			Question:  req.Question,
			Context:   result.Context,
			Answer:    result.Answer,
			History:   req.Messages,
			Model:     s.chatModel,
		})
	}

	c.JSON(http.StatusOK, chatResponse{
		Answer:  result.Answer,
		Context: result.Context,
	})
}

// sessionID scopes telemetry to one conversation: the client's id when
// supplied, else a fresh id for this request.
func sessionID(conversationID string) string {
	if id := strings.TrimSpace(conversationID); id != "" {
		return id
	}
	return uuid.NewString()
}
