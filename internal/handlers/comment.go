package handlers

import (
	"context"

	"github.com/dimitrije/taskhub-api/internal/middleware"
	"github.com/dimitrije/taskhub-api/internal/models"
	"github.com/dimitrije/taskhub-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type CommentHandler struct {
	commentService CommentServiceInterface
}

func NewCommentHandler(commentService CommentServiceInterface) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Content == "" {
		c.BadRequest("content is required")
		return
	}

	comment, err := h.commentService.Create(context.Background(), taskID, userID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(201, commentResponse(comment))
}

func (h *CommentHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	comments, err := h.commentService.ListForTask(context.Background(), taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := make([]dto.CommentResponse, len(comments))
	for i := range comments {
		response[i] = commentResponse(&comments[i])
	}

	_ = c.JSON(200, response)
}

func (h *CommentHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid comment id")
		return
	}

	if err := h.commentService.Delete(context.Background(), commentID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "comment deleted"})
}

func commentResponse(comment *models.Comment) dto.CommentResponse {
	resp := dto.CommentResponse{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author != nil {
		resp.Author = &dto.UserResponse{ID: comment.Author.ID, Email: comment.Author.Email, Name: comment.Author.Name}
	}
	return resp
}
