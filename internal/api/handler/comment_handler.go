package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

// CommentHandler exposes comments nested under posts.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type createCommentRequest struct {
	Content  string `json:"content" validate:"required"`
	ParentID string `json:"parent_id,omitempty"`
}

type updateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

type commentResponse struct {
	*domain.Comment
	LikesCount int  `json:"likes_count"`
	Liked      bool `json:"liked"`
	IsReply    bool `json:"is_reply"`
}

type commentListResponse struct {
	Comments []commentResponse `json:"comments"`
}

func newCommentResponse(cm *domain.Comment, viewerID string) commentResponse {
	liked := false
	for _, id := range cm.Likes {
		if id == viewerID {
			liked = true
			break
		}
	}
	return commentResponse{Comment: cm, LikesCount: cm.LikesCount(), Liked: liked, IsReply: cm.IsReply()}
}

// Create handles POST /api/posts/:id/comments.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Post id"
// @Param        body  body      createCommentRequest  true  "Comment details"
// @Success      201   {object}  commentResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/posts/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.service.Create(c.Request().Context(), actor, c.Param("id"), ports.CreateCommentInput{
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newCommentResponse(comment, actor.ID))
}

// ListByPost handles GET /api/posts/:id/comments.
//
// @Summary      List a post's comments
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  commentListResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/{id}/comments [get]
func (h *CommentHandler) ListByPost(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	comments, err := h.service.ListByPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	resp := commentListResponse{Comments: make([]commentResponse, 0, len(comments))}
	for _, cm := range comments {
		resp.Comments = append(resp.Comments, newCommentResponse(cm, actor.ID))
	}
	return c.JSON(http.StatusOK, resp)
}

// Update handles PUT /api/comments/:id.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Comment id"
// @Param        body  body      updateCommentRequest  true  "New content"
// @Success      200   {object}  commentResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCommentResponse(comment, actor.ID))
}

// Delete handles DELETE /api/comments/:id.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id  path  string  true  "Comment id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLike handles POST /api/comments/:id/like.
//
// @Summary      Like or unlike a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment id"
// @Success      200  {object}  commentResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/comments/{id}/like [post]
func (h *CommentHandler) ToggleLike(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	comment, err := h.service.ToggleLike(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCommentResponse(comment, actor.ID))
}
