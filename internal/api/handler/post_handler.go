package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/forka/forum-backend/internal/api/metrics"
	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

// PostHandler exposes the post lifecycle: CRUD, likes, and the moderator
// pin/close switches.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

type createPostRequest struct {
	Title      string `json:"title" validate:"required,min=3,max=200"`
	Content    string `json:"content" validate:"required"`
	CategoryID string `json:"category_id" validate:"required"`
}

type updatePostRequest struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
	IsPinned   *bool   `json:"is_pinned,omitempty"`
	IsClosed   *bool   `json:"is_closed,omitempty"`
}

// postResponse decorates the stored post with the derived like state for the
// requesting user.
type postResponse struct {
	*domain.Post
	LikesCount int  `json:"likes_count"`
	Liked      bool `json:"liked"`
}

type postListResponse struct {
	Posts []postResponse `json:"posts"`
	Total int64          `json:"total"`
}

func newPostResponse(p *domain.Post, viewerID string) postResponse {
	liked := false
	for _, id := range p.Likes {
		if id == viewerID {
			liked = true
			break
		}
	}
	return postResponse{Post: p, LikesCount: p.LikesCount(), Liked: liked}
}

// Create handles POST /api/posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post details"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.service.Create(c.Request().Context(), actor, ports.CreatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, newPostResponse(post, actor.ID))
}

// Get handles GET /api/posts/:id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	post, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPostResponse(post, actor.ID))
}

// List handles GET /api/posts.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        category_id  query     string  false  "Filter by category"
// @Param        author_id    query     string  false  "Filter by author"
// @Param        search       query     string  false  "Partial title match"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Param        offset       query     int     false  "Page offset"
// @Success      200  {object}  postListResponse
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	offset, _ := strconv.ParseInt(c.QueryParam("offset"), 10, 64)

	posts, total, err := h.service.List(c.Request().Context(), ports.ListPostsFilter{
		CategoryID: c.QueryParam("category_id"),
		AuthorID:   c.QueryParam("author_id"),
		Search:     c.QueryParam("search"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return err
	}

	resp := postListResponse{Posts: make([]postResponse, 0, len(posts)), Total: total}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, newPostResponse(p, actor.ID))
	}
	return c.JSON(http.StatusOK, resp)
}

// Update handles PUT /api/posts/:id. Pin/close flips require moderator role
// even on the caller's own post.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      updatePostRequest  true  "Fields to change"
// @Success      200   {object}  postResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	post, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.UpdatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		IsPinned:   req.IsPinned,
		IsClosed:   req.IsClosed,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPostResponse(post, actor.ID))
}

// Delete handles DELETE /api/posts/:id.
//
// @Summary      Delete a post and its comments
// @Tags         posts
// @Security     BearerAuth
// @Param        id  path  string  true  "Post id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLike handles POST /api/posts/:id/like.
//
// @Summary      Like or unlike a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/{id}/like [post]
func (h *PostHandler) ToggleLike(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	post, err := h.service.ToggleLike(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPostResponse(post, actor.ID))
}
