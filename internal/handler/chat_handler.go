package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/internal/services"
	"github.com/muhammedkh45/Echoo/internal/transport/httpdto"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ChatService interface {
	GetDirectChat(ctx context.Context, requester user.User, otherID string, page, limit int) (services.ChatView, error)
	GetGroupChat(ctx context.Context, requester user.User, groupID string) (services.ChatView, error)
	CreateGroupChat(ctx context.Context, creator user.User, in services.CreateGroupInput, image *services.ImageUpload) (services.ChatView, error)
}

type ChatHandler struct {
	service ChatService
}

func NewChatHandler(service ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

type createGroupRequest struct {
	Group        string   `json:"group" form:"group"`
	Participants []string `json:"participants" form:"participants"`
}

// GetDirectChat serves GET /chats/:userId?page&limit.
func (h *ChatHandler) GetDirectChat(c *gin.Context) {
	requester, ok := currentUser(c)
	if !ok {
		return
	}
	page, err := queryInt(c, "page")
	if err != nil {
		_ = c.Error(err)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		_ = c.Error(err)
		return
	}

	view, err := h.service.GetDirectChat(c.Request.Context(), requester, c.Param("userId"), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewChatResponse(view.Chat, view.Profiles)))
}

// CreateGroupChat serves POST /chats/group. The body is multipart with an
// optional "attachment" image, or JSON without one.
func (h *ChatHandler) CreateGroupChat(c *gin.Context) {
	creator, ok := currentUser(c)
	if !ok {
		return
	}

	var req createGroupRequest
	var image *services.ImageUpload
	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(fmt.Errorf("%w: %v", echoo_errors.ErrInvalidInput, err))
			return
		}
	} else {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxGroupImageSize+1<<20)
		if err := c.ShouldBind(&req); err != nil {
			_ = c.Error(fmt.Errorf("%w: %v", echoo_errors.ErrInvalidInput, err))
			return
		}
		req.Participants = splitParticipants(append(req.Participants, c.PostFormArray("participants[]")...))

		var err error
		if image, err = readAttachment(c); err != nil {
			_ = c.Error(err)
			return
		}
	}

	view, err := h.service.CreateGroupChat(c.Request.Context(), creator, services.CreateGroupInput{
		GroupName:    req.Group,
		Participants: req.Participants,
	}, image)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.NewChatResponse(view.Chat, view.Profiles)))
}

// GetGroupChat serves GET /chats/group/:groupId.
func (h *ChatHandler) GetGroupChat(c *gin.Context) {
	requester, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.service.GetGroupChat(c.Request.Context(), requester, c.Param("groupId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewChatResponse(view.Chat, view.Profiles)))
}

func currentUser(c *gin.Context) (user.User, bool) {
	identity, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, httpdto.ErrorResponseFor(echoo_errors.ErrUnauthorized))
		return user.User{}, false
	}
	return identity.User, true
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", echoo_errors.ErrInvalidInput, key)
	}
	return v, nil
}

// splitParticipants accepts repeated fields as well as comma separated ids.
func splitParticipants(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

func readAttachment(c *gin.Context) (*services.ImageUpload, error) {
	header, err := c.FormFile("attachment")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: attachment: %v", echoo_errors.ErrInvalidInput, err)
	}
	if header.Size > services.MaxGroupImageSize {
		return nil, echoo_errors.ErrTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: attachment: %v", echoo_errors.ErrInvalidInput, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, services.MaxGroupImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: attachment: %v", echoo_errors.ErrInvalidInput, err)
	}
	return &services.ImageUpload{Filename: header.Filename, Data: data}, nil
}
