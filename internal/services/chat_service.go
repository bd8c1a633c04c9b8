//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_blob_store.go -package=mocks
package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/muhammedkh45/Echoo/internal/domain/chat"
	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/internal/repository"
	"github.com/muhammedkh45/Echoo/internal/storage"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"
	"github.com/muhammedkh45/Echoo/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 50
	// page*limit must stay within the int32 range of a $slice argument
	MaxPage = math.MaxInt32 / MaxLimit

	MaxGroupImageSize = 5 << 20
)

var allowedImageTypes = []string{"image/png", "image/jpeg"}

type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

type CreateGroupInput struct {
	GroupName    string   `validate:"required,max=100"`
	Participants []string `validate:"required,min=1,dive,mongodb"`
}

type ImageUpload struct {
	Filename string
	Data     []byte
}

// ChatView is a chat together with the public profiles of everyone it
// references.
type ChatView struct {
	Chat     chat.Chat
	Profiles map[primitive.ObjectID]user.PublicProfile
}

type ChatService struct {
	chats   repository.ChatRepository
	users   repository.UserRepository
	blobs   BlobStore
	events  *EventPublisher
	appName string
	now     func() time.Time
	logger  *logger.Logger
}

func NewChatService(
	chats repository.ChatRepository,
	users repository.UserRepository,
	blobs BlobStore,
	events *EventPublisher,
	appName string,
	l *logger.Logger,
) *ChatService {
	if l == nil {
		l = logger.NewNop()
	}
	return &ChatService{
		chats:   chats,
		users:   users,
		blobs:   blobs,
		events:  events,
		appName: appName,
		now:     time.Now,
		logger:  l,
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page > MaxPage {
		page = MaxPage
	}
	return page, limit
}

// GetDirectChat returns one page of the requester's chat with otherID,
// newest page first, with participants populated.
func (s *ChatService) GetDirectChat(ctx context.Context, requester user.User, otherID string, page, limit int) (ChatView, error) {
	other, err := primitive.ObjectIDFromHex(otherID)
	if err != nil {
		return ChatView{}, fmt.Errorf("%w: userId", echoo_errors.ErrInvalidInput)
	}
	page, limit = normalizePage(page, limit)

	c, err := s.chats.DirectChatPage(ctx, requester.ID, other, page, limit)
	if err != nil {
		return ChatView{}, err
	}
	return s.populate(ctx, c, c.Participants)
}

// GetGroupChat returns a group the requester belongs to with message
// authors populated.
func (s *ChatService) GetGroupChat(ctx context.Context, requester user.User, groupID string) (ChatView, error) {
	if strings.TrimSpace(groupID) == "" {
		return ChatView{}, fmt.Errorf("%w: groupId", echoo_errors.ErrInvalidInput)
	}
	c, err := s.chats.FindGroupChat(ctx, groupID, requester.ID)
	if err != nil {
		return ChatView{}, err
	}
	authors := lo.Map(c.Messages, func(m chat.Message, _ int) primitive.ObjectID { return m.CreatedBy })
	return s.populate(ctx, c, append(authors, c.Participants...))
}

// CreateGroupChat creates a group with the creator and the given contacts.
// Every participant must be a contact of the creator. An uploaded image is
// removed again if the chat cannot be stored.
func (s *ChatService) CreateGroupChat(ctx context.Context, creator user.User, in CreateGroupInput, image *ImageUpload) (ChatView, error) {
	in.GroupName = strings.TrimSpace(in.GroupName)
	if err := validateInput(in); err != nil {
		return ChatView{}, err
	}
	if image != nil && s.blobs == nil {
		return ChatView{}, fmt.Errorf("%w: group images are disabled", echoo_errors.ErrBlobUnavailable)
	}

	ids := lo.Uniq(lo.Map(in.Participants, func(raw string, _ int) primitive.ObjectID {
		id, _ := primitive.ObjectIDFromHex(raw)
		return id
	}))
	ids = lo.Without(ids, creator.ID)
	if len(ids) == 0 {
		return ChatView{}, echoo_errors.ErrInvalidParticipants
	}

	contacts, err := s.users.FindContacts(ctx, ids, creator.ID)
	if err != nil {
		return ChatView{}, err
	}
	if len(contacts) != len(ids) {
		return ChatView{}, echoo_errors.ErrInvalidParticipants
	}

	roomID := NewRoomID(in.GroupName)

	var imageURL, imageKey string
	if image != nil {
		contentType, err := checkImage(image)
		if err != nil {
			return ChatView{}, err
		}
		imageKey = storage.ObjectKey(s.appName, "chat/"+roomID, image.Filename)
		imageURL, err = s.blobs.Upload(ctx, imageKey, contentType, image.Data)
		if err != nil {
			return ChatView{}, err
		}
	}

	c := chat.NewGroupChat(creator.ID, in.GroupName, imageURL, roomID, ids, s.now())
	created, err := s.chats.CreateGroupChat(ctx, c)
	if err != nil {
		if imageKey != "" {
			s.removeOrphan(ctx, imageKey)
		}
		return ChatView{}, err
	}

	s.events.PublishGroupCreated(ctx, created)

	profiles := map[primitive.ObjectID]user.PublicProfile{creator.ID: creator.Public()}
	for _, u := range contacts {
		profiles[u.ID] = u.Public()
	}
	return ChatView{Chat: created, Profiles: profiles}, nil
}

// removeOrphan deletes an uploaded blob whose chat was never stored. Its
// failure is logged and does not replace the original error.
func (s *ChatService) removeOrphan(ctx context.Context, key string) {
	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.blobs.Delete(delCtx, key); err != nil {
		s.logger.ErrorCtx(ctx, "failed to delete orphaned group image",
			zap.String("key", key),
			zap.Error(err))
	}
}

func (s *ChatService) populate(ctx context.Context, c chat.Chat, ids []primitive.ObjectID) (ChatView, error) {
	users, err := s.users.GetByIDs(ctx, lo.Uniq(ids))
	if err != nil {
		return ChatView{}, err
	}
	profiles := make(map[primitive.ObjectID]user.PublicProfile, len(users))
	for _, u := range users {
		profiles[u.ID] = u.Public()
	}
	return ChatView{Chat: c, Profiles: profiles}, nil
}

func checkImage(image *ImageUpload) (string, error) {
	if len(image.Data) == 0 {
		return "", fmt.Errorf("%w: empty image", echoo_errors.ErrInvalidInput)
	}
	if len(image.Data) > MaxGroupImageSize {
		return "", echoo_errors.ErrTooLarge
	}
	mt := mimetype.Detect(image.Data)
	for _, allowed := range allowedImageTypes {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported image type %s", echoo_errors.ErrInvalidInput, mt.String())
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

const maxSlugLength = 32

// NewRoomID derives a room identifier from a group name. The name is reduced
// to a lowercase slug so client text never reaches the channel name verbatim,
// and a random suffix keeps rooms distinct.
func NewRoomID(groupName string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(groupName), "-"), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		slug = "group"
	}
	return slug + "_" + uuid.NewString()
}
