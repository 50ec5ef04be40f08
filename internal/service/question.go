package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/store"
	"github.com/4lovek5346534/git-Supreme-Cofe/prometheus"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	unknownUserName = "Unknown user"
	adminName       = "Administrator"
	maxQuestionLen  = 1000
)

// QuestionService manages the per-product question threads
type QuestionService struct {
	store     store.Store
	questions store.Questions
	now       func() time.Time
}

func NewQuestionService(st store.Store, questions store.Questions) *QuestionService {
	return &QuestionService{store: st, questions: questions, now: time.Now}
}

// QuestionView is a thread entry with display names resolved
type QuestionView struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Answered  bool      `json:"answered"`
	AskedAt   time.Time `json:"asked_at"`
	AskerName string    `json:"asker_name"`
	AskerImg  string    `json:"asker_img"`
	AdminName string    `json:"admin_name,omitempty"`
}

// Ask appends a question to the product's thread. The product is addressed
// by ID and name, like the detail page.
func (s *QuestionService) Ask(ctx context.Context, userID, productID uint, name, text string) (*model.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("question text is required")
	}
	if len(text) > maxQuestionLen {
		return nil, invalid("question must be at most %d characters", maxQuestionLen)
	}

	p, err := s.store.Products().Get(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("product")
	}
	if err != nil {
		return nil, err
	}
	if p.Name != name {
		return nil, notFound("product")
	}

	q := model.Question{
		ID:      primitive.NewObjectID(),
		UserID:  userID,
		Text:    text,
		Answer:  model.Unanswered,
		AskedAt: s.now(),
	}
	if err := s.questions.Append(ctx, productID, q); err != nil {
		return nil, err
	}

	prometheus.QuestionsAskedCounter.Inc()
	return &q, nil
}

// Thread lists the product's questions, oldest first
func (s *QuestionService) Thread(ctx context.Context, productID uint) ([]QuestionView, error) {
	thread, err := s.questions.ThreadFor(ctx, productID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(thread.Items))
	for _, q := range thread.Items {
		ids = append(ids, q.UserID)
	}
	users, err := s.store.Users().GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]QuestionView, 0, len(thread.Items))
	for _, q := range thread.Items {
		v := QuestionView{
			ID:        q.ID.Hex(),
			Question:  q.Text,
			Answer:    q.Answer,
			Answered:  q.Answered(),
			AskedAt:   q.AskedAt,
			AskerName: unknownUserName,
			AskerImg:  model.DefaultAvatar,
		}
		if u, ok := users[q.UserID]; ok {
			v.AskerName = u.Name
			if u.ImgPath != "" {
				v.AskerImg = u.ImgPath
			}
		}
		if q.AdminID != nil {
			v.AdminName = adminName
		}
		views = append(views, v)
	}
	return views, nil
}
