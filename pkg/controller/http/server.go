package http

import (
	"context"
	"net/http"

	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ChatUseCase runs one chat exchange
type ChatUseCase interface {
	Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatReply, error)
}

// FriendUseCase serves the read-only views of the knowledge store
type FriendUseCase interface {
	Transcript(ctx context.Context, user model.UserID) ([]*model.TranscriptMessage, error)
	Friends(ctx context.Context, user model.UserID) (*model.FriendIndex, error)
	Friend(ctx context.Context, user model.UserID, name string, id model.PersonID) (*model.PersonView, error)
}

type Server struct {
	router              *chi.Mux
	chatUC              ChatUseCase
	friendUC            FriendUseCase
	slackWebhookHandler *SlackWebhookHandler
	slackSigningSecret  string
}

type Options func(*Server)

func WithSlackWebhook(handler *SlackWebhookHandler, signingSecret string) Options {
	return func(s *Server) {
		s.slackWebhookHandler = handler
		s.slackSigningSecret = signingSecret
	}
}

func New(chatUC ChatUseCase, friendUC FriendUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		chatUC:   chatUC,
		friendUC: friendUC,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(corsMiddleware)

		r.Options("/chat", preflightHandler)
		r.Post("/chat", s.postChat)
		r.Get("/chat/{uuid}", s.getTranscript)
		r.Get("/friends/{uuid}", s.getFriends)
		r.Get("/friend/{uuid}/{name}/{id}", s.getFriend)
	})

	// Slack webhook endpoint (if configured) - uses signature verification
	if s.slackWebhookHandler != nil {
		r.Route("/hooks/slack", func(r chi.Router) {
			r.Use(SlackSignatureMiddleware(s.slackSigningSecret))
			r.Post("/event", s.slackWebhookHandler.ServeHTTP)
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
