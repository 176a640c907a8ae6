package devserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/pawmate/pawmate/internal/security"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// NewRouter mounts all dev services under one chi router. Each resource
// service sits at the prefix the client's default config points at.
func NewRouter(h *Handlers, auth *AuthService, hub *Hub, jwtMgr *security.JWTManager, localPhotoDir string, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	requireAuth := RequireAuth(jwtMgr, func(r *http.Request) string {
		return chi.URLParam(r, "userID")
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/token", auth.HandleToken)
		r.Post("/register", auth.HandleRegister)
		r.Post("/logout", auth.HandleLogout)
	})

	r.Route("/users", func(r chi.Router) {
		r.With(requireAuth).Route("/{userID}", func(r chi.Router) {
			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)
			r.Post("/avatar", h.UploadAvatar)
			r.Get("/preferences", h.GetPreferences)
			r.Put("/preferences", h.UpdatePreferences)
		})
	})

	r.Route("/animals", func(r chi.Router) {
		r.With(requireAuth).Route("/{userID}", func(r chi.Router) {
			r.Get("/animals", h.ListAnimals)
			r.Get("/animals/{animalID}", h.GetAnimal)
			r.Post("/listings", h.CreateListing)
			r.Delete("/listings/{animalID}", h.DeleteListing)
			r.Post("/listings/{animalID}/photos", h.UploadListingPhoto)
		})
	})

	r.Route("/messages", func(r chi.Router) {
		r.With(requireAuth).Route("/{userID}", func(r chi.Router) {
			r.Get("/conversations", h.ListConversations)
			r.Post("/conversations", h.CreateConversation)
			r.Delete("/conversations/{conversationID}", h.DeleteConversation)
			r.Get("/conversations/{conversationID}/messages", h.ListMessages)
			r.Post("/conversations/{conversationID}/messages", h.SendMessage)
			r.Get("/unread", h.GetUnreadCount)
		})
	})

	r.Route("/rehomers", func(r chi.Router) {
		r.With(requireAuth).Route("/{userID}", func(r chi.Router) {
			r.Get("/rehomers/{rehomerID}", h.GetRehomer)
			r.Put("/rehomers/{rehomerID}", h.UpdateRehomer)
		})
	})

	r.With(requireAuth).Get("/realtime/{userID}", func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err, "user_id", userID)
			return
		}
		hub.Register(userID, conn)
		// Drain control frames; the feed is one-way server to client.
		go func() {
			defer hub.Unregister(userID, conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	if localPhotoDir != "" {
		fs := http.StripPrefix("/photos/", http.FileServer(http.Dir(localPhotoDir)))
		r.Get("/photos/*", func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "..") {
				http.NotFound(w, r)
				return
			}
			fs.ServeHTTP(w, r)
		})
	}

	return r
}
