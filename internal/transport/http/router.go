package http

import (
	"net/http"
	"time"

	httpmw "github.com/edu-planet/edu-service/internal/transport/http/middleware"
	"github.com/edu-planet/edu-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *Handler, tokens httpmw.TokenParser, wsServer *ws.Server, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// WS endpoints: токен идёт в query, авторизация внутри хендлера
	r.Get("/ws/groups/{name}", wsServer.HandleGroupWS)
	r.Get("/ws/subjects/{id}", wsServer.HandleSubjectWS)

	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", h.Register)
		ar.Post("/login", h.Login)
	})

	// Всё остальное требует access_token
	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.AuthMiddleware(tokens))
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Route("/users", func(ur chi.Router) {
			ur.Post("/", h.CreateUser)
			ur.Get("/", h.ListUsers)
			ur.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetUser)
				rr.Patch("/", h.UpdateUser)
				rr.Delete("/", h.DeleteUser)
			})
		})

		pr.Route("/groups", func(gr chi.Router) {
			gr.Post("/", h.CreateGroup)
			gr.Get("/", h.ListGroups)
			gr.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetGroup)
				rr.Delete("/", h.DeleteGroup)
				rr.Get("/students", h.ListStudents)
				rr.Post("/students", h.AddStudent)
				rr.Delete("/students/{userId}", h.RemoveStudent)
			})
		})

		pr.Route("/subjects", func(sr chi.Router) {
			sr.Post("/", h.CreateSubject)
			sr.Get("/", h.ListSubjects)
			sr.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetSubject)
				rr.Delete("/", h.DeleteSubject)
				rr.Post("/groups", h.LinkGroup)
				rr.Delete("/groups/{groupId}", h.UnlinkGroup)
				rr.Post("/lessons", h.CreateLesson)
				rr.Get("/lessons", h.ListLessons)
			})
		})

		pr.Route("/lessons/{id}", func(lr chi.Router) {
			lr.Patch("/", h.UpdateLesson)
			lr.Delete("/", h.DeleteLesson)
			lr.Get("/tests", h.ListTests)
		})

		pr.Route("/tests", func(tr chi.Router) {
			tr.Post("/", h.CreateTest)
			tr.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetTest)
				rr.Delete("/", h.DeleteTest)
				rr.Post("/questions", h.AddQuestion)
				rr.Post("/submissions", h.SubmitTest)
				rr.Get("/result", h.GetTestResult)
			})
		})

		pr.Route("/chat", func(cr chi.Router) {
			cr.Get("/groups/{name}", h.GroupChatHistory)
			cr.Get("/subjects/{id}", h.SubjectChatHistory)
			cr.Post("/messages/{id}/read", h.MarkMessageRead)
			cr.Post("/messages/{id}/fix", h.FixMessage)
			cr.Post("/answers/{id}/read", h.MarkAnswerRead)
		})

		pr.Route("/files", func(fr chi.Router) {
			fr.Post("/", h.UploadFile)
			fr.Get("/{path}", h.DownloadFile)
			fr.Delete("/{path}", h.DeleteFile)
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
