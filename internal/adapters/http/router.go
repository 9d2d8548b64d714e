package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/HumbertoIsraelLV/meet-app-backend/internal/adapters/signal"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/app"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/config"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"
)

// SessionDirectory is what the history endpoint needs from storage.
type SessionDirectory interface {
	ListSessions(ctx context.Context) ([]domain.Session, error)
	UserNames(ctx context.Context, ids []domain.Identity) (map[domain.Identity]string, error)
}

type sessionParticipantView struct {
	Identity domain.Identity `json:"identity"`
	Name     string          `json:"name,omitempty"`
	Score    int             `json:"score"`
}

type sessionView struct {
	ID           any                      `json:"id"`
	Teacher      domain.Identity          `json:"teacher"`
	TeacherName  string                   `json:"teacherName,omitempty"`
	Participants []sessionParticipantView `json:"participants"`
}

// SetupRouter wires REST + WS with the coordinator and storage.
//   - REST is under /api/*
//   - WebSocket upgrade lives at /api/ws/signal
func SetupRouter(ctx context.Context, cfg *config.Config, coord *app.Coordinator, ctl *signal.Controller, sessions SessionDirectory) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	// The browser client is served from another origin.
	r.Use(cors.Default())

	api := r.Group("/api")

	// GET /api/room-exists/:roomId — pre-join existence check. The join
	// itself trusts this answer; capacity is enforced nowhere else.
	api.GET("/room-exists/:roomId", func(c *gin.Context) {
		roomID := domain.RoomID(c.Param("roomId"))
		count, open := coord.RoomStatus(roomID)
		c.JSON(http.StatusOK, gin.H{
			"roomExists": open,
			"full":       open && count >= cfg.RoomCapacity,
		})
	})

	// POST /api/rooms/:roomId/score — add points to an identity's ledger
	// entry; points defaults to 1.
	api.POST("/rooms/:roomId/score", func(c *gin.Context) {
		roomID := domain.RoomID(c.Param("roomId"))
		var req struct {
			Identity string `json:"identity"`
			Points   *int   `json:"points"`
		}
		if err := c.BindJSON(&req); err != nil || req.Identity == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid identity"})
			return
		}
		points := 1
		if req.Points != nil {
			points = *req.Points
		}
		total, err := coord.IncrementScore(roomID, domain.Identity(req.Identity), points)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown room"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"identity": req.Identity, "score": total})
	})

	// GET /api/sessions — closed sessions with display names resolved
	// through the user directory.
	api.GET("/sessions", func(c *gin.Context) {
		records, err := sessions.ListSessions(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("list sessions")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load sessions"})
			return
		}

		var ids []domain.Identity
		seen := make(map[domain.Identity]bool)
		for _, s := range records {
			for _, p := range append(s.Participants, domain.SessionParticipant{Identity: s.Teacher}) {
				if !seen[p.Identity] {
					seen[p.Identity] = true
					ids = append(ids, p.Identity)
				}
			}
		}
		names, err := sessions.UserNames(c.Request.Context(), ids)
		if err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("user directory lookup, names omitted")
			names = map[domain.Identity]string{}
		}

		out := make([]sessionView, 0, len(records))
		for _, s := range records {
			view := sessionView{ID: s.ID, Teacher: s.Teacher, TeacherName: names[s.Teacher]}
			for _, p := range s.Participants {
				view.Participants = append(view.Participants, sessionParticipantView{
					Identity: p.Identity,
					Name:     names[p.Identity],
					Score:    p.Score,
				})
			}
			out = append(out, view)
		}
		c.JSON(http.StatusOK, out)
	})

	// GET /api/ice-servers — the STUN/TURN set clients should use for
	// their peer connections.
	api.GET("/ice-servers", func(c *gin.Context) {
		servers := []webrtc.ICEServer{{URLs: cfg.STUNServers}}
		if cfg.TURNServer != "" {
			servers = append(servers, webrtc.ICEServer{
				URLs:       []string{cfg.TURNServer},
				Username:   cfg.TURNUsername,
				Credential: cfg.TURNCredential,
			})
		}
		c.JSON(http.StatusOK, gin.H{"iceServers": servers})
	})

	api.GET("/ws/signal", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c)
	})

	return r
}
