// Package httpapi is a thin, read-only HTTP surface over the provenance
// ledger and the orchestrator's verify operation. It exposes no mutating
// endpoints — creating, publishing, inscribing, and transferring assets all
// happen through the Engine directly; this package exists purely so a
// dashboard or external monitor can query lifecycle state without linking
// against the engine itself.
package httpapi

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/onirigin/originals-engine/internal/events"
	"github.com/onirigin/originals-engine/internal/ledgerstore"
	"github.com/onirigin/originals-engine/internal/orchestrator"
)

// Handler holds the read-only dependencies the query surface serves from.
// Store is optional and read only by the snapshot endpoint, which reports
// 503 when it is nil; every other endpoint reads the in-memory Asset the
// Registry holds.
type Handler struct {
	registry Registry
	engine   *orchestrator.Engine
	store    *ledgerstore.Store
	sink     *events.WebSocketSink
}

// SetupRouter wires the query surface the way the teacher wires
// SetupRouter in internal/api/routes.go: a CORS middleware configured from
// ALLOWED_ORIGINS, a public route group, and — when sink is non-nil — a
// WebSocket event stream endpoint.
func SetupRouter(registry Registry, engine *orchestrator.Engine, store *ledgerstore.Store, sink *events.WebSocketSink) *gin.Engine {
	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	h := &Handler{registry: registry, engine: engine, store: store, sink: sink}

	pub := r.Group("/api/v1")
	{
		pub.GET("/health", h.handleHealth)
		pub.GET("/assets/:id", h.handleGetAsset)
		pub.GET("/assets/:id/verify", h.handleVerifyAsset)
		pub.GET("/assets/:id/migrations", h.handleListMigrations)
		pub.GET("/assets/:id/transfers", h.handleListTransfers)
		pub.GET("/assets/:id/snapshot", h.handleGetSnapshot)
		if sink != nil {
			pub.GET("/stream", sink.Subscribe)
		}
	}

	return r
}
