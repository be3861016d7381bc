package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onirigin/originals-engine/internal/ledger"
)

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "operational",
		"engine":          "originals lifecycle engine",
		"storeConnected":  h.store != nil,
		"streamAvailable": h.sink != nil,
	})
}

func (h *Handler) handleGetAsset(c *gin.Context) {
	a, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"primaryIdentifier": a.PrimaryIdentifier,
		"currentLayer":      a.CurrentLayer,
		"currentAddress":    a.CurrentAddress,
		"bindings":          a.Bindings,
		"resources":         a.Resources,
		"credentials":       a.Credentials,
	})
}

func (h *Handler) handleVerifyAsset(c *gin.Context) {
	a, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}
	valid := h.engine.Verify(c.Request.Context(), a, nil, nil)
	c.JSON(http.StatusOK, gin.H{"primaryIdentifier": a.PrimaryIdentifier, "valid": valid})
}

func (h *Handler) handleListMigrations(c *gin.Context) {
	a, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}
	q := ledger.NewQuery(a.Ledger).Migrations()
	if from := c.Query("fromLayer"); from != "" {
		q = q.FromLayer(from)
	}
	if to := c.Query("toLayer"); to != "" {
		q = q.ToLayer(to)
	}
	c.JSON(http.StatusOK, gin.H{"migrations": q.All()})
}

func (h *Handler) handleListTransfers(c *gin.Context) {
	a, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}
	q := ledger.NewQuery(a.Ledger).Transfers()
	if addr := c.Query("to"); addr != "" {
		q = q.To(addr)
	}
	if addr := c.Query("from"); addr != "" {
		q = q.From(addr)
	}
	c.JSON(http.StatusOK, gin.H{"transfers": q.All()})
}

// handleGetSnapshot serves the persisted ledgerstore snapshot, distinct
// from the live in-process ledger the other endpoints read — useful for
// confirming a snapshot survived a restart.
func (h *Handler) handleGetSnapshot(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ledger store not connected"})
		return
	}
	l, found, err := h.store.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot for asset"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"migrations": l.Migrations, "transfers": l.Transfers, "lastTxid": l.LastTxid})
}
