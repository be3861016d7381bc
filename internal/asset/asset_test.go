package asset

import (
	"testing"
	"time"

	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/internal/identity"
	"github.com/onirigin/originals-engine/pkg/models"
)

func validResource(id string) models.Resource {
	return models.Resource{ID: id, Type: "text", ContentType: "text/plain", Hash: "a3f5c1e9d2b4867093a1c2d3e4f5061728394a5b6c7d8e9f0a1b2c3d4e5f6071"[:64]}
}

func TestNew_DerivesLayerFromPrefix(t *testing.T) {
	a, err := New(identity.NewPeerIdentifier([]byte("key")), nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.CurrentLayer != identity.LayerPeer {
		t.Errorf("expected peer layer, got %s", a.CurrentLayer)
	}
	if a.Ledger.Creator != a.PrimaryIdentifier {
		t.Errorf("expected ledger creator to equal primary identifier")
	}
}

func TestNew_RejectsUnrecognizedPrefix(t *testing.T) {
	_, err := New("not-a-did", nil, time.Now())
	if !enginerr.Is(err, enginerr.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestNew_RejectsMalformedResource(t *testing.T) {
	bad := models.Resource{ID: "r1", Type: "text", ContentType: "text/plain", Hash: "short"}
	_, err := New(identity.NewPeerIdentifier([]byte("key")), []models.Resource{bad}, time.Now())
	if !enginerr.Is(err, enginerr.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestSetResourceURL_OverwritesOnRepublish(t *testing.T) {
	a, err := New(identity.NewPeerIdentifier([]byte("key")), []models.Resource{validResource("r1")}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.SetResourceURL("r1", "https://example.com/r1-v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.SetResourceURL("r1", "https://example.com/r1-v2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Resources[0].URL != "https://example.com/r1-v2" {
		t.Errorf("expected overwritten URL, got %q", a.Resources[0].URL)
	}
}

func TestSetResourceURL_UnknownID(t *testing.T) {
	a, err := New(identity.NewPeerIdentifier([]byte("key")), nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.SetResourceURL("missing", "x"); !enginerr.Is(err, enginerr.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestBind_DoesNotRemoveExistingBindings(t *testing.T) {
	a, err := New(identity.NewPeerIdentifier([]byte("key")), nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.Bind("did:webvh", "did:webvh:example.com:slug")
	a.Bind("did:btco", "did:btco:12345")
	if len(a.Bindings) != 2 {
		t.Errorf("expected both bindings retained, got %+v", a.Bindings)
	}
}

func TestSlug_TrailingSegment(t *testing.T) {
	a := &Asset{PrimaryIdentifier: "did:webvh:example.com:my-slug"}
	if got := a.Slug(); got != "my-slug" {
		t.Errorf("Slug() = %q, want %q", got, "my-slug")
	}
}
