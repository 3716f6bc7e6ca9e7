package service

import (
	"context"
	"sync"
	"testing"

	config "github.com/nichelab/brandbrain/configs"
	"github.com/nichelab/brandbrain/internal/activity"
	"github.com/nichelab/brandbrain/internal/models"
	"github.com/nichelab/brandbrain/internal/transfer"
)

func testConfig() config.Config {
	return config.Config{
		SecretKey: "0123456789abcdef0123456789abcdef",
	}
}

func newNicheTestService(t *testing.T) (NicheService, *memState, *activity.Log) {
	t.Helper()
	st := newMemState()
	log := activity.NewLog()
	var mu sync.Mutex
	ns := NewNicheService(testConfig(), &mu, st, NewSimulatedPublisher(0), log)
	return ns, st, log
}

func validSetup() *transfer.NicheSetup {
	return &transfer.NicheSetup{
		Name:           "Sustainable Fashion",
		TargetAudience: "Gen Z eco-conscious shoppers",
		Tone:           "Casual & Friendly",
		Frequency:      models.FrequencyDaily,
	}
}

func TestSetup_RequiresAllFields(t *testing.T) {
	ns, _, _ := newNicheTestService(t)

	cases := []struct {
		name  string
		setup transfer.NicheSetup
	}{
		{"no name", transfer.NicheSetup{TargetAudience: "a", Tone: "t", Frequency: "daily"}},
		{"no audience", transfer.NicheSetup{Name: "n", Tone: "t", Frequency: "daily"}},
		{"no tone", transfer.NicheSetup{Name: "n", TargetAudience: "a", Frequency: "daily"}},
		{"no frequency", transfer.NicheSetup{Name: "n", TargetAudience: "a", Tone: "t"}},
		{"bad frequency", transfer.NicheSetup{Name: "n", TargetAudience: "a", Tone: "t", Frequency: "hourly"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ns.Setup(context.Background(), &tc.setup); err == nil {
				t.Error("Setup() succeeded, want error")
			}
		})
	}
}

func TestSetup_PersistsWithEmptyConnections(t *testing.T) {
	ns, st, _ := newNicheTestService(t)

	niche, err := ns.Setup(context.Background(), validSetup())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if niche.ID == "" {
		t.Error("niche ID is empty")
	}
	if len(niche.Connections) != 0 {
		t.Errorf("got %d connections, want 0", len(niche.Connections))
	}

	stored, _, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored == nil || stored.Name != "Sustainable Fashion" {
		t.Errorf("stored niche = %+v", stored)
	}
}

func TestConnect_SelfDeclared(t *testing.T) {
	ns, st, _ := newNicheTestService(t)
	ctx := context.Background()

	if _, err := ns.Setup(ctx, validSetup()); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	conn, err := ns.Connect(ctx, &transfer.ConnectRequest{
		Platform: models.PlatformLinkedIn,
		Handle:   "@brand",
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if conn.IsVerified {
		t.Error("self-declared connection marked verified")
	}
	if conn.Credentials != "" {
		t.Error("self-declared connection carries credentials")
	}

	stored, _, _ := st.Load(ctx)
	if len(stored.Connections) != 1 {
		t.Fatalf("got %d connections, want 1", len(stored.Connections))
	}
}

func TestConnect_XVerified(t *testing.T) {
	ns, st, _ := newNicheTestService(t)
	ctx := context.Background()

	if _, err := ns.Setup(ctx, validSetup()); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	conn, err := ns.Connect(ctx, &transfer.ConnectRequest{
		Platform:    models.PlatformX,
		Handle:      "@brand",
		Credentials: validCreds(),
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !conn.IsVerified {
		t.Error("X connection not verified")
	}
	if conn.Username == "" {
		t.Error("verified connection has no username")
	}
	if conn.Credentials == "" {
		t.Fatal("verified connection has no credential bundle")
	}

	// Bundle must be sealed, and unseal back to the original.
	stored, _, _ := st.Load(ctx)
	creds, err := openCredentials(stored.Connections[0].Credentials, testConfig().SecretKey)
	if err != nil {
		t.Fatalf("openCredentials: %v", err)
	}
	if creds.BearerToken != validCreds().BearerToken {
		t.Errorf("bearer token = %q", creds.BearerToken)
	}
}

func TestConnect_XShortTokenRejected(t *testing.T) {
	ns, st, log := newNicheTestService(t)
	ctx := context.Background()

	if _, err := ns.Setup(ctx, validSetup()); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	creds := validCreds()
	creds.BearerToken = "tooshort10"

	_, err := ns.Connect(ctx, &transfer.ConnectRequest{
		Platform:    models.PlatformX,
		Handle:      "@brand",
		Credentials: creds,
	})
	if err == nil {
		t.Fatal("Connect succeeded with short bearer token")
	}

	stored, _, _ := st.Load(ctx)
	if len(stored.Connections) != 0 {
		t.Errorf("got %d connections, want 0", len(stored.Connections))
	}

	found := false
	for _, e := range log.Entries() {
		if e.Level == models.LogLevelError {
			found = true
		}
	}
	if !found {
		t.Error("no error log entry appended")
	}
}

func TestConnect_ReplacesSamePlatform(t *testing.T) {
	ns, st, _ := newNicheTestService(t)
	ctx := context.Background()

	if _, err := ns.Setup(ctx, validSetup()); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	for _, handle := range []string{"@first", "@second"} {
		if _, err := ns.Connect(ctx, &transfer.ConnectRequest{Platform: models.PlatformTiktok, Handle: handle}); err != nil {
			t.Fatalf("Connect(%s): %v", handle, err)
		}
	}

	stored, _, _ := st.Load(ctx)
	if len(stored.Connections) != 1 {
		t.Fatalf("got %d connections, want 1", len(stored.Connections))
	}
	if stored.Connections[0].Handle != "@second" {
		t.Errorf("handle = %q, want @second", stored.Connections[0].Handle)
	}
}

func TestDisconnect(t *testing.T) {
	ns, st, log := newNicheTestService(t)
	ctx := context.Background()

	if _, err := ns.Setup(ctx, validSetup()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, err := ns.Connect(ctx, &transfer.ConnectRequest{Platform: models.PlatformLinkedIn, Handle: "@brand"}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := ns.Connect(ctx, &transfer.ConnectRequest{Platform: models.PlatformInstagram, Handle: "@brand"}); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	// Unconfirmed requests are refused.
	if err := ns.Disconnect(ctx, &transfer.DisconnectRequest{Platform: models.PlatformLinkedIn}); err == nil {
		t.Error("Disconnect without confirmation succeeded")
	}

	if err := ns.Disconnect(ctx, &transfer.DisconnectRequest{Platform: models.PlatformLinkedIn, Confirm: true}); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}

	stored, _, _ := st.Load(ctx)
	if len(stored.Connections) != 1 {
		t.Fatalf("got %d connections, want 1", len(stored.Connections))
	}
	if stored.Connections[0].Platform != models.PlatformInstagram {
		t.Errorf("remaining platform = %q", stored.Connections[0].Platform)
	}

	warned := false
	for _, e := range log.Entries() {
		if e.Level == models.LogLevelWarning {
			warned = true
		}
	}
	if !warned {
		t.Error("no warning log entry appended")
	}

	// Second disconnect is a no-op.
	if err := ns.Disconnect(ctx, &transfer.DisconnectRequest{Platform: models.PlatformLinkedIn, Confirm: true}); err != nil {
		t.Fatalf("repeated Disconnect: %v", err)
	}
	stored, _, _ = st.Load(ctx)
	if len(stored.Connections) != 1 {
		t.Errorf("got %d connections after repeated disconnect, want 1", len(stored.Connections))
	}
}
