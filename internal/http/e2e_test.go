package httpapp_test

import (
	"errors"
	"net"
	"net/http"
	"testing"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/client"
	"github.com/passgate/passgate/internal/config"
	httpapp "github.com/passgate/passgate/internal/http"
	"github.com/passgate/passgate/internal/store/sqlite"

	"golang.org/x/crypto/bcrypt"
)

func TestEndToEndServer(t *testing.T) {
	st, err := sqlite.Open("file:e2e_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	cfg := config.Config{Addr: ":0", CORSOrigin: "*"}
	authSvc := auth.NewService(st, bcrypt.MinCost)
	server := httpapp.NewServer(st, authSvc, cfg, nil)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	httpServer := &http.Server{Handler: server}
	go func() {
		_ = httpServer.Serve(listener)
	}()
	defer httpServer.Close()

	baseURL := "http://" + listener.Addr().String()

	c := client.New(baseURL)
	if err := c.Signup("e2e@x.com", "pw1"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := c.Signup("e2e@x.com", "pw2"); !errors.Is(err, client.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	token, err := c.Login("e2e@x.com", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	email, err := c.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if email != "e2e@x.com" {
		t.Fatalf("unexpected email: %s", email)
	}

	if _, err := c.Validate("garbage"); !errors.Is(err, client.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// TestHelper behaves the same through the convenience path.
	helper := client.NewTestHelper(baseURL)
	helperToken, err := helper.GetToken("e2e@x.com", "pw1")
	if err != nil {
		t.Fatalf("helper token: %v", err)
	}
	if helperToken != token {
		t.Fatalf("helper returned a different token")
	}
}
