package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/ws"
)

type fakeTokenParser struct {
	tokens map[string]*services.Claims
}

func (p fakeTokenParser) ParseToken(token string) (*services.Claims, error) {
	if c, found := p.tokens[token]; found {
		return c, nil
	}
	return nil, services.ErrInvalidToken
}

func wsClaims(userID, role, typ string) *services.Claims {
	return &services.Claims{
		Role:      role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID,
		},
	}
}

func TestServeWS_AuthGate(t *testing.T) {
	hub := ws.NewHub()
	h := newStubHandlers(stubs{opts: Options{
		Hub: hub,
		TokenParser: fakeTokenParser{tokens: map[string]*services.Claims{
			"good":    wsClaims("u1", domain.RoleCustomer, "access"),
			"refresh": wsClaims("u1", domain.RoleCustomer, "refresh"),
		}},
	}})
	r := newRouter(t)
	r.GET("/ws", h.ServeWS)

	for _, tc := range []struct {
		name   string
		query  string
		header string
	}{
		{"missing token", "", ""},
		{"unknown token", "?token=nope", ""},
		{"refresh token rejected", "?token=refresh", ""},
		{"unknown header token", "", "Bearer nope"},
		{"refresh header token rejected", "", "Bearer refresh"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ws"+tc.query, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s -> %d", tc.name, w.Code)
		}
	}
}

func TestServeWS_DeliversRoomEvents(t *testing.T) {
	hub := ws.NewHub()
	h := newStubHandlers(stubs{opts: Options{
		Hub: hub,
		TokenParser: fakeTokenParser{tokens: map[string]*services.Claims{
			"kitchen": wsClaims("k1", domain.RoleKitchen, "access"),
		}},
	}})
	r := newRouter(t)
	r.GET("/ws", h.ServeWS)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=kitchen"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if resp != nil {
		resp.Body.Close()
	}

	// Wait for registration before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(ws.RoomKitchen) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never joined the kitchen room")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast(ws.RoomKitchen, ws.EventOrderNew, map[string]string{"id": "o1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env ws.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	if env.Event != ws.EventOrderNew || env.Room != ws.RoomKitchen {
		t.Fatalf("envelope: %+v", env)
	}
}

func TestServeWS_AcceptsBearerHeader(t *testing.T) {
	hub := ws.NewHub()
	h := newStubHandlers(stubs{opts: Options{
		Hub: hub,
		TokenParser: fakeTokenParser{tokens: map[string]*services.Claims{
			"pos": wsClaims("p1", domain.RolePOS, "access"),
		}},
	}})
	r := newRouter(t)
	r.GET("/ws", h.ServeWS)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{
		"Authorization": []string{"Bearer pos"},
	})
	if err != nil {
		t.Fatalf("dial with header: %v", err)
	}
	defer conn.Close()
	if resp != nil {
		resp.Body.Close()
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(ws.RoomPOS) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never joined the pos room")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
