package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"snap-game-server/api"
	"snap-game-server/catalog"
	"snap-game-server/config"
	"snap-game-server/room"
	"snap-game-server/ws"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Entry{
		{Category: "animals", Value: "elephant", Hint1: "a1", Hint2: "a2", Hint3: "a3"},
		{Category: "animals", Value: "penguin", Hint1: "b1", Hint2: "b2", Hint3: "b3"},
		{Category: "animals", Value: "giraffe", Hint1: "c1", Hint2: "c2", Hint3: "c3"},
		{Category: "movies", Value: "jaws", Hint1: "d1", Hint2: "d2", Hint3: "d3"},
		{Category: "movies", Value: "titanic", Hint1: "e1", Hint2: "e2", Hint3: "e3"},
		{Category: "food", Value: "pizza", Hint1: "f1", Hint2: "f2", Hint3: "f3"},
	})
}

// setupTestServer starts the full server stack with short timers.
func setupTestServer(t *testing.T) (*httptest.Server, *room.Registry, func()) {
	t.Helper()

	cfg := config.Defaults()
	cfg.CountdownMS = 100
	cfg.ResolveDelayMS = 150

	registry := room.NewRegistry()
	hub := ws.NewHub(cfg, testCatalog(), registry)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	handler := api.NewHandler(cfg, registry)
	server := httptest.NewServer(handler.Routes(hub.ServeWS))

	cleanup := func() {
		server.Close()
		cancel()
	}
	return server, registry, cleanup
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("writing message: %v", err)
	}
}

// readUntilType reads messages until one with the given type arrives,
// discarding everything else.
func readUntilType(t *testing.T, conn *websocket.Conn, msgType string, timeout time.Duration) map[string]any {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", msgType, err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("unmarshaling %q: %v", data, err)
		}
		if m["type"] == msgType {
			return m
		}
	}
}

// createRoomWith connects two players into one room and returns their
// connections plus the room token.
func createRoomWith(t *testing.T, server *httptest.Server) (*websocket.Conn, *websocket.Conn, string) {
	t.Helper()
	connA := dialWS(t, server)
	sendJSON(t, connA, map[string]any{"type": "createRoom", "name": "Alice", "categories": map[string]bool{}})
	created := readUntilType(t, connA, "roomCreated", time.Second)
	roomID, _ := created["roomId"].(string)
	if roomID == "" {
		t.Fatal("expected a room token")
	}

	connB := dialWS(t, server)
	sendJSON(t, connB, map[string]any{"type": "joinRoom", "roomId": roomID, "name": "Bob"})
	readUntilType(t, connB, "roomJoined", time.Second)
	readUntilType(t, connA, "playerJoined", time.Second)
	return connA, connB, roomID
}

func TestIntegration_CreateAndJoinRoom(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	connA := dialWS(t, server)
	defer connA.Close()
	sendJSON(t, connA, map[string]any{"type": "createRoom", "name": "Alice", "categories": map[string]bool{}})
	created := readUntilType(t, connA, "roomCreated", time.Second)
	roomID := created["roomId"].(string)

	connB := dialWS(t, server)
	defer connB.Close()
	sendJSON(t, connB, map[string]any{"type": "joinRoom", "roomId": roomID, "name": "Bob"})
	joined := readUntilType(t, connB, "roomJoined", time.Second)

	scoreCard, ok := joined["scoreCard"].(map[string]any)
	if !ok {
		t.Fatalf("expected scoreCard object, got %T", joined["scoreCard"])
	}
	if len(scoreCard) != 2 {
		t.Fatalf("expected 2 score entries, got %d", len(scoreCard))
	}
	for id, raw := range scoreCard {
		entry := raw.(map[string]any)
		if entry["score"].(float64) != 0 {
			t.Errorf("player %s must start at 0, got %v", id, entry["score"])
		}
	}
}

func TestIntegration_JoinMissingRoom(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	conn := dialWS(t, server)
	defer conn.Close()
	sendJSON(t, conn, map[string]any{"type": "joinRoom", "roomId": "nosuchroom", "name": "Bob"})
	msg := readUntilType(t, conn, "roomFull", time.Second)

	if msg["message"] != "Room is full or does not exist" {
		t.Errorf("unexpected notice: %v", msg["message"])
	}
}

func TestIntegration_ReadyDealsDisjointHands(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	connA, connB, _ := createRoomWith(t, server)
	defer connA.Close()
	defer connB.Close()

	sendJSON(t, connA, map[string]any{"type": "action", "action": "ready", "name": "Alice"})
	sendJSON(t, connB, map[string]any{"type": "action", "action": "ready", "name": "Bob"})

	cardsA := readUntilType(t, connA, "receiveCards", time.Second)
	cardsB := readUntilType(t, connB, "receiveCards", time.Second)

	remainingA := cardsA["remainingCards"].([]any)
	remainingB := cardsB["remainingCards"].([]any)
	if len(remainingA) != 1 || len(remainingB) != 1 {
		t.Fatalf("each of 2 players must see exactly 1 other card, got %d and %d", len(remainingA), len(remainingB))
	}

	// Each player's visible card is the other player's private card.
	userA := cardsA["userCard"].(map[string]any)
	userB := cardsB["userCard"].(map[string]any)
	seenByA := remainingA[0].(map[string]any)
	seenByB := remainingB[0].(map[string]any)
	if seenByA["hint"] != userB["hint"] || seenByB["hint"] != userA["hint"] {
		t.Error("remaining cards must be exactly the other players' cards")
	}

	// After the countdown both receive the round-start notice.
	for _, conn := range []*websocket.Conn{connA, connB} {
		for {
			msg := readUntilType(t, conn, "gamePlay", time.Second)
			if msg["action"] == "gameStart" {
				state := msg["state"].(map[string]any)
				if state["inGame"] != true {
					t.Errorf("expected inGame flag on round start, got %v", state)
				}
				break
			}
		}
	}
}

func TestIntegration_SnapRoles(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	connA, connB, _ := createRoomWith(t, server)
	defer connA.Close()
	defer connB.Close()

	sendJSON(t, connA, map[string]any{"type": "action", "action": "ready", "name": "Alice"})
	sendJSON(t, connB, map[string]any{"type": "action", "action": "ready", "name": "Bob"})
	for _, conn := range []*websocket.Conn{connA, connB} {
		for {
			if readUntilType(t, conn, "gamePlay", time.Second)["action"] == "gameStart" {
				break
			}
		}
	}

	sendJSON(t, connA, map[string]any{"type": "action", "action": "snap", "name": "Alice"})

	heroMsg := readUntilType(t, connA, "gamePlay", time.Second)
	if heroMsg["state"].(map[string]any)["gameHero"] != true {
		t.Errorf("snapper must see gameHero, got %v", heroMsg["state"])
	}
	observerMsg := readUntilType(t, connB, "gamePlay", time.Second)
	if observerMsg["state"].(map[string]any)["gameObserver"] != true {
		t.Errorf("others must see gameObserver, got %v", observerMsg["state"])
	}
}

func TestIntegration_Chat(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	connA, connB, _ := createRoomWith(t, server)
	defer connA.Close()
	defer connB.Close()

	sendJSON(t, connA, map[string]any{"type": "chat", "name": "Alice", "chat": "hello"})

	self := readUntilType(t, connA, "chat", time.Second)
	if self["message"] != "You: hello" {
		t.Errorf("unexpected sender echo: %v", self["message"])
	}
	other := readUntilType(t, connB, "chat", time.Second)
	if other["message"] != "Alice: hello" {
		t.Errorf("unexpected broadcast: %v", other["message"])
	}
}

func TestIntegration_LogoutDestroysEmptyRoom(t *testing.T) {
	server, registry, cleanup := setupTestServer(t)
	defer cleanup()

	conn := dialWS(t, server)
	defer conn.Close()
	sendJSON(t, conn, map[string]any{"type": "createRoom", "name": "Alice", "categories": map[string]bool{}})
	readUntilType(t, conn, "roomCreated", time.Second)

	sendJSON(t, conn, map[string]any{"type": "action", "action": "logout", "name": "Alice"})
	readUntilType(t, conn, "gamePlay", time.Second)

	deadline := time.Now().Add(time.Second)
	for registry.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected the vacated room deleted, %d rooms live", registry.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestIntegration_NoSnapResolutionAfterRoomVacated(t *testing.T) {
	server, registry, cleanup := setupTestServer(t)
	defer cleanup()

	connA, connB, _ := createRoomWith(t, server)

	sendJSON(t, connA, map[string]any{"type": "action", "action": "ready", "name": "Alice"})
	sendJSON(t, connB, map[string]any{"type": "action", "action": "ready", "name": "Bob"})
	for _, conn := range []*websocket.Conn{connA, connB} {
		for {
			if readUntilType(t, conn, "gamePlay", time.Second)["action"] == "gameStart" {
				break
			}
		}
	}

	// Queue a delayed resolution, then vacate the room before it fires.
	sendJSON(t, connA, map[string]any{"type": "action", "action": "noSnap", "name": "Alice"})
	readUntilType(t, connA, "gamePlay", time.Second)
	connA.Close()
	connB.Close()

	deadline := time.Now().Add(time.Second)
	for registry.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected the room gone after both disconnects, %d live", registry.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Let the resolution fire against the vacated room; it must be a no-op.
	time.Sleep(300 * time.Millisecond)
	if registry.Count() != 0 {
		t.Errorf("stale resolution must not resurrect state, %d rooms live", registry.Count())
	}
}

func TestIntegration_HealthAndRoomQR(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from /healthz, got %d", resp.StatusCode)
	}

	conn := dialWS(t, server)
	defer conn.Close()
	sendJSON(t, conn, map[string]any{"type": "createRoom", "name": "Alice", "categories": map[string]bool{}})
	created := readUntilType(t, conn, "roomCreated", time.Second)
	roomID := created["roomId"].(string)

	resp, err = http.Get(server.URL + "/api/rooms/" + roomID + "/qr")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from QR endpoint, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}

	resp, err = http.Get(server.URL + "/api/rooms/nosuchroom/qr")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown room, got %d", resp.StatusCode)
	}
}
