package ws

import (
	"encoding/json"
	"testing"

	"snap-game-server/game"
)

func TestInboundEnvelope_CapturesTypeAndRaw(t *testing.T) {
	data := []byte(`{"type":"action","action":"ready","name":"Alice"}`)

	var env InboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatal(err)
	}
	if env.Type != "action" {
		t.Errorf("expected type 'action', got %q", env.Type)
	}

	var msg ActionMsg
	if err := json.Unmarshal(env.Raw, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Action != "ready" || msg.Name != "Alice" {
		t.Errorf("unexpected payload: %+v", msg)
	}
}

func TestActionMsg_CardSelectCards(t *testing.T) {
	data := []byte(`{"type":"action","action":"cardSelect","name":"Bob","cards":[
		{"category":"food","value":"pizza","hint":"h1"},
		{"category":"food","value":"pizza","hint":"h2"}]}`)

	var msg ActionMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	if len(msg.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(msg.Cards))
	}
	if !msg.Cards[0].Matches(msg.Cards[1]) {
		t.Error("expected the submitted cards to match by category+value")
	}
}

func TestGamePlayMsg_OmitsEmptyOptionalFields(t *testing.T) {
	msg := GamePlayMsg{Type: "gamePlay", State: game.Flags{Lobby: true}}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]any
	json.Unmarshal(data, &m)

	if _, ok := m["message"]; ok {
		t.Error("empty message must be omitted")
	}
	if _, ok := m["scoreCard"]; ok {
		t.Error("empty scoreCard must be omitted")
	}
	if _, ok := m["state"]; !ok {
		t.Error("state must always be present")
	}
}
