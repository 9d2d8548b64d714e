package app

import (
	"encoding/json"
	"testing"

	"github.com/HumbertoIsraelLV/meet-app-backend/internal/core"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"
)

func TestRelay_RelaySignal_ForwardsOpaquePayload(t *testing.T) {
	reg := core.NewRegistry()
	target := &fakeConn{}
	if err := reg.Add(domain.NewParticipant("bob", "conn-b", "r1", false), target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	relay := NewRelay(reg)

	payload := json.RawMessage(`{"sdp":"v=0...","anything":[1,2,3]}`)
	relay.RelaySignal("conn-a", "conn-b", payload)

	frames := target.all()
	if len(frames) != 1 {
		t.Fatalf("expected one forwarded frame, got %d", len(frames))
	}
	if frames[0]["type"] != EventConnSignal || frames[0]["connUserSocketId"] != "conn-a" {
		t.Errorf("unexpected envelope: %v", frames[0])
	}
	signal, err := json.Marshal(frames[0]["signal"])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got, want map[string]any
	if err := json.Unmarshal(signal, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := json.Unmarshal(payload, &want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["sdp"] != want["sdp"] {
		t.Errorf("payload not forwarded verbatim: %v", got)
	}
}

func TestRelay_RelayReady_ForwardsSenderID(t *testing.T) {
	reg := core.NewRegistry()
	target := &fakeConn{}
	if err := reg.Add(domain.NewParticipant("bob", "conn-b", "r1", false), target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	relay := NewRelay(reg)

	relay.RelayReady("conn-a", "conn-b")

	frames := target.all()
	if len(frames) != 1 || frames[0]["type"] != EventConnInit || frames[0]["connUserSocketId"] != "conn-a" {
		t.Errorf("unexpected frames: %v", frames)
	}
}

func TestRelay_UnroutableTarget_DropsSilently(t *testing.T) {
	relay := NewRelay(core.NewRegistry())

	// Must not panic or error; a disconnected target is normal churn.
	relay.RelaySignal("conn-a", "conn-gone", json.RawMessage(`{}`))
	relay.RelayReady("conn-a", "conn-gone")
}
