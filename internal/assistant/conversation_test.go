package assistant

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mkale/sparky/internal/chat"
	"github.com/mkale/sparky/internal/llm"
)

func TestStreamReply_DeliversDeltas(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Deltas: []string{"A fraction ", "is part of a whole."}, Content: json.RawMessage(`A fraction is part of a whole.`)},
	)
	a := New(mock, DefaultConfig())

	history := []chat.ChatMessage{
		{Role: chat.RoleUser, Parts: []chat.Part{chat.TextPart("What is a fraction?")}},
	}

	var got strings.Builder
	reply, err := a.StreamReply(context.Background(), chat.DifficultyBeginner, history, func(d string) {
		got.WriteString(d)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "A fraction is part of a whole." {
		t.Errorf("reply = %q", reply)
	}
	if got.String() != reply {
		t.Errorf("streamed %q, full %q", got.String(), reply)
	}
}

func TestStreamReply_UsesDifficultyPersona(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`ok`)},
	)
	a := New(mock, DefaultConfig())

	history := []chat.ChatMessage{
		{Role: chat.RoleUser, Parts: []chat.Part{chat.TextPart("hi")}},
	}

	if _, err := a.StreamReply(context.Background(), chat.DifficultyBeginner, history, func(string) {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(mock.Calls[0].System, "Sparky") {
		t.Errorf("beginner persona missing: %q", mock.Calls[0].System)
	}
}

func TestStreamReply_MapsRolesAndAttachments(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`ok`)},
	)
	a := New(mock, DefaultConfig())

	history := []chat.ChatMessage{
		{Role: chat.RoleUser, Parts: []chat.Part{chat.TextPart("first")}},
		{Role: chat.RoleModel, Parts: []chat.Part{chat.TextPart("reply")}},
		{Role: chat.RoleUser, Parts: []chat.Part{
			chat.TextPart("look at this"),
			chat.BinaryPart("image/png", []byte{1, 2, 3}),
		}},
	}

	if _, err := a.StreamReply(context.Background(), chat.DifficultyExpert, history, func(string) {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := mock.Calls[0].Messages
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[1].Role != llm.RoleAssistant {
		t.Errorf("model turn mapped to %q", msgs[1].Role)
	}
	if len(msgs[2].Attachments) != 1 || msgs[2].Attachments[0].MIMEType != "image/png" {
		t.Errorf("attachment not mapped: %+v", msgs[2].Attachments)
	}
	if msgs[2].Content != "look at this" {
		t.Errorf("text content = %q", msgs[2].Content)
	}
}

func TestStreamReply_EmptyHistoryRejected(t *testing.T) {
	a := New(llm.NewMockProvider(), DefaultConfig())
	if _, err := a.StreamReply(context.Background(), chat.DifficultyIntermediate, nil, func(string) {}); err == nil {
		t.Fatal("expected error for empty history")
	}
}

func TestSystemInstruction_AllLevels(t *testing.T) {
	for _, d := range chat.Difficulties {
		if SystemInstruction(d) == "" {
			t.Errorf("no instruction for %s", d)
		}
	}
	if SystemInstruction("Bogus") != "You are a helpful AI tutor." {
		t.Error("unknown difficulty should use fallback persona")
	}
}
