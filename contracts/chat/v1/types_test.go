package v1

import "testing"

func TestEventValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		ev      Event
		wantErr bool
	}{
		{
			name: "valid chat_message",
			ev:   Event{EventType: TypeChatMessage, ConversationID: "ride-1", SenderRole: RolePeer, Content: "hi"},
		},
		{
			name: "valid history",
			ev:   Event{EventType: TypeChatHistory, ConversationID: "ride-1"},
		},
		{
			name: "valid status_update",
			ev:   Event{EventType: TypeStatusUpdate, ConversationID: "ride-1", StatusTarget: "m-1", StatusValue: "sent"},
		},
		{
			name:    "missing eventType",
			ev:      Event{ConversationID: "ride-1"},
			wantErr: true,
		},
		{
			name:    "missing conversationId",
			ev:      Event{EventType: TypeChatMessage, Content: "hi"},
			wantErr: true,
		},
		{
			name:    "chat_message without content",
			ev:      Event{EventType: TypeChatMessage, ConversationID: "ride-1"},
			wantErr: true,
		},
		{
			name:    "status_update without target",
			ev:      Event{EventType: TypeStatusUpdate, ConversationID: "ride-1", StatusValue: "sent"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			ev:      Event{EventType: "telemetry", ConversationID: "ride-1"},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.ev.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestCommandValidate(t *testing.T) {
	t.Parallel()

	valid := Command{
		CommandType:     CommandChatMessage,
		ConversationID:  "ride-1",
		SenderRole:      RoleSelf,
		Content:         "hi",
		ClientMessageID: "local_1_passenger",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	cases := []struct {
		name   string
		mutate func(c *Command)
	}{
		{name: "wrong type", mutate: func(c *Command) { c.CommandType = "ping" }},
		{name: "no conversation", mutate: func(c *Command) { c.ConversationID = " " }},
		{name: "no content", mutate: func(c *Command) { c.Content = "" }},
		{name: "no client id", mutate: func(c *Command) { c.ClientMessageID = "" }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := valid
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatal("Validate() = nil, want error")
			}
		})
	}
}
