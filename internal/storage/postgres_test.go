package storage

import "testing"

func TestWithSchemaValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		schema  string
		wantErr bool
	}{
		{name: "simple", schema: "chat"},
		{name: "underscore", schema: "chat_prod"},
		{name: "leading underscore", schema: "_chat"},
		{name: "empty", schema: "", wantErr: true},
		{name: "spaces only", schema: "   ", wantErr: true},
		{name: "digit first", schema: "1chat", wantErr: true},
		{name: "quote injection", schema: `chat"; DROP TABLE x; --`, wantErr: true},
		{name: "dash", schema: "chat-prod", wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			st := &PostgresStore{}
			err := WithSchema(tc.schema)(st)
			if (err != nil) != tc.wantErr {
				t.Fatalf("WithSchema(%q) err = %v, wantErr=%v", tc.schema, err, tc.wantErr)
			}
			if !tc.wantErr && st.schema != tc.schema {
				t.Fatalf("schema = %q, want %q", st.schema, tc.schema)
			}
		})
	}
}

func TestPgIdentQuoting(t *testing.T) {
	t.Parallel()

	if got, want := pgIdent("chat", "snapshots"), `"chat"."snapshots"`; got != want {
		t.Fatalf("pgIdent = %s, want %s", got, want)
	}
}

func TestNewPostgresStoreRejectsNilPool(t *testing.T) {
	t.Parallel()

	if _, err := NewPostgresStore(nil); err == nil {
		t.Fatal("NewPostgresStore(nil) err = nil, want error")
	}
}
