package domain

import (
	"reflect"
	"testing"
)

func TestReadBy_Append(t *testing.T) {
	var r ReadBy

	r = r.Append(7)
	if string(r) != "7" {
		t.Fatalf("first append: got %q, want %q", r, "7")
	}

	r = r.Append(12)
	if string(r) != "7,12" {
		t.Fatalf("second append: got %q, want %q", r, "7,12")
	}

	// повторное прочтение дописывает id ещё раз
	r = r.Append(7)
	if string(r) != "7,12,7" {
		t.Fatalf("repeat append: got %q, want %q", r, "7,12,7")
	}

	want := []UserID{7, 12, 7}
	if got := r.IDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("IDs: got %v, want %v", got, want)
	}
}

func TestReadBy_Contains(t *testing.T) {
	r := ReadBy("3,15,8")

	if !r.Contains(15) {
		t.Fatalf("expected 15 to be contained in %q", r)
	}
	if r.Contains(1) {
		t.Fatalf("did not expect 1 in %q", r)
	}
	if ReadBy("").Contains(0) {
		t.Fatalf("empty read_by must contain nothing")
	}
}

func TestValidateRecipients(t *testing.T) {
	cases := []struct {
		name       string
		audience   Audience
		recipients []UserID
		wantErr    error
	}{
		{"everyone without list", AudienceEveryone, nil, nil},
		{"everyone ignores list", AudienceEveryone, []UserID{1, 2}, nil},
		{"several with list", AudienceSeveral, []UserID{1, 2}, nil},
		{"several empty", AudienceSeveral, nil, ErrNoRecipients},
		{"alone single", AudienceAlone, []UserID{9}, nil},
		{"alone empty", AudienceAlone, nil, ErrOneRecipient},
		{"alone too many", AudienceAlone, []UserID{1, 2}, ErrOneRecipient},
		{"unknown audience", Audience("broadcast"), nil, ErrBadAudience},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateRecipients(tc.audience, tc.recipients); err != tc.wantErr {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestChatMessage_VisibleTo(t *testing.T) {
	m := &ChatMessage{
		SenderID:   1,
		Audience:   AudienceSeveral,
		Recipients: []UserID{2, 3},
	}

	if !m.VisibleTo(1) {
		t.Fatalf("sender must always see own message")
	}
	if !m.VisibleTo(3) {
		t.Fatalf("recipient must see the message")
	}
	if m.VisibleTo(4) {
		t.Fatalf("outsider must not see audience=several message")
	}

	m.Audience = AudienceEveryone
	if !m.VisibleTo(4) {
		t.Fatalf("everyone-message must be visible to all")
	}
}

func TestRoomKeys(t *testing.T) {
	if got := GroupRoomKey("10A"); got != "group:10A" {
		t.Fatalf("group room key: got %q", got)
	}
	if got := SubjectRoomKey(42); got != "subject:42" {
		t.Fatalf("subject room key: got %q", got)
	}
	// комнаты двух доменов не должны пересекаться
	if GroupRoomKey("42") == SubjectRoomKey(42) {
		t.Fatalf("group and subject rooms collided")
	}
}
