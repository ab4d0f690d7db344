package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testDate = time.Date(2024, time.March, 5, 14, 30, 9, 0, time.UTC)

func TestGetFromLine(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			"captured envelope line wins",
			Message{FromLine: "user@example.com Tue Mar 05 14:30:09 2024", Frm: "Other <other@example.com>", Date: testDate},
			"From user@example.com Tue Mar 05 14:30:09 2024",
		},
		{
			"built from sender email and date",
			Message{Frm: "Jane Doe <Jane@Example.COM>", Date: testDate},
			"From jane@example.com Tue Mar 05 14:30:09 2024",
		},
		{
			"no sender known",
			Message{Date: testDate},
			"From (none) Tue Mar 05 14:30:09 2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg.GetFromLine())
		})
	}
}

func TestFromEmail(t *testing.T) {
	m := Message{Frm: "Jane Doe <Jane.Doe@Example.COM>"}
	assert.Equal(t, "jane.doe@example.com", m.FromEmail())

	m = Message{Frm: "not an address"}
	assert.Equal(t, "", m.FromEmail())
}

func TestFromRealname(t *testing.T) {
	m := Message{Frm: "Jane Doe <jane@example.com>"}
	assert.Equal(t, "Jane Doe", m.FromRealname())

	// falls back to the email portion
	m = Message{Frm: "jane@example.com"}
	assert.Equal(t, "jane@example.com", m.FromRealname())
}

func TestToAndCC(t *testing.T) {
	m := Message{To: "a@x", CC: "b@y"}
	assert.Equal(t, "a@x b@y", m.ToAndCC())

	m = Message{To: "a@x"}
	assert.Equal(t, "a@x", m.ToAndCC())
}

func TestMarked(t *testing.T) {
	m := Message{}
	assert.False(t, m.Marked(FlagSpamSuspect))

	m.SpamScore |= FlagSpamSuspect
	m.SpamScore |= FlagQuarantined
	assert.True(t, m.Marked(FlagSpamSuspect))
	assert.True(t, m.Marked(FlagQuarantined))
	assert.False(t, m.Marked(FlagImportError))
}
