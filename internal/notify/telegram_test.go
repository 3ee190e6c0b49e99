package notify

import (
	"testing"

	logx "carillon/pkg/logx"
)

func TestNewTelegramRejectsIncompleteConfig(t *testing.T) {
	t.Parallel()
	if _, err := NewTelegram(Config{}, logx.Nop()); err == nil {
		t.Fatal("empty token must be rejected")
	}
	if _, err := NewTelegram(Config{Token: "123:abc"}, logx.Nop()); err == nil {
		t.Fatal("missing chat_id must be rejected")
	}
}
