package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	data := map[string]string{"flag": "--small-integer", "value": "20", "choices": "1, 2, 3"}
	msg := T("invalid_choice", data)
	if want := "argument --small-integer: invalid choice: '20' (choose from 1, 2, 3)"; msg != want {
		t.Fatalf("got %q want %q", msg, want)
	}

	SetLanguage("ja")
	if msg := T("invalid_choice", data); msg == "" || msg == "invalid_choice" || msg[0] == 'a' {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeFallsBack(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("got %q", msg)
	}
}

type fixedTranslator struct{}

func (fixedTranslator) Message(code string, data map[string]string) string { return "x:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(fixedTranslator{})
	defer SetTranslator(nil)
	if msg := T("required", nil); msg != "x:required" {
		t.Fatalf("got %q", msg)
	}
}
