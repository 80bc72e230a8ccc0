package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "flag" or "value"); placeholders are written as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var tmpl string
	switch t.lang {
	case "ja":
		switch code {
		case "required":
			tmpl = "次の引数は必須です: {flags}"
		case "invalid_value":
			tmpl = "引数 {flag}: {type} として不正な値です: '{value}'"
		case "invalid_choice":
			tmpl = "引数 {flag}: 不正な選択肢です: '{value}' (選択肢: {choices})"
		case "wrong_arity":
			tmpl = "引数 {flag}: {expected} 個の値が必要です"
		case "unknown_flag":
			tmpl = "認識できない引数です: {value}"
		case "ambiguous_flag":
			tmpl = "曖昧なオプションです: {value} ({candidates} のいずれか)"
		case "unexpected_argument":
			tmpl = "認識できない引数です: {value}"
		}
	default: // "en"
		switch code {
		case "required":
			tmpl = "the following arguments are required: {flags}"
		case "invalid_value":
			tmpl = "argument {flag}: invalid {type} value: '{value}'"
		case "invalid_choice":
			tmpl = "argument {flag}: invalid choice: '{value}' (choose from {choices})"
		case "wrong_arity":
			tmpl = "argument {flag}: expected {expected} argument(s)"
		case "unknown_flag":
			tmpl = "unrecognized arguments: {value}"
		case "ambiguous_flag":
			tmpl = "ambiguous option: {value} could match {candidates}"
		case "unexpected_argument":
			tmpl = "unrecognized arguments: {value}"
		}
	}
	if tmpl == "" {
		return code
	}
	return expand(tmpl, data)
}

func expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
