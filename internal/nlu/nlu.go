package nlu

import (
	log "log/slog"
	"regexp"
	"strings"
)

type IntentPattern struct {
	Intent Intent
	re     *regexp.Regexp
}

func pattern(intent Intent, expr string) IntentPattern {
	return IntentPattern{Intent: intent, re: regexp.MustCompile(`(?i)` + expr)}
}

// Match searches text for the pattern and returns its non-empty named
// captures.
func (p IntentPattern) Match(text string) (map[string]string, bool) {
	loc := p.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil, false
	}

	entities := make(map[string]string)
	for i, name := range p.re.SubexpNames() {
		if name == "" || loc[2*i] < 0 {
			continue
		}
		if v := text[loc[2*i]:loc[2*i+1]]; v != "" {
			entities[name] = v
		}
	}
	return entities, true
}

// word mirrors a Unicode \w; RE2's own \w and \b only know ASCII.
const word = `\p{L}\p{M}\p{N}_`

// phrase is a run of words, spaces, dots and dashes that ends on a word
// character, the same stretch a greedy [\w .-]+ followed by \b keeps.
const phrase = `[` + word + ` .-]*[` + word + `]`

// Patterns are tried in order and the first match wins. open_path sits
// after open_app, so a URL or drive path is only reached when open_app
// can't claim the utterance (e.g. "open /etc/hosts").
var Patterns = []IntentPattern{
	pattern(Greet, `\b(hi|hello|hey)\b`),
	pattern(Bye, `\b(bye|goodbye|see you)\b`),
	pattern(Time, `\btime\b`),
	pattern(Date, `\b(date|day|today)\b`),
	pattern(OpenApp, `\b(open|launch|start)\s+(?P<app>`+phrase+`)`),
	pattern(CloseApp, `\b(close|quit|exit)\s+(?P<app>`+phrase+`)`),
	pattern(OpenPath, `\b(open|launch|start)\s+(?P<target>(?:[a-zA-Z]:\\[\\`+word+` .-]+|https?://\S+|www\.\S+|/\S+))`),
	pattern(TypeText, `\b(type|write|dictate)\s+(?P<text>.+)$`),
	pattern(SaveAs, `\bsave\s+(?:as\s+)?(?P<filename>`+phrase+`)`),
	pattern(SaveText, `\bsave(?:\s+(?P<content>.+?))?(?:\s+as\s+(?P<filename>`+phrase+`))?\b`),
	pattern(ReminderCreate, `\bremind\s+me\s+(?:to\s+)?(?P<what>.+?)\s+(?:in\s+(?P<in_minutes>\d+)\s+minutes?|at\s+(?P<at_time>\d{1,2}:\d{2})(?:\s*(?P<am_pm>am|pm))?)\b`),
	pattern(WeatherQuery, `\b(weather|forecast)(?:\s+in\s+(?P<city>`+phrase+`)|\b)`),
	pattern(SetLanguage, `\b(set|switch)\s+(?:language|lang)\s+to\s+(?P<lang>[a-z]{2}(?:-[A-Z]{2})?)\b`),
}

func Interpret(text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return noMatch()
	}

	for _, p := range Patterns {
		entities, ok := p.Match(text)
		if !ok {
			continue
		}

		switch p.Intent {
		case OpenApp, CloseApp:
			if app, ok := entities["app"]; ok {
				entities["app"] = NormalizeApp(app)
			}
		case SaveText:
			if content, ok := entities["content"]; ok {
				if content = strings.TrimSpace(content); content != "" {
					entities["content"] = content
				} else {
					delete(entities, "content")
				}
			}
		}

		log.Debug("Interpreted", "intent", p.Intent, "entities", entities)
		return Result{Intent: p.Intent, Entities: entities}
	}

	return noMatch()
}
