package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeApp(t *testing.T) {
	cases := map[string]string{
		"VS Code":     "vscode",
		"code":        "vscode",
		"  Chrome  ":  "browser",
		"note pad":    "notepad",
		"calc":        "calculator",
		"Whats App":   "whatsapp",
		"random_tool": "random_tool",
		"Random Tool": "random tool",
		"vs":          "vs",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeApp(in), in)
	}
}

func TestInterpretEmpty(t *testing.T) {
	for _, in := range []string{"", " ", "\t\n  "} {
		res := Interpret(in)
		assert.Equal(t, None, res.Intent)
		assert.Empty(t, res.Entities)
	}
}

func TestInterpretNoMatch(t *testing.T) {
	for _, in := range []string{"xyzzy", "this is nothing", "blah blah blah"} {
		res := Interpret(in)
		assert.Equal(t, None, res.Intent, in)
		assert.NotNil(t, res.Entities)
		assert.Empty(t, res.Entities, in)
	}
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		text     string
		intent   Intent
		entities map[string]string
	}{
		{"hello there", Greet, map[string]string{}},
		{"Hey", Greet, map[string]string{}},
		{"goodbye", Bye, map[string]string{}},
		{"see you later", Bye, map[string]string{}},
		{"what time is it", Time, map[string]string{}},
		{"what's the date", Date, map[string]string{}},
		{"open notepad", OpenApp, map[string]string{"app": "notepad"}},
		{"launch VS Code", OpenApp, map[string]string{"app": "vscode"}},
		{"start random_tool", OpenApp, map[string]string{"app": "random_tool"}},
		{"close calculator", CloseApp, map[string]string{"app": "calculator"}},
		{"exit Chrome", CloseApp, map[string]string{"app": "browser"}},
		{"open /home/user/notes.txt", OpenPath, map[string]string{"target": "/home/user/notes.txt"}},
		{"start /usr/share/doc", OpenPath, map[string]string{"target": "/usr/share/doc"}},
		{"open Ärzte Kalender", OpenApp, map[string]string{"app": "ärzte kalender"}},
		{"close Café Manager.", CloseApp, map[string]string{"app": "café manager"}},
		{"type good morning team", TypeText, map[string]string{"text": "good morning team"}},
		{"dictate Dear Sir, thanks.", TypeText, map[string]string{"text": "Dear Sir, thanks."}},
		{"save as report", SaveAs, map[string]string{"filename": "report"}},
		{"save as Übersicht", SaveAs, map[string]string{"filename": "Übersicht"}},
		{"save", SaveText, map[string]string{}},
		{"remind me to call mom in 5 minutes", ReminderCreate, map[string]string{"what": "call mom", "in_minutes": "5"}},
		{"remind me stretch in 1 minute", ReminderCreate, map[string]string{"what": "stretch", "in_minutes": "1"}},
		{"remind me to stretch at 5:30 pm", ReminderCreate, map[string]string{"what": "stretch", "at_time": "5:30", "am_pm": "pm"}},
		{"remind me to water the plants at 7:05", ReminderCreate, map[string]string{"what": "water the plants", "at_time": "7:05"}},
		{"what's the weather in Paris", WeatherQuery, map[string]string{"city": "Paris"}},
		{"weather in São Paulo", WeatherQuery, map[string]string{"city": "São Paulo"}},
		{"weather in Malmö", WeatherQuery, map[string]string{"city": "Malmö"}},
		{"forecast in Zürich?", WeatherQuery, map[string]string{"city": "Zürich"}},
		{"weather in ", WeatherQuery, map[string]string{}},
		{"forecast", WeatherQuery, map[string]string{}},
		{"set language to fr", SetLanguage, map[string]string{"lang": "fr"}},
		{"switch lang to en-US", SetLanguage, map[string]string{"lang": "en-US"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := Interpret(tt.text)
			require.Equal(t, tt.intent, res.Intent)
			assert.Equal(t, tt.entities, res.Entities)
		})
	}
}

func TestInterpretDeclaredOrderWins(t *testing.T) {
	res := Interpret("hi, open notepad")
	assert.Equal(t, Greet, res.Intent)
	assert.Empty(t, res.Entities)

	// "today" is claimed by date before weather gets a look.
	assert.Equal(t, Date, Interpret("weather today").Intent)

	// save_as is declared ahead of save_text and takes the whole tail.
	res = Interpret("save my grocery list as groceries")
	require.Equal(t, SaveAs, res.Intent)
	assert.Equal(t, map[string]string{"filename": "my grocery list as groceries"}, res.Entities)

	res = Interpret("save buy milk")
	require.Equal(t, SaveAs, res.Intent)
	assert.Equal(t, map[string]string{"filename": "buy milk"}, res.Entities)

	// open_app is declared ahead of open_path, so URL and drive targets
	// are claimed by it up to the first non-word character.
	res = Interpret("open https://example.com/docs?q=1")
	require.Equal(t, OpenApp, res.Intent)
	assert.Equal(t, map[string]string{"app": "https"}, res.Entities)

	res = Interpret("open www.google.com")
	require.Equal(t, OpenApp, res.Intent)
	assert.Equal(t, map[string]string{"app": "www.google.com"}, res.Entities)

	res = Interpret(`open C:\Users\me`)
	require.Equal(t, OpenApp, res.Intent)
	assert.Equal(t, map[string]string{"app": "c"}, res.Entities)

	// open_path still sees targets open_app can't start on.
	res = Interpret("launch /opt/tools/run.sh")
	require.Equal(t, OpenPath, res.Intent)
	assert.Equal(t, "/opt/tools/run.sh", res.Entities["target"])
}

func TestInterpretTrimsInput(t *testing.T) {
	res := Interpret("   open calc   ")
	require.Equal(t, OpenApp, res.Intent)
	assert.Equal(t, "calculator", res.Entities["app"])
}

func TestPatternMatchDropsAbsentGroups(t *testing.T) {
	p := pattern(WeatherQuery, `\b(weather|forecast)(?:\s+in\s+(?P<city>[\w .-]+))?\b`)

	entities, ok := p.Match("weather")
	require.True(t, ok)
	_, present := entities["city"]
	assert.False(t, present)

	_, ok = p.Match("sunny")
	assert.False(t, ok)
}
