package nlu

type Intent string

const (
	None           Intent = "none"
	Greet          Intent = "greet"
	Bye            Intent = "bye"
	Time           Intent = "time"
	Date           Intent = "date"
	OpenApp        Intent = "open_app"
	CloseApp       Intent = "close_app"
	OpenPath       Intent = "open_path"
	TypeText       Intent = "type_text"
	SaveAs         Intent = "save_as"
	SaveText       Intent = "save_text"
	ReminderCreate Intent = "reminder_create"
	WeatherQuery   Intent = "weather_query"
	SetLanguage    Intent = "set_language"
)

func (i Intent) String() string { return string(i) }

type Result struct {
	Intent   Intent            `json:"intent"`
	Entities map[string]string `json:"entities"`
}

func noMatch() Result {
	return Result{Intent: None, Entities: map[string]string{}}
}
