// Package executor carries out classified intents and phrases the reply.
package executor

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nova/internal/nlu"
	"nova/internal/platform"
	"nova/internal/storage"
	"nova/internal/when"
)

const (
	defaultCity = "New York"

	msgNotUnderstood = "I didn't understand that. Please try again."
	msgBadTime       = "I couldn't understand the reminder time. Please say 'in 10 minutes' or 'at 5:30 pm'."
	msgReminderSaved = "Reminder saved. I'll remember that."
)

type CommandResolver interface {
	Resolve(key platform.Key, action string) ([]string, bool)
}

type Launcher interface {
	Launch(argv []string) error
}

type Runner interface {
	Run(ctx context.Context, argv []string) error
}

type ProcessTerminator interface {
	Terminate(names []string) (int, error)
}

type ReminderAdder interface {
	AddReminder(ctx context.Context, what string, whenTS int64) (storage.Reminder, error)
}

type TextSaver interface {
	SaveTextFile(content, filename string) (string, error)
}

type TimeResolver interface {
	Resolve(inMinutes, atTime, amPm string) (int64, bool)
}

type WeatherReporter interface {
	CurrentSummary(ctx context.Context, city string) (string, error)
}

// Executor maps an intent onto its action. Every field can be replaced,
// New fills them with the host implementations.
type Executor struct {
	OS         platform.Key
	Commands   CommandResolver
	Launcher   Launcher
	Automation Runner
	Processes  ProcessTerminator
	Reminders  ReminderAdder
	Files      TextSaver
	Weather    WeatherReporter
	Times      TimeResolver
	Now        func() time.Time
	Exists     func(path string) bool
}

func New(reminders ReminderAdder, files TextSaver, weather WeatherReporter) *Executor {
	return &Executor{
		OS:         platform.Current(),
		Commands:   platform.Commands,
		Launcher:   platform.Launcher{},
		Automation: platform.Runner{},
		Processes:  platform.NewTerminator(),
		Reminders:  reminders,
		Files:      files,
		Weather:    weather,
		Times:      when.NewResolver(),
		Now:        time.Now,
		Exists:     pathExists,
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Execute runs the action for intent and returns the reply to speak.
// Local failures (unknown app, missing path, failed launch) are reported
// in the reply; only storage and weather collaborator failures come back
// as errors.
func (e *Executor) Execute(ctx context.Context, intent nlu.Intent, entities map[string]string) (string, error) {
	log.Debug("Executing", "intent", intent, "entities", entities)

	switch intent {
	case nlu.Greet:
		return "Hello! How can I help?", nil
	case nlu.Bye:
		return "Goodbye!", nil
	case nlu.Time:
		return "It's " + e.now().Format("3:04 PM"), nil
	case nlu.Date:
		return "Today is " + e.now().Format("Monday, January 2, 2006"), nil
	case nlu.OpenApp:
		return e.openApp(entities["app"]), nil
	case nlu.CloseApp:
		return e.closeApp(entities["app"]), nil
	case nlu.OpenPath:
		return e.openPath(entities["target"]), nil
	case nlu.TypeText:
		return e.typeText(ctx, entities["text"]), nil
	case nlu.SaveAs:
		return e.saveAs(ctx, entities["filename"]), nil
	case nlu.SaveText:
		return e.saveText(entities["content"], entities["filename"])
	case nlu.ReminderCreate:
		return e.createReminder(ctx, entities)
	case nlu.WeatherQuery:
		return e.weather(ctx, entities["city"])
	case nlu.SetLanguage:
		return fmt.Sprintf("Language set to %s.", entities["lang"]), nil
	case nlu.None:
		return msgNotUnderstood, nil
	default:
		return msgNotUnderstood, nil
	}
}

func (e *Executor) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Executor) openApp(app string) string {
	argv, ok := e.Commands.Resolve(e.OS, app)
	if !ok {
		return fmt.Sprintf("I don't know how to open %s on this OS.", app)
	}
	if err := e.Launcher.Launch(argv); err != nil {
		log.Warn("Failed to launch", "app", app, "argv", argv, "err", err)
		return fmt.Sprintf("Failed to open %s: %v.", app, err)
	}
	return fmt.Sprintf("Opening %s.", app)
}

func (e *Executor) closeApp(app string) string {
	n, err := e.Processes.Terminate(platform.ProcessNames(app))
	if err != nil {
		log.Warn("Failed to scan processes", "app", app, "err", err)
	}
	if n > 0 {
		return fmt.Sprintf("Closed %s.", app)
	}
	return fmt.Sprintf("Could not find running %s.", app)
}

func isURL(target string) bool {
	t := strings.ToLower(target)
	return strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://") || strings.HasPrefix(t, "www.")
}

func (e *Executor) openPath(target string) string {
	if isURL(target) {
		if strings.HasPrefix(strings.ToLower(target), "www.") {
			target = "https://" + target
		}
	} else {
		exists := e.Exists
		if exists == nil {
			exists = pathExists
		}
		if !exists(target) {
			return fmt.Sprintf("Path not found: %s.", target)
		}
	}

	if err := e.Launcher.Launch(platform.OpenerArgv(e.OS, target)); err != nil {
		log.Warn("Failed to open", "target", target, "err", err)
		return fmt.Sprintf("Failed to open %s: %v.", target, err)
	}
	return fmt.Sprintf("Opening %s.", target)
}

func (e *Executor) typeText(ctx context.Context, text string) string {
	if e.OS != platform.Windows {
		return "Typing into apps is not yet supported on this OS."
	}
	if err := e.Automation.Run(ctx, typeTextArgv(text)); err != nil {
		return fmt.Sprintf("Could not type text: %v", err)
	}
	return "Typed text in the active window."
}

func (e *Executor) saveAs(ctx context.Context, filename string) string {
	if e.OS != platform.Windows {
		return "Save-as automation is not yet supported on this OS."
	}
	if err := e.Automation.Run(ctx, saveAsArgv(filename)); err != nil {
		return fmt.Sprintf("Could not save: %v", err)
	}
	return fmt.Sprintf("Saved as %s.", filename)
}

func (e *Executor) saveText(content, filename string) (string, error) {
	if e.Files == nil {
		return "", errors.New("no file storage configured")
	}
	path, err := e.Files.SaveTextFile(content, filename)
	if err != nil {
		return "", fmt.Errorf("save text: %w", err)
	}
	return fmt.Sprintf("Saved your text to %s.", filepath.Base(path)), nil
}

func (e *Executor) createReminder(ctx context.Context, entities map[string]string) (string, error) {
	times := e.Times
	if times == nil {
		times = &when.Resolver{Now: e.now}
	}
	whenTS, ok := times.Resolve(entities["in_minutes"], entities["at_time"], entities["am_pm"])
	if !ok {
		return msgBadTime, nil
	}
	if e.Reminders == nil {
		return "", errors.New("no reminder storage configured")
	}

	r, err := e.Reminders.AddReminder(ctx, entities["what"], whenTS)
	if err != nil {
		return "", fmt.Errorf("add reminder: %w", err)
	}
	log.Info("Reminder saved", "id", r.ID, "what", r.What, "when", time.Unix(r.WhenTS, 0))
	return msgReminderSaved, nil
}

func (e *Executor) weather(ctx context.Context, city string) (string, error) {
	if city == "" {
		city = defaultCity
	}
	if e.Weather == nil {
		return "", errors.New("no weather provider configured")
	}
	summary, err := e.Weather.CurrentSummary(ctx, city)
	if err != nil {
		return "", fmt.Errorf("weather for %s: %w", city, err)
	}
	return summary, nil
}
