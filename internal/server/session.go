package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	SessionCookie = "nova_session"
	sessionKey    = "nova.session"

	DefaultMaxSessions = 4096
)

type Languages struct {
	STT string `json:"stt_lang"`
	TTS string `json:"tts_lang"`
}

// sessions keeps per-browser language choices, evicting the least
// recently used once full. Unset fields fall back to the configured
// defaults when read.
type sessions struct {
	// mu makes set's read-modify-write atomic; the cache locks itself
	// for single calls.
	mu       sync.Mutex
	byID     *lru.Cache[string, Languages]
	defaults Languages
}

func newSessions(defaults Languages, size int) *sessions {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	// lru.New only fails on a non-positive size.
	byID, _ := lru.New[string, Languages](size)
	return &sessions{byID: byID, defaults: defaults}
}

func (s *sessions) get(id string) Languages {
	l, _ := s.byID.Get(id)
	if l.STT == "" {
		l.STT = s.defaults.STT
	}
	if l.TTS == "" {
		l.TTS = s.defaults.TTS
	}
	return l
}

// set stores the non-empty fields of l and returns what the session holds
// now, without defaults applied.
func (s *sessions) set(id string, l Languages) Languages {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, _ := s.byID.Get(id)
	if l.STT != "" {
		cur.STT = l.STT
	}
	if l.TTS != "" {
		cur.TTS = l.TTS
	}
	s.byID.Add(id, cur)
	return cur
}

func (s *sessions) known(id string) bool {
	return s.byID.Contains(id)
}

func (s *sessions) create() string {
	id := uuid.NewString()
	s.byID.Add(id, Languages{})
	return id
}

func (s *sessions) len() int { return s.byID.Len() }

// middleware attaches a session id to every request, issuing a cookie for
// new or unknown ids.
func (s *sessions) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || !s.known(id) {
			id = s.create()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
