package auth

import (
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"citadel/internal/model"
	"citadel/internal/repository"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding the signed session id.
const SessionName = "citadel_session"

const userIDKey = "user_id"

// PGStore is a sessions.Store that keeps session values in the sessions
// table. The cookie only carries the signed session id.
type PGStore struct {
	repo    repository.SessionRepository
	Codecs  []securecookie.Codec
	Options *sessions.Options
}

// NewPGStore signs cookies with keyPairs, following securecookie.CodecsFromPairs.
func NewPGStore(repo repository.SessionRepository, maxAge int, secure bool, keyPairs ...[]byte) *PGStore {
	codecs := securecookie.CodecsFromPairs(keyPairs...)
	for _, c := range codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(maxAge)
		}
	}
	return &PGStore{
		repo:   repo,
		Codecs: codecs,
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   maxAge,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

func (s *PGStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns the stored session for the request cookie, or a fresh one when
// the cookie is absent, tampered with or expired.
func (s *PGStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.Codecs...); err != nil {
		return session, nil
	}

	row, err := s.repo.GetSession(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return session, nil
	}
	if err != nil {
		return session, fmt.Errorf("load session: %w", err)
	}

	var values map[string]any
	if err := json.Unmarshal(row.Data, &values); err != nil {
		return session, fmt.Errorf("decode session %s: %w", id, err)
	}
	for k, v := range values {
		session.Values[k] = v
	}
	session.ID = id
	session.IsNew = false
	return session, nil
}

// Save persists the session, or deletes it when Options.MaxAge < 0.
func (s *PGStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.repo.DeleteSession(r.Context(), session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	values := make(map[string]any, len(session.Values))
	for k, v := range session.Values {
		key, ok := k.(string)
		if !ok {
			return fmt.Errorf("session key %v is not a string", k)
		}
		values[key] = v
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	row := &model.Session{
		SID:    session.ID,
		Data:   data,
		Expire: time.Now().Add(time.Duration(session.Options.MaxAge) * time.Second),
	}
	if err := s.repo.SaveSession(r.Context(), row); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return fmt.Errorf("sign session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Regenerate forgets the stored row and values so the next Save mints a new
// session id. Callers run it when the session's privilege changes.
func (s *PGStore) Regenerate(r *http.Request, session *sessions.Session) error {
	if session.ID != "" {
		if err := s.repo.DeleteSession(r.Context(), session.ID); err != nil {
			return fmt.Errorf("drop session %s: %w", session.ID, err)
		}
	}
	for k := range session.Values {
		delete(session.Values, k)
	}
	session.ID = ""
	session.IsNew = true
	return nil
}

// UserID returns the signed-in user id stored in the request's session.
func UserID(store sessions.Store, r *http.Request) (string, bool) {
	session, err := store.Get(r, SessionName)
	if err != nil || session.IsNew {
		return "", false
	}
	id, ok := session.Values[userIDKey].(string)
	return id, ok && id != ""
}
