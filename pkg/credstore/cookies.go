package credstore

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const cookiesFile = "session.yaml"

type cookieFile struct {
	Servers map[string][]storedCookie `yaml:"servers"`
}

type storedCookie struct {
	Name    string    `yaml:"name"`
	Value   string    `yaml:"value"`
	Path    string    `yaml:"path,omitempty"`
	Expires time.Time `yaml:"expires,omitempty"`
	SavedAt time.Time `yaml:"saved_at"`
}

// cookieMeta is what a jar keeps to itself: http.CookieJar.Cookies hands
// back only names and values.
type cookieMeta struct {
	path    string
	expires time.Time
}

// CookieFile persists the backend's session cookie between CLI runs. The
// cookie carries the refresh token, so without it every new process would
// have to log in again once the access token expires.
//
// Expiry and path are only known for cookies set through a jar returned by
// Track. Others are saved as session cookies on "/".
type CookieFile struct {
	path string
	now  func() time.Time

	mu   sync.Mutex
	meta map[string]cookieMeta // by cookie name
}

// DefaultCookiePath returns ~/.config/alumni/session.yaml.
func DefaultCookiePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir, cookiesFile), nil
}

func NewCookieFile(path string) *CookieFile {
	return &CookieFile{path: path, now: time.Now, meta: map[string]cookieMeta{}}
}

// Track wraps jar so the expiry and path of every cookie the server sets is
// remembered for Save.
func (c *CookieFile) Track(jar http.CookieJar) http.CookieJar {
	return &trackingJar{CookieJar: jar, file: c}
}

type trackingJar struct {
	http.CookieJar
	file *CookieFile
}

func (j *trackingJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.file.record(cookies)
	j.CookieJar.SetCookies(u, cookies)
}

func (c *CookieFile) record(cookies []*http.Cookie) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ck := range cookies {
		m := cookieMeta{path: ck.Path}
		switch {
		case ck.MaxAge < 0:
			delete(c.meta, ck.Name)
			continue
		case ck.MaxAge > 0:
			m.expires = now.Add(time.Duration(ck.MaxAge) * time.Second).UTC()
		case !ck.Expires.IsZero():
			m.expires = ck.Expires.UTC()
		}
		c.meta[ck.Name] = m
	}
}

// Restore loads the cookies saved for serverURL into jar. Cookies whose
// expiry has passed are dropped.
func (c *CookieFile) Restore(jar http.CookieJar, serverURL string) error {
	u, err := url.Parse(serverURL)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}

	cookies, err := c.load(serverURL)
	if err != nil {
		return err
	}
	// Outside the lock: a jar from Track records what it is given.
	if len(cookies) > 0 {
		jar.SetCookies(u, cookies)
	}
	return nil
}

func (c *CookieFile) load(serverURL string) ([]*http.Cookie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := c.read()
	if err != nil {
		return nil, err
	}

	now := c.now()
	stored := f.Servers[serverURL]
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, s := range stored {
		if !s.Expires.IsZero() && !now.Before(s.Expires) {
			continue
		}
		path := s.Path
		if path == "" {
			path = "/"
		}
		cookies = append(cookies, &http.Cookie{
			Name:     s.Name,
			Value:    s.Value,
			Path:     path,
			Expires:  s.Expires,
			HttpOnly: true,
		})
		c.meta[s.Name] = cookieMeta{path: path, expires: s.Expires}
	}
	return cookies, nil
}

// Save records the jar's cookies for serverURL. An empty jar removes the
// entry.
func (c *CookieFile) Save(jar http.CookieJar, serverURL string) error {
	u, err := url.Parse(serverURL)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := c.read()
	if err != nil {
		return err
	}

	now := c.now().UTC()
	var stored []storedCookie
	for _, ck := range jar.Cookies(u) {
		m := c.meta[ck.Name]
		if !m.expires.IsZero() && !now.Before(m.expires) {
			continue
		}
		stored = append(stored, storedCookie{
			Name:    ck.Name,
			Value:   ck.Value,
			Path:    m.path,
			Expires: m.expires,
			SavedAt: now,
		})
	}

	if len(stored) == 0 {
		if _, ok := f.Servers[serverURL]; !ok {
			return nil
		}
		delete(f.Servers, serverURL)
	} else {
		f.Servers[serverURL] = stored
	}

	if len(f.Servers) == 0 {
		if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete session file: %w", err)
		}
		return nil
	}
	return writeYAML(c.path, ".session-*.yaml", f)
}

func (c *CookieFile) read() (*cookieFile, error) {
	f := &cookieFile{Servers: map[string][]storedCookie{}}

	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if f.Servers == nil {
		f.Servers = map[string][]storedCookie{}
	}
	return f, nil
}
