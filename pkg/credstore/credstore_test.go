package credstore_test

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
	"github.com/aussiebroadwan/alumni/pkg/credstore"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

var (
	_ alumnisdk.CredentialStore = (*credstore.FileStore)(nil)
	_ alumnisdk.CredentialStore = (*credstore.KeyringStore)(nil)
)

func TestFileStore(t *testing.T) {
	t.Parallel()

	t.Run("empty when missing", func(t *testing.T) {
		s := credstore.NewFileStore(filepath.Join(t.TempDir(), "creds.yaml"), "https://a.example")
		token, err := s.Load()
		require.NoError(t, err)
		require.Empty(t, token)
		require.NoError(t, s.Remove())
	})

	t.Run("save load remove", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "creds.yaml")
		s := credstore.NewFileStore(path, "https://a.example")

		require.NoError(t, s.Save("abc"))
		token, err := s.Load()
		require.NoError(t, err)
		require.Equal(t, "abc", token)

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		dir, err := os.Stat(filepath.Dir(path))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o700), dir.Mode().Perm())

		require.NoError(t, s.Remove())
		_, err = os.Stat(path)
		require.True(t, os.IsNotExist(err))
	})

	t.Run("servers are kept apart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.yaml")
		a := credstore.NewFileStore(path, "https://a.example")
		b := credstore.NewFileStore(path, "https://b.example")

		require.NoError(t, a.Save("token-a"))
		require.NoError(t, b.Save("token-b"))
		require.NoError(t, a.Remove())

		token, err := a.Load()
		require.NoError(t, err)
		require.Empty(t, token)

		token, err = b.Load()
		require.NoError(t, err)
		require.Equal(t, "token-b", token)
	})

	t.Run("second store sees saved token", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.yaml")
		writer := credstore.NewFileStore(path, "https://a.example")
		reader := credstore.NewFileStore(path, "https://a.example")

		require.NoError(t, writer.Save("one"))
		require.NoError(t, writer.Save("two"))

		token, err := reader.Load()
		require.NoError(t, err)
		require.Equal(t, "two", token)
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.yaml")
		require.NoError(t, os.WriteFile(path, []byte("servers: [::"), 0o600))

		_, err := credstore.NewFileStore(path, "https://a.example").Load()
		require.Error(t, err)
	})
}

// Not parallel: MockInit swaps the package-level keyring provider.
func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	s := credstore.NewKeyringStore("https://a.example")

	token, err := s.Load()
	require.NoError(t, err)
	require.Empty(t, token)

	require.NoError(t, s.Save("abc"))
	token, err = s.Load()
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	require.NoError(t, s.Remove())
	require.NoError(t, s.Remove())

	token, err = s.Load()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	s, err := credstore.Open(credstore.BackendFile, filepath.Join(t.TempDir(), "c.yaml"), "https://a.example")
	require.NoError(t, err)
	require.IsType(t, &credstore.FileStore{}, s)

	s, err = credstore.Open(credstore.BackendKeyring, "", "https://a.example")
	require.NoError(t, err)
	require.IsType(t, &credstore.KeyringStore{}, s)

	_, err = credstore.Open("vault", "", "https://a.example")
	require.Error(t, err)
}

func TestCookieFile(t *testing.T) {
	t.Parallel()

	const server = "http://localhost:8080"
	u, err := url.Parse(server)
	require.NoError(t, err)

	newJar := func(t *testing.T) *cookiejar.Jar {
		t.Helper()
		jar, err := cookiejar.New(nil)
		require.NoError(t, err)
		return jar
	}

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.yaml")
		f := credstore.NewCookieFile(path)

		jar := newJar(t)
		jar.SetCookies(u, []*http.Cookie{{Name: "alumni_session", Value: "opaque", Path: "/"}})
		require.NoError(t, f.Save(jar, server))

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		restored := newJar(t)
		require.NoError(t, credstore.NewCookieFile(path).Restore(restored, server))
		cookies := restored.Cookies(u)
		require.Len(t, cookies, 1)
		require.Equal(t, "alumni_session", cookies[0].Name)
		require.Equal(t, "opaque", cookies[0].Value)
	})

	t.Run("empty jar removes the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.yaml")
		f := credstore.NewCookieFile(path)

		jar := newJar(t)
		jar.SetCookies(u, []*http.Cookie{{Name: "alumni_session", Value: "opaque", Path: "/"}})
		require.NoError(t, f.Save(jar, server))
		require.NoError(t, f.Save(newJar(t), server))

		_, err := os.Stat(path)
		require.True(t, os.IsNotExist(err))
	})

	t.Run("missing file restores nothing", func(t *testing.T) {
		jar := newJar(t)
		require.NoError(t, credstore.NewCookieFile(filepath.Join(t.TempDir(), "none.yaml")).Restore(jar, server))
		require.Empty(t, jar.Cookies(u))
	})

	type onDisk struct {
		Servers map[string][]struct {
			Name    string    `yaml:"name"`
			Path    string    `yaml:"path"`
			Expires time.Time `yaml:"expires"`
		} `yaml:"servers"`
	}

	t.Run("expiry and path survive a round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.yaml")
		f := credstore.NewCookieFile(path)

		jar := f.Track(newJar(t))
		before := time.Now()
		jar.SetCookies(u, []*http.Cookie{{Name: "alumni_session", Value: "opaque", Path: "/", MaxAge: 3600}})
		require.NoError(t, f.Save(jar, server))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var disk onDisk
		require.NoError(t, yaml.Unmarshal(data, &disk))
		require.Len(t, disk.Servers[server], 1)
		saved := disk.Servers[server][0]
		require.Equal(t, "/", saved.Path)
		require.WithinDuration(t, before.Add(time.Hour), saved.Expires, time.Minute)

		// A second run saves what it restored without losing the expiry.
		g := credstore.NewCookieFile(path)
		restored := g.Track(newJar(t))
		require.NoError(t, g.Restore(restored, server))
		require.Len(t, restored.Cookies(u), 1)
		require.NoError(t, g.Save(restored, server))

		data, err = os.ReadFile(path)
		require.NoError(t, err)
		disk = onDisk{}
		require.NoError(t, yaml.Unmarshal(data, &disk))
		require.Len(t, disk.Servers[server], 1)
		require.True(t, saved.Expires.Equal(disk.Servers[server][0].Expires))
	})

	t.Run("expired cookie is not restored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.yaml")
		data := []byte(`servers:
  ` + server + `:
    - name: stale
      value: old
      path: /
      expires: 2000-01-01T00:00:00Z
      saved_at: 2000-01-01T00:00:00Z
    - name: alumni_session
      value: opaque
      path: /
      expires: ` + time.Now().Add(time.Hour).UTC().Format(time.RFC3339) + `
      saved_at: 2000-01-01T00:00:00Z
`)
		require.NoError(t, os.WriteFile(path, data, 0o600))

		jar := newJar(t)
		require.NoError(t, credstore.NewCookieFile(path).Restore(jar, server))
		cookies := jar.Cookies(u)
		require.Len(t, cookies, 1)
		require.Equal(t, "alumni_session", cookies[0].Name)
	})

	t.Run("deleted cookie is not saved", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.yaml")
		f := credstore.NewCookieFile(path)

		jar := f.Track(newJar(t))
		jar.SetCookies(u, []*http.Cookie{{Name: "alumni_session", Value: "opaque", Path: "/", MaxAge: 3600}})
		jar.SetCookies(u, []*http.Cookie{{Name: "alumni_session", Path: "/", MaxAge: -1}})
		require.NoError(t, f.Save(jar, server))

		_, err := os.Stat(path)
		require.True(t, os.IsNotExist(err))
	})
}
