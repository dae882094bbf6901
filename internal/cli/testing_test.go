package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/credvault/internal/identity"
	"github.com/dmitrijs2005/credvault/internal/vault"
)

type fakeGate struct {
	profiles    map[string]string
	removed     []string
	existsCalls int
}

func newFakeGate(profiles map[string]string) *fakeGate {
	if profiles == nil {
		profiles = map[string]string{}
	}
	return &fakeGate{profiles: profiles}
}

func (g *fakeGate) Authenticate(_ context.Context, owner string, proof []byte) (string, error) {
	if pass, ok := g.profiles[owner]; ok && pass == string(proof) {
		return owner, nil
	}
	return "", identity.ErrUnauthorized
}

func (g *fakeGate) Exists(_ context.Context, owner string) (bool, error) {
	g.existsCalls++
	_, ok := g.profiles[owner]
	return ok, nil
}

func (g *fakeGate) Register(_ context.Context, owner string, passphrase []byte) error {
	if err := vault.ValidateOwner(owner); err != nil {
		return err
	}
	if _, ok := g.profiles[owner]; ok {
		return identity.ErrProfileExists
	}
	g.profiles[owner] = string(passphrase)
	return nil
}

func (g *fakeGate) Remove(_ context.Context, owner string) (bool, error) {
	_, ok := g.profiles[owner]
	delete(g.profiles, owner)
	g.removed = append(g.removed, owner)
	return ok, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type harness struct {
	app   *App
	store *vault.Store
	gate  *fakeGate
	out   *bytes.Buffer
	clock *clock
}

// newHarness builds an App over a real store in a temp dir, reading the
// given input lines. Terminal detection is stubbed so passwords are read
// as plain lines.
func newHarness(t *testing.T, lines ...string) *harness {
	t.Helper()

	origIsTerminal := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = origIsTerminal })

	root := t.TempDir()
	store, err := vault.New(vault.Config{
		CredentialsDir: filepath.Join(root, "credentials"),
		KeysDir:        filepath.Join(root, "keys"),
	})
	require.NoError(t, err)

	h := &harness{
		store: store,
		gate:  newFakeGate(map[string]string{"bob": "pw"}),
		out:   &bytes.Buffer{},
		clock: &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	h.app = newApp(store, h.gate, nil, in, h.out, 5*time.Minute, h.clock.now)
	return h
}

func (h *harness) login(t *testing.T, owner string) {
	t.Helper()
	h.app.session.start(owner)
}
