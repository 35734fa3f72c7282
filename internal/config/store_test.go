// internal/config/store_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sshdock/internal/models"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "config"), filepath.Join(dir, "sshdock.json")), dir
}

func TestLoadMissingFilesYieldsEmptyRegistry(t *testing.T) {
	store, _ := newTestStore(t)
	reg, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, reg.Hosts)
	assert.Empty(t, reg.Tags)
}

func TestSaveAndReload(t *testing.T) {
	store, dir := newTestStore(t)
	reg, err := store.Load()
	require.NoError(t, err)

	host := models.NewHost("web", "192.168.1.10")
	host.User = "deploy"
	host.Port = 2222
	host.Note = "primary web box"
	reg.Tags = []string{"prod"}
	host.Tags = []string{"prod"}
	host.SSHFlags = []string{"-A"}
	host.Shell = "zsh"
	reg.Hosts = append(reg.Hosts, host)

	require.NoError(t, store.Save(reg))

	// Config file only carries connection fields.
	content, err := os.ReadFile(filepath.Join(dir, "config"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Host web")
	assert.NotContains(t, string(content), "primary web box")

	reloaded := NewStore(filepath.Join(dir, "config"), filepath.Join(dir, "sshdock.json"))
	reg2, err := reloaded.Load()
	require.NoError(t, err)
	require.Len(t, reg2.Hosts, 1)

	got := reg2.Hosts[0]
	assert.Equal(t, "web", got.Alias)
	assert.Equal(t, "deploy", got.User)
	assert.Equal(t, "primary web box", got.Note)
	assert.Equal(t, []string{"prod"}, got.Tags)
	assert.Equal(t, []string{"-A"}, got.SSHFlags)
	assert.Equal(t, "zsh", got.Shell)
	assert.Equal(t, []string{"prod"}, reg2.Tags)
}

func TestSaveMetadataOnlyStampsLastUsed(t *testing.T) {
	store, dir := newTestStore(t)
	reg, err := store.Load()
	require.NoError(t, err)

	host := models.NewHost("web", "192.168.1.10")
	reg.Hosts = append(reg.Hosts, host)
	require.NoError(t, store.Save(reg))

	before, err := os.ReadFile(filepath.Join(dir, "config"))
	require.NoError(t, err)

	host.MarkUsed()
	require.NoError(t, store.SaveMetadata(reg))

	// SSH config untouched by a metadata-only write.
	after, err := os.ReadFile(filepath.Join(dir, "config"))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	reg2, err := NewStore(filepath.Join(dir, "config"), filepath.Join(dir, "sshdock.json")).Load()
	require.NoError(t, err)
	require.NotNil(t, reg2.Hosts[0].LastUsed)
	assert.WithinDuration(t, time.Now(), *reg2.Hosts[0].LastUsed, time.Minute)
}

func TestMetadataDropsDeletedHosts(t *testing.T) {
	store, _ := newTestStore(t)
	reg, err := store.Load()
	require.NoError(t, err)

	reg.Hosts = append(reg.Hosts,
		models.NewHost("a", "1.1.1.1"),
		models.NewHost("b", "2.2.2.2"))
	require.NoError(t, store.Save(reg))

	reg.Remove("a")
	require.NoError(t, store.Save(reg))

	reg2, err := store.Load()
	require.NoError(t, err)
	require.Len(t, reg2.Hosts, 1)
	assert.Equal(t, "b", reg2.Hosts[0].Alias)
}

func TestBackfillTagPool(t *testing.T) {
	reg := models.NewRegistry()
	reg.Tags = []string{"prod"}
	a := models.NewHost("a", "1.1.1.1")
	a.Tags = []string{"staging", "db"}
	b := models.NewHost("b", "2.2.2.2")
	b.Tags = []string{"prod", "db"}
	reg.Hosts = append(reg.Hosts, a, b)

	backfillTagPool(reg)
	// Missing tags appended sorted, existing pool untouched.
	assert.Equal(t, []string{"prod", "db", "staging"}, reg.Tags)
}

func TestValidate(t *testing.T) {
	store, _ := newTestStore(t)
	reg := models.NewRegistry()
	reg.Tags = []string{"prod"}
	existing := models.NewHost("web", "192.168.1.10")
	jump := models.NewHost("bastion", "10.0.0.1")
	reg.Hosts = append(reg.Hosts, existing, jump)

	valid := models.NewHost("db", "10.0.0.5")

	cases := []struct {
		name    string
		mutate  func(h *models.Host)
		editing string
		wantErr string
	}{
		{name: "ok", mutate: func(h *models.Host) {}},
		{name: "empty alias", mutate: func(h *models.Host) { h.Alias = "" }, wantErr: "alias"},
		{name: "whitespace alias", mutate: func(h *models.Host) { h.Alias = "my host" }, wantErr: "whitespace"},
		{name: "empty hostname", mutate: func(h *models.Host) { h.Hostname = "" }, wantErr: "hostname"},
		{name: "port too high", mutate: func(h *models.Host) { h.Port = 70000 }, wantErr: "port"},
		{name: "negative port", mutate: func(h *models.Host) { h.Port = -1 }, wantErr: "port"},
		{name: "duplicate alias", mutate: func(h *models.Host) { h.Alias = "web" }, wantErr: "already exists"},
		{name: "own alias while editing", mutate: func(h *models.Host) { h.Alias = "web" }, editing: "web"},
		{name: "self jump", mutate: func(h *models.Host) { h.ProxyJump = "db" }, wantErr: "itself"},
		{name: "unknown jump", mutate: func(h *models.Host) { h.ProxyJump = "nope" }, wantErr: "not a known alias"},
		{name: "valid jump", mutate: func(h *models.Host) { h.ProxyJump = "bastion" }},
		{name: "tag outside pool", mutate: func(h *models.Host) { h.Tags = []string{"rogue"} }, wantErr: "tag pool"},
		{name: "tag in pool", mutate: func(h *models.Host) { h.Tags = []string{"prod"} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := valid.Clone()
			tc.mutate(draft)
			err := store.Validate(draft, reg, tc.editing)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestAddTag(t *testing.T) {
	store, _ := newTestStore(t)
	reg := models.NewRegistry()

	require.NoError(t, store.AddTag(reg, "prod"))
	assert.Error(t, store.AddTag(reg, "prod"), "duplicate insertion")
	assert.Error(t, store.AddTag(reg, "  "), "blank name")
	assert.Equal(t, []string{"prod"}, reg.Tags)
}

func TestRemoveTagCascades(t *testing.T) {
	store, _ := newTestStore(t)
	reg := models.NewRegistry()
	reg.Tags = []string{"prod", "db"}
	a := models.NewHost("a", "1.1.1.1")
	a.Tags = []string{"prod", "db"}
	b := models.NewHost("b", "2.2.2.2")
	b.Tags = []string{"prod"}
	reg.Hosts = append(reg.Hosts, a, b)

	store.RemoveTag(reg, "prod")

	assert.Equal(t, []string{"db"}, reg.Tags)
	assert.Equal(t, []string{"db"}, a.Tags)
	assert.Empty(t, b.Tags)
}

func TestWriteFileAtomicCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config")
	require.NoError(t, writeFileAtomic(path, []byte("data"), 0600))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
