package settings

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points the XDG data dir at a temp directory so tests never
// touch real credentials.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv(DefaultKeyEnv, "")
	return dir
}

func TestSaveLoadRemove(t *testing.T) {
	dir := isolate(t)

	if creds := Load(); creds != nil {
		t.Fatalf("load before save = %+v, want nil", creds)
	}

	want := &Credentials{Key: "sk-test-1234", BaseURL: "https://example.com/v1"}
	if err := Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	// 0600: the key must not be world-readable.
	info, err := os.Stat(filepath.Join(dir, "extloc", "auth.json"))
	if err != nil {
		t.Fatalf("stat auth file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("auth file mode = %04o, want 0600", perm)
	}

	got := Load()
	if got == nil || got.Key != want.Key || got.BaseURL != want.BaseURL {
		t.Errorf("load = %+v, want %+v", got, want)
	}

	if err := Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if creds := Load(); creds != nil {
		t.Errorf("load after remove = %+v, want nil", creds)
	}

	// Removing again is not an error.
	if err := Remove(); err != nil {
		t.Errorf("second remove: %v", err)
	}
}

func TestResolveAPIKey_Precedence(t *testing.T) {
	isolate(t)

	Save(&Credentials{Key: "stored-key"})
	t.Setenv(DefaultKeyEnv, "default-env-key")
	t.Setenv("MY_KEY_VAR", "custom-env-key")

	// Flag beats everything.
	key, source := ResolveAPIKey("flag-key", "MY_KEY_VAR")
	if key != "flag-key" || source != "--api-key flag" {
		t.Errorf("flag: %q from %q", key, source)
	}

	// Named variable beats the default variable and the store.
	key, source = ResolveAPIKey("", "MY_KEY_VAR")
	if key != "custom-env-key" || source != "$MY_KEY_VAR" {
		t.Errorf("named env: %q from %q", key, source)
	}

	// Default variable beats the store.
	key, source = ResolveAPIKey("", "")
	if key != "default-env-key" || source != "$"+DefaultKeyEnv {
		t.Errorf("default env: %q from %q", key, source)
	}

	// The store is last.
	t.Setenv(DefaultKeyEnv, "")
	key, source = ResolveAPIKey("", "")
	if key != "stored-key" || source != "stored credentials" {
		t.Errorf("store: %q from %q", key, source)
	}
}

func TestResolveAPIKey_Nothing(t *testing.T) {
	isolate(t)

	key, source := ResolveAPIKey("", "")
	if key != "" || source != "" {
		t.Errorf("got %q from %q, want empty", key, source)
	}
}

func TestResolveAPIKey_EmptyNamedVarFallsThrough(t *testing.T) {
	isolate(t)
	t.Setenv(DefaultKeyEnv, "fallback")

	key, _ := ResolveAPIKey("", "UNSET_VAR_FOR_TEST")
	if key != "fallback" {
		t.Errorf("key = %q, want fallback", key)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "****"},
		{"short", "****"},
		{"12345678", "****"},
		{"sk-abcdef123456", "sk-a...3456"},
	}
	for _, tc := range tests {
		if got := MaskKey(tc.in); got != tc.want {
			t.Errorf("MaskKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
