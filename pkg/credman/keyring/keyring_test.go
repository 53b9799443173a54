package keyring

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/zalando/go-keyring"
)

func TestKeyring_SetGetDelete(t *testing.T) {
	keyring.MockInit()
	k := NewKeyring()

	if _, err := k.GetToken(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("GetToken before set = %v, want ErrNoToken", err)
	}
	token, err := k.SetToken()
	if err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(token))
	}
	got, err := k.GetToken()
	if err != nil || got != token {
		t.Fatalf("GetToken = %q, %v", got, err)
	}
	if err := k.DeleteToken(); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if err := k.DeleteToken(); err != nil {
		t.Fatalf("second DeleteToken: %v", err)
	}
}

func TestKeyring_RandFailure(t *testing.T) {
	keyring.MockInit()
	orig := randRead
	randRead = func([]byte) (int, error) { return 0, errors.New("entropy exhausted") }
	defer func() { randRead = orig }()

	if _, err := NewKeyring().SetToken(); err == nil {
		t.Fatal("expected error")
	}
}

func TestFileTokenStore(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := NewFileTokenStore(fsys, "/data")

	if _, err := s.GetToken(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("GetToken before set = %v, want ErrNoToken", err)
	}
	token, err := s.SetToken()
	if err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if _, err := fsys.Stat("/data/" + tokenFileName); err != nil {
		t.Fatalf("token file not created: %v", err)
	}
	got, err := s.GetToken()
	if err != nil || got != token {
		t.Fatalf("GetToken = %q, %v", got, err)
	}

	entries, _ := afero.ReadDir(fsys, "/data")
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}

	if err := s.DeleteToken(); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if err := s.DeleteToken(); err != nil {
		t.Fatalf("second DeleteToken: %v", err)
	}
}

func TestFileTokenStore_Permissions(t *testing.T) {
	dir := t.TempDir()
	s := NewFileTokenStore(afero.NewOsFs(), dir)
	if _, err := s.SetToken(); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	info, err := afero.NewOsFs().Stat(s.path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != tokenFileMode {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), tokenFileMode)
	}
}

type brokenStore struct{}

func (brokenStore) GetToken() (string, error) { return "", errors.New("no keyring service") }
func (brokenStore) SetToken() (string, error) { return "", errors.New("no keyring service") }
func (brokenStore) DeleteToken() error { return nil }

func TestEnsure_FallsBack(t *testing.T) {
	file := NewFileTokenStore(afero.NewMemMapFs(), "/data")

	token, err := Ensure(brokenStore{}, file)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	again, err := Ensure(brokenStore{}, file)
	if err != nil || again != token {
		t.Fatalf("second Ensure = %q, %v; want %q", again, err, token)
	}
	found, err := Lookup(brokenStore{}, file)
	if err != nil || found != token {
		t.Fatalf("Lookup = %q, %v", found, err)
	}
}

func TestEnsure_AllBroken(t *testing.T) {
	if _, err := Ensure(brokenStore{}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Lookup(brokenStore{}); !errors.Is(err, ErrNoToken) {
		t.Fatalf("Lookup = %v, want ErrNoToken", err)
	}
}
