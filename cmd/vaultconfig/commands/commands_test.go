package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// testCommand returns a throwaway command with captured output, and the
// buffer holding it.
func testCommand(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	return cmd, &buf
}

// useStore points all store resolution at a temp directory for the test.
func useStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	origDir, origFormat, origSchema := configDirFlag, formatFlag, schemaFlag
	configDirFlag, formatFlag, schemaFlag = dir, "toml", ""
	t.Cleanup(func() {
		configDirFlag, formatFlag, schemaFlag = origDir, origFormat, origSchema
	})
	return dir
}

func TestCreateGetSetFlow(t *testing.T) {
	useStore(t)

	cmd, out := testCommand(t)
	if err := runCreate(cmd, []string{"prod", "host=db.example.com", "database.port=5432"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out.String(), "Created") {
		t.Errorf("create output: %s", out.String())
	}

	cmd, out = testCommand(t)
	if err := runGet(cmd, []string{"prod", "database.port"}); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "5432" {
		t.Errorf("get output = %q, want 5432", got)
	}

	cmd, _ = testCommand(t)
	setType = "auto"
	if err := runSet(cmd, []string{"prod", "database.port", "5433"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	cmd, out = testCommand(t)
	if err := runGet(cmd, []string{"prod", "database.port"}); err != nil {
		t.Fatalf("get after set: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "5433" {
		t.Errorf("get after set = %q, want 5433", got)
	}
}

func TestCreateRejectsDuplicate(t *testing.T) {
	useStore(t)

	cmd, _ := testCommand(t)
	if err := runCreate(cmd, []string{"prod", "a=1"}); err != nil {
		t.Fatal(err)
	}

	cmd, _ = testCommand(t)
	if err := runCreate(cmd, []string{"prod", "a=2"}); err == nil {
		t.Fatal("second create without --force succeeded")
	}
}

func TestCreateBadPair(t *testing.T) {
	useStore(t)

	cmd, _ := testCommand(t)
	if err := runCreate(cmd, []string{"prod", "no-equals-sign"}); err == nil {
		t.Fatal("create accepted a malformed pair")
	}
}

func TestUnsetRemovesKey(t *testing.T) {
	useStore(t)

	cmd, _ := testCommand(t)
	if err := runCreate(cmd, []string{"prod", "a=1", "b=2"}); err != nil {
		t.Fatal(err)
	}

	cmd, _ = testCommand(t)
	if err := runUnset(cmd, []string{"prod", "a"}); err != nil {
		t.Fatalf("unset: %v", err)
	}

	cmd, _ = testCommand(t)
	if err := runGet(cmd, []string{"prod", "a"}); err == nil {
		t.Fatal("get of removed key succeeded")
	}
}

func TestDeleteWithYes(t *testing.T) {
	useStore(t)

	cmd, _ := testCommand(t)
	if err := runCreate(cmd, []string{"prod", "a=1"}); err != nil {
		t.Fatal(err)
	}

	origYes := deleteYes
	deleteYes = true
	defer func() { deleteYes = origYes }()

	cmd, out := testCommand(t)
	if err := runDelete(cmd, []string{"prod"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted prod") {
		t.Errorf("delete output: %s", out.String())
	}
}

func TestCopyAndRename(t *testing.T) {
	useStore(t)

	cmd, _ := testCommand(t)
	if err := runCreate(cmd, []string{"prod", "a=1"}); err != nil {
		t.Fatal(err)
	}

	cmd, _ = testCommand(t)
	if err := runCopy(cmd, []string{"prod", "staging"}); err != nil {
		t.Fatalf("copy: %v", err)
	}

	cmd, _ = testCommand(t)
	if err := runRename(cmd, []string{"staging", "preprod"}); err != nil {
		t.Fatalf("rename: %v", err)
	}

	cmd, out := testCommand(t)
	origJSON := listJSON
	listJSON = false
	defer func() { listJSON = origJSON }()
	if err := runList(cmd, nil); err != nil {
		t.Fatal(err)
	}
	listing := out.String()
	if !strings.Contains(listing, "prod") || !strings.Contains(listing, "preprod") {
		t.Errorf("list output missing configs: %s", listing)
	}
	if strings.Contains(listing, "staging") {
		t.Errorf("renamed config still listed: %s", listing)
	}
}

func TestExportEnv(t *testing.T) {
	useStore(t)

	cmd, _ := testCommand(t)
	if err := runCreate(cmd, []string{"prod", "host=db.example.com", "database.port=5432"}); err != nil {
		t.Fatal(err)
	}

	origPrefix := envPrefix
	envPrefix = "PROD_"
	defer func() { envPrefix = origPrefix }()

	cmd, out := testCommand(t)
	if err := runExportEnv(cmd, []string{"prod"}); err != nil {
		t.Fatalf("export-env: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"export PROD_HOST='db.example.com'",
		"export PROD_DATABASE_PORT='5432'",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("export-env output missing %q:\n%s", want, got)
		}
	}
}

func TestObscureRevealRoundTrip(t *testing.T) {
	cmd, out := testCommand(t)
	if err := runObscure(cmd, []string{"hunter2"}); err != nil {
		t.Fatalf("obscure: %v", err)
	}

	// Output holds the warning on stderr plus the value; take the last line.
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	obscured := lines[len(lines)-1]

	cmd, out = testCommand(t)
	if err := runReveal(cmd, []string{obscured}); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "hunter2" {
		t.Errorf("reveal = %q, want hunter2", got)
	}
}

func TestRevealRejectsGarbage(t *testing.T) {
	cmd, _ := testCommand(t)
	if err := runReveal(cmd, []string{"not/base64!"}); err == nil {
		t.Fatal("reveal accepted garbage")
	}
}
