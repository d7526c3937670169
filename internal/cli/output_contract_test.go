package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func TestOutputContract_JSONEnvelope(t *testing.T) {
	dir := t.TempDir()

	mustEnv := func(args ...string) map[string]any {
		t.Helper()
		stdout, stderr, err := runCLI(t, args)
		if err != nil {
			t.Fatalf("command failed: braid %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
		}
		var env map[string]any
		if err := json.Unmarshal(stdout, &env); err != nil {
			t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
		}
		if _, ok := env["data"]; !ok {
			t.Fatalf("expected JSON envelope to contain data key; got: %v\nstdout:\n%s", env, string(stdout))
		}
		return env
	}

	mustEnv("--dir", dir, "init")

	ctr := mustEnv("--dir", dir, "containers", "create", "--title", "Act I", "--at", "0", "--end", "0")
	ctrID, _ := ctr["data"].(map[string]any)["id"].(string)
	if ctrID == "" {
		t.Fatalf("expected containers create to return id; got: %#v", ctr["data"])
	}
	mustEnv("--dir", dir, "containers", "list")
	mustEnv("--dir", dir, "containers", "show", ctrID)

	open := mustEnv("--dir", dir, "threads", "start", "--type", "idea", "--at", "1", "--title", "the letter")
	openID, _ := open["data"].(map[string]any)["id"].(string)
	if openID == "" {
		t.Fatalf("expected threads start to return open node id; got: %#v", open["data"])
	}
	mustEnv("--dir", dir, "threads", "complete", openID, "--at", "2")

	threads := mustEnv("--dir", dir, "threads", "list")
	rows, ok := threads["data"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("expected one thread row; got: %#v", threads["data"])
	}
	row := rows[0].(map[string]any)
	if row["closeSlot"] == nil {
		t.Fatalf("expected thread row to carry a close slot; got: %#v", row)
	}

	mustEnv("--dir", dir, "nodes", "list")
	mustEnv("--dir", dir, "nodes", "show", openID)
	mustEnv("--dir", dir, "status")
	mustEnv("--dir", dir, "board", "show")

	compact := mustEnv("--dir", dir, "board", "compact")
	if changed, _ := compact["data"].(map[string]any)["changed"].(bool); changed {
		t.Fatalf("expected a freshly built board to already be contiguous")
	}

	events := mustEnv("--dir", dir, "events", "list")
	if evs, ok := events["data"].([]any); !ok || len(evs) == 0 {
		t.Fatalf("expected mutation events in the journal; got: %#v", events["data"])
	}
}

func TestThreadsCreate_RejectsUnknownType(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := runCLI(t, []string{"--dir", dir, "init"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	_, stderr, err := runCLI(t, []string{"--dir", dir, "threads", "create", "--type", "bogus", "--at", "0"})
	if err == nil {
		t.Fatalf("expected invalid type to fail")
	}
	if !strings.Contains(string(stderr), "invalid thread type") {
		t.Fatalf("stderr = %q, want type complaint", string(stderr))
	}
}

func TestNodesShow_NotFound(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := runCLI(t, []string{"--dir", dir, "init"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	_, _, err := runCLI(t, []string{"--dir", dir, "nodes", "show", "node-missing1"})
	if err == nil {
		t.Fatalf("expected missing node to fail")
	}
}
