package cmd

import (
	"net/http"
	"strings"
	"testing"
)

func sampleMergeRequests() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"id": 1001, "iid": 17, "title": "Add login form", "state": "opened",
			"source_branch": "feature/login", "target_branch": "main",
			"author":  map[string]interface{}{"id": 3, "username": "jdoe"},
			"web_url": "https://gitlab.example.com/acme/app/-/merge_requests/17",
		},
	}
}

func TestMergeRequestList(t *testing.T) {
	ms, _ := setupServer(t)
	ms.HandleJSON(http.MethodGet, "/api/v4/projects/acme%2Fapp/merge_requests", http.StatusOK, sampleMergeRequests())

	res := runCLI(t, "", "mr", "list", "-p", "acme/app", "-o", "text")
	if res.err != nil {
		t.Fatalf("mr list failed: %v\nstderr=%s", res.err, res.stderr)
	}
	for _, want := range []string{"Merge Requests", "IID", "Add login form", "jdoe", "feature/login", "opened"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q:\n%s", want, res.stdout)
		}
	}
	if got := ms.Requests()[0].URL.Query().Get("state"); got != "opened" {
		t.Errorf("state = %q, want opened", got)
	}
}

func TestMergeRequestList_States(t *testing.T) {
	tests := []struct {
		state     string
		wantQuery string
	}{
		{"merged", "merged"},
		{"closed", "closed"},
		{"all", ""},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			ms, _ := setupServer(t)
			ms.HandleJSON(http.MethodGet, "/api/v4/projects/42/merge_requests", http.StatusOK, []interface{}{})

			res := runCLI(t, "", "merge-request", "list", "-p", "42", "--state", tt.state, "-o", "json")
			if res.err != nil {
				t.Fatalf("mr list failed: %v", res.err)
			}
			q := ms.Requests()[0].URL.Query()
			if got := q.Get("state"); got != tt.wantQuery {
				t.Errorf("state = %q, want %q", got, tt.wantQuery)
			}
			if strings.TrimSpace(res.stdout) != "[]" {
				t.Errorf("stdout = %q", res.stdout)
			}
		})
	}
}

func TestMergeRequestList_InvalidState(t *testing.T) {
	ms, _ := setupServer(t)

	res := runCLI(t, "", "mr", "list", "-p", "42", "--state", "draft", "-o", "text")
	if got := ExitCode(res.err); got != ExitUser {
		t.Fatalf("ExitCode = %d, want %d (err=%v)", got, ExitUser, res.err)
	}
	if !strings.Contains(res.stderr, "must be one of opened, closed, merged, locked, all") {
		t.Errorf("stderr = %q", res.stderr)
	}
	if n := len(ms.Requests()); n != 0 {
		t.Errorf("requests = %d, want none", n)
	}
}

func TestMergeRequestOpen(t *testing.T) {
	ms, _ := setupServer(t)
	opened := stubBrowser(t)
	ms.HandleJSON(http.MethodGet, "/api/v4/projects/acme%2Fapp/merge_requests/17", http.StatusOK, sampleMergeRequests()[0])

	res := runCLI(t, "", "mr", "open", "-p", "acme/app", "-m", "17")
	if res.err != nil {
		t.Fatalf("mr open failed: %v\nstderr=%s", res.err, res.stderr)
	}
	if len(*opened) != 1 || (*opened)[0] != "https://gitlab.example.com/acme/app/-/merge_requests/17" {
		t.Errorf("opened = %v", *opened)
	}

	res = runCLI(t, "", "mr", "open", "-p", "acme/app", "--mr-id", "17", "--no-browser")
	if res.err != nil {
		t.Fatalf("mr open --no-browser failed: %v", res.err)
	}
	if res.stdout != "https://gitlab.example.com/acme/app/-/merge_requests/17\n" {
		t.Errorf("stdout = %q", res.stdout)
	}
	if len(*opened) != 1 {
		t.Errorf("browser opened again: %v", *opened)
	}
}

func TestMergeRequestOpen_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     string
	}{
		{"zero iid", []string{"-p", "42", "-m", "0"}, ExitUser, "must be a positive number"},
		{"missing iid", []string{"-p", "42"}, ExitUser, "validation error for mr-id"},
		{"not found", []string{"-p", "42", "-m", "99"}, ExitNotFound, `merge request "42!99" not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupServer(t)
			stubBrowser(t)

			args := append([]string{"mr", "open", "-o", "text"}, tt.args...)
			res := runCLI(t, "", args...)
			if got := ExitCode(res.err); got != tt.wantCode {
				t.Fatalf("ExitCode = %d, want %d (err=%v)", got, tt.wantCode, res.err)
			}
			if !strings.Contains(res.stderr, tt.want) {
				t.Errorf("stderr = %q, want %q", res.stderr, tt.want)
			}
		})
	}
}
