package jira

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dt-pm-tools/jsm-panel/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.Config{URL: srv.URL + "/", Email: "a@example.com", Token: "tok"})
}

func TestGetIssue(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/api/3/issue/SD-1", r.URL.Path)
		assert.Equal(t, "issuelinks,subtasks", r.URL.Query().Get("fields"))
		assert.Equal(t, "renderedFields", r.URL.Query().Get("expand"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "a@example.com", user)
		assert.Equal(t, "tok", pass)

		_, _ = io.WriteString(w, `{"id":"10","key":"SD-1","fields":{"summary":"Laptop","status":{"name":"Open"},
			"issuelinks":[{"outwardIssue":{"key":"JSW-2"}},{"inwardIssue":{"key":"OPS-1"}}],
			"subtasks":[{"key":"SD-2","fields":{"summary":"s","status":{"name":"Done"}}}]}}`)
	})

	issue, err := client.GetIssue(context.Background(), "SD-1", []string{"issuelinks", "subtasks"}, []string{"renderedFields"})
	require.NoError(t, err)

	assert.Equal(t, "Laptop", issue.Fields.Summary)
	require.Len(t, issue.Fields.IssueLinks, 2)
	assert.Equal(t, "JSW-2", issue.Fields.IssueLinks[0].LinkedKey())
	assert.Equal(t, "OPS-1", issue.Fields.IssueLinks[1].LinkedKey())
	require.Len(t, issue.Fields.Subtasks, 1)
	assert.Equal(t, "Done", issue.Fields.Subtasks[0].Fields.Status.Name)
}

func TestGetIssueAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"errorMessages":["Issue does not exist"]}`)
	})

	_, err := client.GetIssue(context.Background(), "SD-404", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "JIRA API returned 404")
	assert.Contains(t, err.Error(), "Issue does not exist")
}

func TestGetComments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/issue/JSW-2/comment", r.URL.Path)
		_, _ = io.WriteString(w, `{"comments":[{"id":"1","body":"plain","author":{"displayName":"Ada","avatarUrls":{"48x48":"big"}}}],"total":1}`)
	})

	comments, err := client.GetComments(context.Background(), "JSW-2")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, `"plain"`, string(comments[0].Body))
	assert.Equal(t, "big", comments[0].Author.AvatarURLs["48x48"])
}

func TestTransitions(t *testing.T) {
	var posted TransitionPayload
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/issue/JSW-2/transitions", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"transitions":[{"id":"31","name":"Approve","to":{"name":"Approved"}}]}`)
		case http.MethodPost:
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
			w.WriteHeader(http.StatusNoContent)
		}
	})

	transitions, err := client.GetTransitions(context.Background(), "JSW-2")
	require.NoError(t, err)
	require.Len(t, transitions, 1)
	assert.Equal(t, "Approved", transitions[0].To.Name)

	require.NoError(t, client.DoTransition(context.Background(), "JSW-2", "31"))
	assert.Equal(t, "31", posted.Transition.ID)
}

func TestAddComment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"body":{"type":"doc","version":1,"content":[]}}`, string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"100"}`)
	})

	created, err := client.AddComment(context.Background(), "JSW-2", map[string]any{"type": "doc", "version": 1, "content": []any{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"100"}`, string(created))
}

func TestAddAttachment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/issue/JSW-2/attachments", r.URL.Path)
		assert.Equal(t, "no-check", r.Header.Get("X-Atlassian-Token"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, _ := io.ReadAll(file)
		assert.Equal(t, "hello", string(data))
		assert.Equal(t, "notes.txt", header.Filename)
		assert.Equal(t, "text/plain", header.Header.Get("Content-Type"))

		_, _ = io.WriteString(w, `[{"id":"9","filename":"notes.txt","size":5}]`)
	})

	created, err := client.AddAttachment(context.Background(), "JSW-2", "notes.txt", "text/plain", []byte("hello"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"9","filename":"notes.txt","size":5}]`, string(created))
}

func TestIssueKeyIsEscaped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/issue/SD-1%2F..", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"key":"SD-1"}`)
	})

	_, err := client.GetIssue(context.Background(), "SD-1/..", nil, nil)
	require.NoError(t, err)
}

func TestLinkedKey(t *testing.T) {
	assert.Equal(t, "", IssueLink{}.LinkedKey())
	assert.Equal(t, "B-1", IssueLink{OutwardIssue: &Issue{Key: "B-1"}, InwardIssue: &Issue{Key: "A-1"}}.LinkedKey())
}
