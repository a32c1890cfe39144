package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/restbind/api"
	"github.com/s0up4200/restbind/config"
	"github.com/s0up4200/restbind/endpoint"
	"github.com/s0up4200/restbind/request"
	"github.com/s0up4200/restbind/schema"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name       string
		positional []string
		named      []string
		query      []string
		body       string
		want       endpoint.Args
		wantErr    string
	}{
		{
			name:       "positional",
			positional: []string{"a", "b"},
			want:       endpoint.Args{Positional: []any{"a", "b"}},
		},
		{
			name:  "named with repeated key",
			named: []string{"id=1", "tag=x", "tag=y"},
			want:  endpoint.Args{Named: map[string]any{"id": "1", "tag": []string{"x", "y"}}},
		},
		{
			name:  "query and body",
			query: []string{"limit=10", "empty="},
			body:  `{"n":1}`,
			want: endpoint.Args{
				Query: map[string][]string{"limit": {"10"}, "empty": {""}},
				Body:  json.RawMessage(`{"n":1}`),
			},
		},
		{name: "both styles", positional: []string{"a"}, named: []string{"id=1"}, wantErr: "not both"},
		{name: "bad pair", named: []string{"novalue"}, wantErr: `invalid --arg "novalue"`},
		{name: "empty key", query: []string{"=v"}, wantErr: "invalid --query"},
		{name: "bad body", body: `{nope`, wantErr: "not valid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildArgs(tt.positional, tt.named, tt.query, tt.body)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadBodyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"s":"lol"}`), 0o600))

	raw, err := readBody("@" + path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"lol"}`, string(raw))

	_, err = readBody("@" + filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read body")
}

func TestProject(t *testing.T) {
	payload := []any{
		map[string]any{"name": "a", "n": float64(1)},
		map[string]any{"name": "b", "n": float64(5)},
	}

	got, err := project(payload, "", "")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	got, err = project(payload, "n > 2", "")
	require.NoError(t, err)
	assert.Equal(t, []any{payload[1]}, got)

	got, err = project(payload, "n > 0", "map(response, .name)")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)

	_, err = project(payload, "", "response ==")
	assert.ErrorContains(t, err, "invalid --select")

	_, err = project(payload, "n +", "")
	assert.ErrorContains(t, err, "invalid --where")
}

func TestPrintResult(t *testing.T) {
	tests := []struct {
		name   string
		result any
		want   string
	}{
		{name: "object", result: map[string]any{"ok": true}, want: "{\n  \"ok\": true\n}\n"},
		{name: "nil", result: nil, want: ""},
		{name: "raw json", result: &request.Response{Body: []byte(`[1,2]`)}, want: "[\n  1,\n  2\n]\n"},
		{name: "raw text", result: &request.Response{Body: []byte("pong")}, want: "pong\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, printResult(&buf, tt.result))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintSpec(t *testing.T) {
	spec := request.New(
		request.WithScheme(request.SchemeHTTPS),
		request.WithHost("www.example.com"),
		request.WithMethod(request.MethodPut),
		request.WithPath(request.NewPath("/object")),
		request.WithHeaders(map[string]string{"B": "2", "A": "1"}),
		request.WithBody([]byte(`{"n":1}`)),
	)

	var buf bytes.Buffer
	require.NoError(t, printSpec(&buf, spec))
	assert.Equal(t, "PUT https://www.example.com/object\nA: 1\nB: 2\n\n{\"n\":1}\n", buf.String())
}

func TestPrintSurface(t *testing.T) {
	surface := api.NewSurface().
		Endpoint("ping", endpoint.Must(endpoint.NewDefinition(request.MethodGet, "/ping"))).
		Group("objects", endpoint.Must(endpoint.NewGroup("/object", []*endpoint.Action{
			endpoint.Retrieve(schema.Type{}),
			endpoint.Destroy(),
		})))

	var buf bytes.Buffer
	require.NoError(t, printSurface(&buf, surface))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"NAME", "METHOD", "URL", "ARGS"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"ping", "GET", "/ping", "-"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"objects.destroy", "DELETE", "/object/{id}", "id"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"objects.retrieve", "GET", "/object/{id}", "id"}, strings.Fields(lines[3]))

	buf.Reset()
	require.NoError(t, printSurface(&buf, api.NewSurface()))
	assert.Equal(t, "No endpoints declared.\n", buf.String())
}

func TestPrintVersion(t *testing.T) {
	t.Cleanup(func() { SetVersion("dev", "none", "unknown") })

	tests := []struct {
		version string
		want    string
	}{
		{version: "dev", want: "restbind dev (development build, commit abc, built today)\n"},
		{version: "v1.2.3", want: "restbind 1.2.3 (commit abc, built today)\n"},
		{version: "1.3.0-rc.1", want: "restbind 1.3.0-rc.1 (commit abc, built today)\npre-release build\n"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			SetVersion(tt.version, "abc", "today")
			var buf bytes.Buffer
			require.NoError(t, printVersion(&buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "trace", want: zerolog.TraceLevel},
		{level: "debug", want: zerolog.DebugLevel},
		{level: "info", want: zerolog.InfoLevel},
		{level: "WARN", want: zerolog.WarnLevel},
		{level: "error", want: zerolog.ErrorLevel},
		{level: "bogus", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := setupLogger(config.LoggingConfig{Level: tt.level, Format: "json"})
			assert.Equal(t, tt.want, l.GetLevel())

			l = setupLogger(config.LoggingConfig{Level: tt.level, Format: "console", Color: true})
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}

// resetFlags restores every flag of c to its default between executions
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
}

// execute runs the CLI against a config pointing at server
func execute(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()

	host := strings.TrimPrefix(server.URL, "http://")
	content := fmt.Sprintf(`
connection:
  host: %q
  scheme: http
logging:
  level: error
endpoints:
  get_table:
    url: /table/{schema}/{name}
    args: [schema, name, database]
    query:
      - key: database
        from_arg: true
      - key: compact
        value: "true"
groups:
  objects:
    url: /object
    actions: [list, retrieve, update]
`, host)
	path := filepath.Join(t.TempDir(), "restbind.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	resetFlags(rootCmd)
	resetFlags(callCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", path}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCallCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/table/s/n":
			assert.Equal(t, "database=d&compact=true", r.URL.RawQuery)
			_, _ = w.Write([]byte(`{"rows": 3, "name": "n"}`))
		case r.URL.Path == "/object" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`[{"id": 1, "s": "a"}, {"id": 2, "s": "b"}]`))
		case r.URL.Path == "/object/7" && r.Method == http.MethodPut:
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "x", body["s"])
			_, _ = w.Write([]byte(`{"success": true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	t.Run("endpoint with select", func(t *testing.T) {
		out, err := execute(t, server, "call", "get_table", "s", "n", "d", "--select", "rows")
		require.NoError(t, err)
		assert.Equal(t, "3\n", out)
	})

	t.Run("named arguments", func(t *testing.T) {
		out, err := execute(t, server, "call", "get_table", "-a", "schema=s", "-a", "name=n", "-a", "database=d")
		require.NoError(t, err)
		assert.JSONEq(t, `{"rows": 3, "name": "n"}`, out)
	})

	t.Run("group action with where", func(t *testing.T) {
		out, err := execute(t, server, "call", "objects.list", "--where", `s == "b"`)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id": 2, "s": "b"}]`, out)
	})

	t.Run("body", func(t *testing.T) {
		out, err := execute(t, server, "call", "objects.update", "7", "--body", `{"s":"x"}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"success": true}`, out)
	})

	t.Run("dry run sends nothing", func(t *testing.T) {
		out, err := execute(t, server, "call", "objects.retrieve", "99", "--dry-run")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "GET "+server.URL+"/object/99\n"), out)
	})

	t.Run("status error", func(t *testing.T) {
		_, err := execute(t, server, "call", "objects.retrieve", "404")
		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrHTTPStatus)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := execute(t, server, "call", "nope")
		assert.ErrorIs(t, err, api.ErrUnknownEndpoint)
	})

	t.Run("argument count", func(t *testing.T) {
		_, err := execute(t, server, "call", "get_table", "s")
		assert.ErrorIs(t, err, endpoint.ErrArgumentCount)
	})
}

func TestListCommand(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	out, err := execute(t, server, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "get_table")
	assert.Contains(t, out, "objects.retrieve")
	assert.Contains(t, out, "schema, name, database")
}
