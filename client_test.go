package arcadedb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLazyAuthentication(t *testing.T) {
	client, ft := newTestClient(t, func(req *apiRequest) (*apiResponse, error) {
		switch req.Path {
		case "exists/testdb":
			return jsonResponse(200, map[string]any{"result": true})
		default:
			return rowsResponse(Record{"name": "doc"})
		}
	})
	client.authenticated = false
	ctx := context.Background()

	_, err := client.Command(ctx, "SELECT FROM schema:types", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"exists/testdb", "command/testdb"}, ft.paths())

	// The credential check is remembered; later operations skip it.
	_, err = client.Command(ctx, "SELECT FROM schema:types", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"exists/testdb", "command/testdb", "command/testdb"}, ft.paths())
}

func TestAuthenticationFailureSurfaces(t *testing.T) {
	client, ft := newTestClient(t, func(req *apiRequest) (*apiResponse, error) {
		return nil, &Error{Kind: ErrAuthentication, Message: "authentication failed", StatusCode: 401}
	})
	client.authenticated = false

	_, err := client.Command(context.Background(), "SELECT FROM x", nil)
	require.True(t, IsKind(err, ErrAuthentication))
	// The command itself is never attempted after the credential check fails.
	require.Equal(t, []string{"exists/testdb"}, ft.paths())
}

func TestCommandParsesRows(t *testing.T) {
	client, ft := newTestClient(t, func(req *apiRequest) (*apiResponse, error) {
		return rowsResponse(
			Record{"name": "alpha", "count": float64(3)},
			Record{"name": "beta", "count": float64(5)},
		)
	})

	rows, err := client.Command(context.Background(), "SELECT FROM counters", map[string]any{"limit": 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	name, ok := rows[0].String("name")
	require.True(t, ok)
	require.Equal(t, "alpha", name)
	count, ok := rows[1].Int64("count")
	require.True(t, ok)
	require.EqualValues(t, 5, count)

	body, ok := ft.requests[0].Body.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "sql", body["language"])
	require.Equal(t, map[string]any{"limit": 2}, body["parameters"])
}

func TestListTypes(t *testing.T) {
	client, _ := newTestClient(t, func(req *apiRequest) (*apiResponse, error) {
		return rowsResponse(Record{"name": "versions"}, Record{"name": "URA#permits#1"})
	})

	names, err := client.ListTypes(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"versions", "URA#permits#1"}, names)
}

func TestListDatabases(t *testing.T) {
	client, ft := newTestClient(t, func(req *apiRequest) (*apiResponse, error) {
		return jsonResponse(200, map[string]any{"result": []string{"utacs", "scratch"}})
	})

	names, err := client.ListDatabases(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"utacs", "scratch"}, names)
	require.Equal(t, []string{"databases"}, ft.paths())
}

func TestUpdate(t *testing.T) {
	client, ft := newTestClient(t, func(req *apiRequest) (*apiResponse, error) {
		return rowsResponse(Record{"count": float64(1)})
	})
	ctx := context.Background()

	require.NoError(t, client.Update(ctx, "counters", "seq", 42))
	require.Equal(t, "UPDATE `counters` SET `seq` = 42", ft.commands()[0])

	// String values take the usual literal quoting.
	require.NoError(t, client.Update(ctx, "counters", "owner", "O'Neill"))
	require.Equal(t, "UPDATE `counters` SET `owner` = 'O''Neill'", ft.commands()[1])
}

func TestPingSkipsAuthentication(t *testing.T) {
	client, ft := newTestClient(t, func(req *apiRequest) (*apiResponse, error) {
		require.False(t, req.Auth)
		return jsonResponse(200, map[string]any{"result": "ok"})
	})
	client.authenticated = false

	require.NoError(t, client.Ping(context.Background()))
	require.Equal(t, []string{"ready"}, ft.paths())
}

func TestServerInfo(t *testing.T) {
	client, _ := newTestClient(t, func(req *apiRequest) (*apiResponse, error) {
		return jsonResponse(200, map[string]any{"version": "25.6.1", "user": "root"})
	})

	info, err := client.ServerInfo(context.Background())
	require.NoError(t, err)
	version, ok := info.String("version")
	require.True(t, ok)
	require.Equal(t, "25.6.1", version)
}

func TestRecordAccessors(t *testing.T) {
	row := Record{
		"@rid":  "#12:0",
		"@type": "d",
		"@cat":  "d",
		"n":     float64(42),
		"s":     "value",
		"b":     true,
	}

	rid, ok := row.RID()
	require.True(t, ok)
	require.Equal(t, "#12:0", rid)

	n, ok := row.Int64("n")
	require.True(t, ok)
	require.EqualValues(t, 42, n)

	b, ok := row.Bool("b")
	require.True(t, ok)
	require.True(t, b)

	_, ok = row.Int64("missing")
	require.False(t, ok)

	clean := row.withoutMeta()
	require.Equal(t, Record{"n": float64(42), "s": "value", "b": true}, clean)
	// The original record is left untouched.
	_, ok = row.RID()
	require.True(t, ok)
}
