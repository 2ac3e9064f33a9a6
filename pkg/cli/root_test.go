package cli_test

import (
	"bytes"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swagftw/minichain/pkg/blockchain"
	"github.com/swagftw/minichain/pkg/cli"
	"github.com/swagftw/minichain/pkg/journal"
	"github.com/swagftw/minichain/pkg/ledger"
	"github.com/swagftw/minichain/transport"
	"github.com/swagftw/minichain/utl/jwt"
	"github.com/swagftw/minichain/utl/middleware"
	"github.com/swagftw/minichain/utl/server"
	"github.com/swagftw/minichain/utl/server/fault"
)

const (
	genesisDigest = "67e2d1cc783d76216088a467bd13ca99a316c7892d8ee169ccc0894e2de19953"
	minedDigest   = "0029a6c557d2509bcabbe488bf9a605fb811c1727166d4be6668fa5cc8b38b15"
	staleDigest   = "9d6ceb03ed46dbb2f23a54760a4ae7fea2e4d1c045720f35ce34cdbf7d46aaa0"
)

func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{}, args...))

	_, err = root.ExecuteC()

	return buf.String(), err
}

func TestRootCmd(t *testing.T) {
	// Show help
	output, err := executeCommand(cli.NewRootCmd())
	assert.NoError(t, err)
	assert.Contains(t, output, "minichain builds blocks of transactions, links them by SHA-256 digest,")

	// Test invalid logLevel
	_, err = executeCommand(cli.NewRootCmd(), "version", "--logLevel", "invalid")
	assert.ErrorContains(t, err, "invalid log level: invalid. Valid log levels are: debug|error|info|warn")

	_, err = executeCommand(cli.NewRootCmd(), "version", "--log-format", "xml")
	assert.ErrorContains(t, err, "invalid log format: xml")
}

func TestVersionCmd(t *testing.T) {
	output, err := executeCommand(cli.NewRootCmd(), "version")
	require.NoError(t, err)
	assert.Equal(t, "minichain dev\n", output)
}

func TestDemoCmd(t *testing.T) {
	output, err := executeCommand(cli.NewRootCmd(), "demo")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	require.Len(t, lines, 9)

	genesisLine := "Block #0 [Hash: " + genesisDigest + ", Prev. Hash: 0, Nonce: 0]"

	assert.Equal(t, "Blockchain:", lines[0])
	assert.Equal(t, genesisLine, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Block #1 [Hash: 00"), lines[2])
	assert.Contains(t, lines[2], ", Prev. Hash: "+genesisDigest+", Nonce: ")
	assert.Equal(t, "Is chain valid? true", lines[3])

	assert.Equal(t, "Other blockchain:", lines[4])
	assert.Equal(t, genesisLine, lines[5])
	assert.Equal(t, genesisLine, lines[6])
	assert.Equal(t, "Block #1 [Hash: "+staleDigest+", Prev. Hash: "+genesisDigest+", Nonce: 0]", lines[7])
	assert.Equal(t, "Is chain valid? false", lines[8])
}

func TestMineAndAuditCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal")

	output, err := executeCommand(cli.NewRootCmd(), "mine",
		"--tx", "Alice:Bob:1.5", "--tx", "Bob:Charlie:2", "--count", "2", "--journal", dir)
	require.NoError(t, err)
	assert.Contains(t, output, genesisDigest)
	assert.Contains(t, output, "Is chain valid? true")

	output, err = executeCommand(cli.NewRootCmd(), "audit", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "holds 3 blocks")
	assert.Contains(t, output, "Is chain valid? true")

	// the journal belongs to the finished run
	_, err = executeCommand(cli.NewRootCmd(), "mine", "--journal", dir)
	assert.ErrorIs(t, err, journal.ErrJournalExists)
}

func TestMineCmdErrors(t *testing.T) {
	_, err := executeCommand(cli.NewRootCmd(), "mine", "--tx", "Alice-Bob-1")
	assert.ErrorIs(t, err, cli.ErrInvalidTransaction)

	_, err = executeCommand(cli.NewRootCmd(), "mine", "--count", "0")
	assert.ErrorContains(t, err, "block count must be at least 1")
}

func TestAuditCmdDetectsBrokenLink(t *testing.T) {
	dir := t.TempDir()

	j, err := journal.Create(dir)
	require.NoError(t, err)
	require.NoError(t, j.Append(blockchain.Genesis()))
	require.NoError(t, j.Append(blockchain.NewBlock(1, 0, nil, "not-the-genesis-hash", 0)))
	require.NoError(t, j.Close())

	output, err := executeCommand(cli.NewRootCmd(), "audit", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, blockchain.ErrBrokenLink)
	assert.Contains(t, output, "Is chain valid? false")

	_, err = executeCommand(cli.NewRootCmd(), "audit", filepath.Join(dir, "missing"))
	assert.ErrorContains(t, err, "journal not found")
}

func TestTokenCmd(t *testing.T) {
	output, err := executeCommand(cli.NewRootCmd(), "token", "--jwt-secret", "secret", "--subject", "alice")
	require.NoError(t, err)

	tokens, err := jwt.New("secret", time.Minute)
	require.NoError(t, err)

	token, err := tokens.ParseToken("Bearer " + strings.TrimSpace(output))
	require.NoError(t, err)
	assert.True(t, token.Valid)

	_, err = executeCommand(cli.NewRootCmd(), "token")
	assert.ErrorContains(t, err, "missing JWT secret")
}

func TestServeCmdRejectsConfig(t *testing.T) {
	_, err := executeCommand(cli.NewRootCmd(), "serve", "--addr", "")
	assert.ErrorContains(t, err, "missing listen address")

	_, err = executeCommand(cli.NewRootCmd(), "serve", "--jwt-secret", "secret", "--token-ttl", "0s")
	assert.ErrorContains(t, err, "token TTL must be positive")
}

func newNode(t *testing.T, opts transport.Options) *httptest.Server {
	t.Helper()

	svc, err := ledger.New(ledger.WithChainOptions(blockchain.WithClock(func() time.Time {
		return time.Unix(1700000000, 0)
	})))
	require.NoError(t, err)

	e := server.InitEcho()
	transport.InitHandlers(e, svc, opts)

	node := httptest.NewServer(e)
	t.Cleanup(node.Close)

	return node
}

func TestRemoteCmd(t *testing.T) {
	node := newNode(t, transport.Options{})

	output, err := executeCommand(cli.NewRootCmd(), "remote", "mine", "--server", node.URL,
		"--tx", "Alice:Bob:1", "--tx", "Bob:Charlie:2")
	require.NoError(t, err)
	assert.Contains(t, output, minedDigest)

	output, err = executeCommand(cli.NewRootCmd(), "remote", "chain", "--server", node.URL)
	require.NoError(t, err)
	assert.Contains(t, output, genesisDigest)
	assert.Contains(t, output, minedDigest)
	assert.Contains(t, output, "Is chain valid? true")

	output, err = executeCommand(cli.NewRootCmd(), "remote", "valid", "--server", node.URL)
	require.NoError(t, err)
	assert.Contains(t, output, "Is chain valid? true")
}

func TestRemoteCmdToken(t *testing.T) {
	tokens, err := jwt.New("secret", time.Minute)
	require.NoError(t, err)

	node := newNode(t, transport.Options{Auth: middleware.JwtMiddleware(tokens)})

	_, err = executeCommand(cli.NewRootCmd(), "remote", "mine", "--server", node.URL)

	var httpErr *fault.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, fault.CodeUnauthorized, httpErr.ErrorCode)

	token, err := tokens.GenerateAccessToken("alice")
	require.NoError(t, err)

	_, err = executeCommand(cli.NewRootCmd(), "remote", "mine", "--server", node.URL, "--token", token)
	assert.NoError(t, err)
}
