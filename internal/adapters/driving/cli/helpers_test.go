package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxclause/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/taxclause/internal/core/services"
	"github.com/custodia-labs/taxclause/internal/normalisers"
	"github.com/custodia-labs/taxclause/internal/normalisers/docx"
	"github.com/custodia-labs/taxclause/internal/normalisers/html"
	"github.com/custodia-labs/taxclause/internal/normalisers/plaintext"
)

// setupTestServices installs in-memory services and resets flag state
// left behind by earlier command runs.
func setupTestServices(t *testing.T, config ...map[string]any) *Services {
	t.Helper()

	engine, err := services.NewDefaultClauseEngine()
	require.NoError(t, err)

	contracts := services.NewContractService(memory.NewContractStore(), engine)
	svc := &Services{
		Contracts: contracts,
		Ingest: services.NewIngestService(contracts,
			normalisers.NewRegistry(plaintext.New(), html.New(), docx.New())),
		Settings: services.NewSettingsService(memory.NewConfigStore(config...)),
	}

	resetFlags()
	SetServices(svc)
	t.Cleanup(func() {
		SetServices(nil)
		resetFlags()
	})
	return svc
}

func resetFlags() {
	verbose = false
	configPath = ""
	backendFlag = ""
	outputFormat = outputText
	indexFile = ""
	indexTitle = ""
	failOnIssues = false
	ingestID = ""
}

// run executes the root command with args and returns combined output.
func run(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
