package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deeporigin/deeporigin/internal/mockapi"
	"github.com/deeporigin/deeporigin/pkg/auth"
	"github.com/deeporigin/deeporigin/pkg/config"
	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ExitMocks struct {
	mock.Mock
	exitStatuses []int
}

func (m *ExitMocks) Fatalf(format string, v ...interface{}) {
	fmt.Printf(format+"\n", v...)
	m.exitStatuses = append(m.exitStatuses, 1)
}

func (m *ExitMocks) Fatalln(v ...interface{}) {
	fmt.Println(v...)
	m.exitStatuses = append(m.exitStatuses, 1)
}

func (m *ExitMocks) Exit(code int) {
	m.exitStatuses = append(m.exitStatuses, code)
}

func (m *ExitMocks) fatalCalls() int {
	return len(m.exitStatuses)
}

func (m *ExitMocks) lastStatus() int {
	if len(m.exitStatuses) == 0 {
		return 0
	}
	return m.exitStatuses[len(m.exitStatuses)-1]
}

func NewExitMocks() *ExitMocks {
	exitMocks := ExitMocks{
		exitStatuses: make([]int, 0),
	}
	return &exitMocks
}

func MakeExitMock(m *ExitMocks) func(int) {
	return func(code int) {
		m.Exit(code)
	}
}

var exitMocks *ExitMocks

// AuthMock answers with a canned principal
type AuthMock struct {
	mock.Mock
}

func (a *AuthMock) Principal(tokens *auth.Tokens) (auth.Principal, error) {
	args := a.Called(tokens)
	return args.Get(0).(auth.Principal), args.Error(1)
}

// testEnv isolates a test from the user configuration and from the network
type testEnv struct {
	home  string
	files *mockapi.FileServer
	api   *mockapi.API
	out   *bytes.Buffer
}

func (e *testEnv) configFile() string {
	return filepath.Join(e.home, config.Dir, config.FileName)
}

func setupTests(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		home: t.TempDir(),
		out:  new(bytes.Buffer),
	}
	t.Setenv("HOME", env.home)
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv(config.EnvName(config.KeyOrganizationID), "")

	exitMocks = NewExitMocks()
	logFatalln = exitMocks.Fatalln
	logFatalf = exitMocks.Fatalf
	osExit = MakeExitMock(exitMocks)

	env.files = mockapi.NewFileServer()
	env.api = mockapi.New(env.files.URL)
	newClient = func(_ *config.Config, l *zap.Logger) (*managed.Client, error) {
		return managed.New(
			managed.WithInvoker(env.api),
			managed.HTTPClient(env.files.Client()),
			managed.Logger(l),
		), nil
	}

	infoLogger.SetOutput(env.out)
	rootCmd.SetOut(env.out)
	rootCmd.SetErr(env.out)
	noColor := color.NoColor
	color.NoColor = true

	t.Cleanup(func() {
		env.files.Close()
		infoLogger.SetOutput(os.Stdout)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		color.NoColor = noColor
		authorizer = auth.JWTPrincipal{}
	})
	return env
}

// resetFlags restores the default value of all flags, since flag values outlive a command execution
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes a command and returns its output
func runCmd(t *testing.T, env *testEnv, cmd []string, intentMsg string, expectError bool) string {
	t.Helper()
	fatalCallsBefore := exitMocks.fatalCalls()
	resetFlags(rootCmd)
	env.out.Reset()

	rootCmd.SetArgs(cmd)
	require.NoError(t, rootCmd.Execute(), "error executing '"+strings.Join(cmd, " ")+"' : "+intentMsg)
	if expectError {
		require.Equal(t, fatalCallsBefore+1, exitMocks.fatalCalls(),
			"ran '"+strings.Join(cmd, " ")+"' expecting error and didn't see one in mocks : "+intentMsg)
	} else {
		require.Equal(t, fatalCallsBefore, exitMocks.fatalCalls(),
			"unexpected error in mocks on '"+strings.Join(cmd, " ")+"' : "+intentMsg)
	}
	return env.out.String()
}
