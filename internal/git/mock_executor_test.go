package git

import (
	"os/exec"
	"strings"
)

// MockCommandExecutor records commands and answers them from a table keyed
// by the git subcommand arguments (everything after "git" and "-C <path>").
type MockCommandExecutor struct {
	Outputs  map[string]string
	Errors   map[string]error
	Commands []*exec.Cmd
}

func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		Outputs: map[string]string{},
		Errors:  map[string]error{},
	}
}

func (m *MockCommandExecutor) ExecuteWithOutput(cmd *exec.Cmd) (string, error) {
	m.Commands = append(m.Commands, cmd)
	key := commandKey(cmd)
	if err, ok := m.Errors[key]; ok {
		return "", err
	}
	return m.Outputs[key], nil
}

// Count returns how many recorded commands have the given key.
func (m *MockCommandExecutor) Count(key string) int {
	n := 0
	for _, c := range m.Commands {
		if commandKey(c) == key {
			n++
		}
	}
	return n
}

func commandKey(cmd *exec.Cmd) string {
	args := cmd.Args[1:]
	if len(args) >= 2 && args[0] == "-C" {
		args = args[2:]
	}
	return strings.Join(args, " ")
}
