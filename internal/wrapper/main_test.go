package wrapper_test

import (
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"
)

// Invoked by `go test`, switch between helper and running tests based on env
func TestMain(m *testing.M) {
	switch os.Getenv("TEST_MAIN") {
	case "printenv":
		for _, name := range os.Args[1:] {
			fmt.Println(os.Getenv(name))
		}
		os.Exit(0)

	case "cat-env":
		path := os.Getenv(os.Args[1])
		b, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err) //nolint:errcheck // test helper process output
			os.Exit(1)
		}
		fmt.Printf("%s\n%s", path, b)
		os.Exit(0)

	case "exit":
		code, _ := strconv.Atoi(os.Args[1])
		fmt.Println("started")
		os.Exit(code)

	case "kill-self":
		self, err := os.FindProcess(os.Getpid())
		if err != nil {
			os.Exit(2)
		}
		_ = self.Signal(os.Kill)
		time.Sleep(10 * time.Second)
		os.Exit(3)

	default:
		os.Exit(m.Run())
	}
}
