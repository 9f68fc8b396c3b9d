package main

import (
	"fmt"
	"os"

	"github.com/doublemover/objc3sema/cmd/objc3sema/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
