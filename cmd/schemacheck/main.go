package main

import (
	"os"

	"github.com/osvaldoandrade/schemacheck/pkg/schemacheck"
)

func main() {
	os.Exit(schemacheck.Execute())
}
