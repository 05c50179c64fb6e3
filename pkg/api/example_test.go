package api_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/whit3rabbit/dexmixer/internal/config"
	"github.com/whit3rabbit/dexmixer/pkg/api"
)

// Example shows basic usage of the dexmixer library.
func Example() {
	// Suppress default informational messages for example
	config.Testing = true
	defer func() { config.Testing = false }()

	input, err := os.ReadFile(filepath.Join("testdata", "app.yaml"))
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	ed, err := api.New(input, api.Options{Silent: true})
	if err != nil {
		log.Fatalf("Failed to create editor: %v", err)
	}
	ed.EnableObfuscation(21)
	ed.EnableShrink()

	if _, err := ed.Execute(); err != nil {
		log.Fatalf("Failed to rewrite container: %v", err)
	}

	fmt.Printf("Renamed %d classes\n", len(ed.ExportMapping()))
	// Output: Renamed 2 classes
}

// ExampleEditor_OverrideType demonstrates pinning a class name.
func ExampleEditor_OverrideType() {
	config.Testing = true
	defer func() { config.Testing = false }()

	ed, err := api.Open(filepath.Join("testdata", "app.yaml"), api.Options{Silent: true})
	if err != nil {
		log.Fatalf("Failed to open container: %v", err)
	}
	ed.OverrideType("Lcom/example/A;", "Lcom/example/Main;")

	if _, err := ed.Execute(); err != nil {
		log.Fatalf("Failed to rewrite container: %v", err)
	}

	fmt.Println(ed.ExportMapping()["Lcom/example/A;"])
	// Output: Lcom/example/Main;
}

// ExampleEditor_OverrideString demonstrates replacing a string constant.
func ExampleEditor_OverrideString() {
	config.Testing = true
	defer func() { config.Testing = false }()

	ed, err := api.Open(filepath.Join("testdata", "app.yaml"), api.Options{Silent: true})
	if err != nil {
		log.Fatalf("Failed to open container: %v", err)
	}
	ed.OverrideString("secret", "public")

	if _, err := ed.Execute(); err != nil {
		log.Fatalf("Failed to rewrite container: %v", err)
	}

	fmt.Println("String constants replaced")
	// Output: String constants replaced
}
