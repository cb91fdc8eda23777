package config_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ajitpratap0/colseries/pkg/config"
)

// ExampleDefault demonstrates the default configuration.
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Driver: %s\n", cfg.Store.Driver)
	fmt.Printf("Collection: %s\n", cfg.Store.Collection)
	fmt.Printf("Connect timeout: %s\n", cfg.Store.ConnectTimeout)

	// Output:
	// Driver: memory
	// Collection: frames
	// Connect timeout: 10s
}

// ExampleLoad demonstrates loading configuration from a YAML file
// with environment variable substitution.
func ExampleLoad() {
	dir, _ := os.MkdirTemp("", "colseries-config")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "colseries.yaml")
	_ = os.WriteFile(path, []byte(`
name: example
store:
  driver: mongodb
  uri: ${EXAMPLE_MONGO_URI:-mongodb://localhost:27017}
  database: market
`), 0o600)

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cfg.Store.URI)
	fmt.Println(cfg.Store.Database, cfg.Store.Collection)

	// Output:
	// mongodb://localhost:27017
	// market frames
}
